package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-reader/internal/ai"
	"github.com/kozaktomas/face-reader/internal/constants"
	"github.com/kozaktomas/face-reader/internal/facereading"
	"github.com/kozaktomas/face-reader/internal/logger"
)

// User-facing error messages.
const (
	errMissingImage    = "请上传图片"
	errInvalidImage    = "上传的文件不是有效的图片"
	errRequestTooLarge = "上传的图片过大"
	errUpstreamFormat  = "AI分析服务暂时不可用，请稍后重试 (%d)"
	errEmptyResult     = "未能获取分析结果"
	errInternal        = "服务器内部错误，请稍后重试"
)

// Values of the X-Report-Source header.
const (
	reportSourceModel    = "model"
	reportSourceFallback = "fallback"
)

// AnalyzeHandler accepts a photo upload and answers with the report JSON.
type AnalyzeHandler struct {
	analyzer Analyzer
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
	}
}

// Analyze handles POST /api/analyze with a multipart "image" field.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestSize)

	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, errRequestTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, errMissingImage)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(constants.ImageFormField)
	if err != nil {
		respondError(w, http.StatusBadRequest, errMissingImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Log.WithError(err).Error("Reading uploaded image failed")
		respondError(w, http.StatusInternalServerError, errInternal)
		return
	}

	info, err := ai.DetectImage(data)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"filename": sanitizeForLog(header.Filename),
			"bytes":    len(data),
		}).Info("Rejected upload that is not an image")
		respondError(w, http.StatusBadRequest, errInvalidImage)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), facereading.Image{
		Data:     data,
		MIMEType: info.MIMEType,
		Filename: header.Filename,
	})
	if err != nil {
		status, message := analyzeErrorResponse(err)
		logger.Log.WithError(err).WithField("status", status).Error("Face reading failed")
		respondError(w, status, message)
		return
	}

	source := reportSourceModel
	if analysis.Fallback {
		source = reportSourceFallback
	}
	w.Header().Set(constants.HeaderAnalysisID, analysis.ID)
	w.Header().Set(constants.HeaderReportSource, source)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(analysis.Raw)
}

// analyzeErrorResponse maps an Analyze error to a status code and message.
func analyzeErrorResponse(err error) (int, string) {
	var statusErr *ai.StatusError
	switch {
	case errors.As(err, &statusErr):
		return http.StatusInternalServerError, fmt.Sprintf(errUpstreamFormat, statusErr.StatusCode)
	case errors.Is(err, ai.ErrEmptyReply):
		return http.StatusInternalServerError, errEmptyResult
	default:
		return http.StatusInternalServerError, errInternal
	}
}
