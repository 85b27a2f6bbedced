package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kozaktomas/face-reader/internal/ai"
	"github.com/kozaktomas/face-reader/internal/constants"
	"github.com/kozaktomas/face-reader/internal/facereading"
)

const validReport = `{"overview":"天庭饱满，地阁方圆","fiveOfficials":{"ear":"耳","eyebrow":"眉","eye":"眼","nose":"鼻","mouth":"口"},"advice":"多行善事"}`

func TestAnalyzeHandler_ValidJSON(t *testing.T) {
	var calls atomic.Int32
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		chatReply(w, "好的，以下是分析：\n```json\n"+validReport+"\n```")
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	if recorder.Body.String() != validReport {
		t.Errorf("expected report verbatim\nwant: %s\ngot:  %s", validReport, recorder.Body.String())
	}
	if got := recorder.Header().Get(constants.HeaderReportSource); got != "model" {
		t.Errorf("expected report source 'model', got '%s'", got)
	}
	if recorder.Header().Get(constants.HeaderAnalysisID) == "" {
		t.Error("expected analysis ID header")
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", calls.Load())
	}
}

func TestAnalyzeHandler_SendsImageAndPrompt(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		} `json:"messages"`
	}
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		chatReply(w, validReport)
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusOK)

	if got.Model != "glm-4v-flash" {
		t.Errorf("expected model glm-4v-flash, got %s", got.Model)
	}
	if got.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %f", got.Temperature)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("expected one message with two parts, got %+v", got.Messages)
	}
	parts := got.Messages[0].Content
	if parts[0].Type != "image_url" || !strings.HasPrefix(parts[0].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("expected inline jpeg first, got type=%s url=%.40s", parts[0].Type, parts[0].ImageURL.URL)
	}
	if parts[1].Type != "text" || parts[1].Text != facereading.Prompt() {
		t.Errorf("expected prompt text second, got type=%s", parts[1].Type)
	}
}

func TestAnalyzeHandler_UpstreamUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","code":"1305"}}`))
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "AI分析服务暂时不可用，请稍后重试 (503)")

	body := recorder.Body.String()
	if !strings.Contains(body, "AI分析服务暂时不可用") || !strings.Contains(body, "503") {
		t.Errorf("expected upstream status in body, got %s", body)
	}
	if calls.Load() != 1 {
		t.Errorf("expected no retries, got %d calls", calls.Load())
	}
}

func TestAnalyzeHandler_FallbackOnProse(t *testing.T) {
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "您的面相端正，五官协调，整体运势不错。")
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusOK)
	if got := recorder.Header().Get(constants.HeaderReportSource); got != "fallback" {
		t.Errorf("expected report source 'fallback', got '%s'", got)
	}

	var report facereading.Report
	parseJSONResponse(t, recorder, &report)
	if report.Overview != "您的面相端正，五官协调，整体运势不错。" {
		t.Errorf("expected reply text as overview, got %q", report.Overview)
	}
	if missing := report.Missing(); len(missing) != 0 {
		t.Errorf("expected every field filled, missing %v", missing)
	}
}

func TestAnalyzeHandler_EmptyReply(t *testing.T) {
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "")
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "未能获取分析结果")
}

func TestAnalyzeHandler_WhitespaceReplyFallsBack(t *testing.T) {
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "\n")
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusOK)
	if got := recorder.Header().Get(constants.HeaderReportSource); got != "fallback" {
		t.Errorf("expected report source 'fallback', got '%s'", got)
	}

	var report facereading.Report
	parseJSONResponse(t, recorder, &report)
	if missing := report.Missing(); len(missing) != 0 {
		t.Errorf("expected every field filled, missing %v", missing)
	}
}

func TestAnalyzeHandler_MissingImage(t *testing.T) {
	handler := NewAnalyzeHandler(&stubAnalyzer{})

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{
			name: "wrong field",
			req: func() *http.Request {
				return multipartRequest(t, "photo", "face.jpg", testJPEG(t))
			},
		},
		{
			name: "not multipart",
			req: func() *http.Request {
				req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"image":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
		},
		{
			name: "no body",
			req: func() *http.Request {
				return httptest.NewRequest("POST", "/api/analyze", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.Analyze(recorder, tt.req())

			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertJSONError(t, recorder, "请上传图片")
		})
	}
}

func TestAnalyzeHandler_NotAnImage(t *testing.T) {
	var calls atomic.Int32
	server := setupMockChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		chatReply(w, validReport)
	})

	handler := NewAnalyzeHandler(newTestAnalyzer(server))
	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "notes.txt", []byte("definitely not a photo")))

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "上传的文件不是有效的图片")
	if calls.Load() != 0 {
		t.Errorf("expected no upstream call, got %d", calls.Load())
	}
}

func TestAnalyzeHandler_RequestTooLarge(t *testing.T) {
	handler := NewAnalyzeHandler(&stubAnalyzer{})
	big := bytes.Repeat([]byte{0xff}, constants.MaxRequestSize+1024)

	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "big.jpg", big))

	assertStatusCode(t, recorder, http.StatusRequestEntityTooLarge)
	assertJSONError(t, recorder, "上传的图片过大")
}

func TestAnalyzeHandler_UnexpectedError(t *testing.T) {
	handler := NewAnalyzeHandler(&stubAnalyzer{err: errors.New("connection reset")})

	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.jpg", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "服务器内部错误，请稍后重试")
}

func TestAnalyzeHandler_PassesSniffedMIMEType(t *testing.T) {
	var gotMIME string
	stub := &recordingAnalyzer{fn: func(img facereading.Image) {
		gotMIME = img.MIMEType
	}}
	handler := NewAnalyzeHandler(stub)

	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, multipartRequest(t, "image", "face.png", testJPEG(t)))

	assertStatusCode(t, recorder, http.StatusOK)
	if gotMIME != "image/jpeg" {
		t.Errorf("expected sniffed image/jpeg, got %q", gotMIME)
	}
}

func TestAnalyzeErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"upstream 401", &ai.StatusError{StatusCode: 401}, 500, "AI分析服务暂时不可用，请稍后重试 (401)"},
		{"wrapped upstream", errors.Join(errors.New("calling"), &ai.StatusError{StatusCode: 429}), 500, "AI分析服务暂时不可用，请稍后重试 (429)"},
		{"empty reply", ai.ErrEmptyReply, 500, "未能获取分析结果"},
		{"other", errors.New("boom"), 500, "服务器内部错误，请稍后重试"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := analyzeErrorResponse(tt.err)
			if status != tt.status || message != tt.message {
				t.Errorf("expected (%d, %s), got (%d, %s)", tt.status, tt.message, status, message)
			}
		})
	}
}

// recordingAnalyzer hands each image to fn and answers with a minimal report.
type recordingAnalyzer struct {
	stubAnalyzer
	fn func(facereading.Image)
}

func (r *recordingAnalyzer) Analyze(_ context.Context, img facereading.Image) (*facereading.Analysis, error) {
	r.fn(img)
	return &facereading.Analysis{ID: "test", Raw: json.RawMessage(`{"overview":"好"}`)}, nil
}
