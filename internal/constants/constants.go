// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Upload constants
const (
	// MaxClientImageSize is the per-file ceiling the browser enforces before uploading (10MB)
	MaxClientImageSize = 10 << 20

	// MaxRequestSize caps the whole multipart body accepted by the server (32MB)
	MaxRequestSize = 32 << 20

	// MultipartMemory is the part of a multipart form kept in memory before spilling to disk
	MultipartMemory = 16 << 20

	// ImageFormField is the multipart field carrying the photo
	ImageFormField = "image"

	// DefaultImageMIMEType is used when the upload does not declare a content type
	DefaultImageMIMEType = "image/jpeg"
)

// Report constants
const (
	// FallbackOverviewLength is how many characters of the raw model reply the fallback overview keeps
	FallbackOverviewLength = 500

	// LogReplyPreviewLength is how many characters of an unparseable reply are logged
	LogReplyPreviewLength = 500

	// TerminalWidth is the default display width for text reports
	TerminalWidth = 80
)

// Response headers
const (
	// HeaderAnalysisID carries the per-request analysis identifier
	HeaderAnalysisID = "X-Analysis-ID"

	// HeaderReportSource is "model" when the reply parsed, "fallback" otherwise
	HeaderReportSource = "X-Report-Source"
)
