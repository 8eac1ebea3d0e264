package filetype

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind classifies an upload for the extraction pipeline.
type Kind int

const (
	Unsupported Kind = iota
	Image
	PDF
)

// Classify decides whether an upload is an image or a PDF from its declared
// content type. When the declared type is missing or generic, magic bytes are
// sniffed before rejecting.
func Classify(declared string, data []byte) (Kind, string) {
	ct := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	if ct == "" || ct == "application/octet-stream" {
		ct = mimetype.Detect(data).String()
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
	}

	switch {
	case ct == "application/pdf":
		return PDF, ct
	case strings.HasPrefix(ct, "image/"):
		return Image, ct
	default:
		return Unsupported, ct
	}
}
