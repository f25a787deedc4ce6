package transport

import (
	"mime"
	"net/http"
	"strings"
)

// Response is a fully read response. Export bodies are opaque and kept as bytes.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type without parameters.
func (r *Response) ContentType() string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Filename returns the attachment name from Content-Disposition.
// RFC 5987 "filename*=utf-8''..." values are decoded by mime.ParseMediaType.
func (r *Response) Filename() string {
	cd := r.Header.Get("Content-Disposition")
	if cd == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["filename"])
}
