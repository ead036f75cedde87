package http

import (
	"bufio"
	"net/http"
	"strings"
)

// response adapts *http.Response to ports.Response.
type response struct {
	raw *http.Response
}

// StatusCode returns the HTTP status code.
func (r *response) StatusCode() int {
	return r.raw.StatusCode
}

// Detail reads the response body line by line and concatenates the
// lines without separators, matching the upstream ingestion convention.
// If the body is empty or reading fails, it falls back to the status
// line; read errors never propagate.
func (r *response) Detail() string {
	var b strings.Builder
	read := false

	sc := bufio.NewScanner(r.raw.Body)
	for sc.Scan() {
		b.WriteString(sc.Text())
		read = true
	}
	// A scan error mid-body still leaves whatever was read as detail.
	if !read || b.Len() == 0 {
		return r.raw.Status
	}
	return b.String()
}

// Close releases the underlying connection.
func (r *response) Close() error {
	return r.raw.Body.Close()
}
