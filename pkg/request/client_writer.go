package request

import "net/http"

// ClientWriter wraps a http.ResponseWriter and records the status code that
// was written, for request metrics.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code that was written to the client.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
	}
}

// WriteHeader implements the http.ResponseWriter interface.
func (w *ClientWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implements the http.ResponseWriter interface.
func (w *ClientWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// StatusCode returns the status code that was written to the client. Defaults
// to 200 if nothing has been written yet.
func (w *ClientWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}
