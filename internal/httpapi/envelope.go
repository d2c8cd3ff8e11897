package httpapi

import "net/http"

// Envelope wraps every JSON body: {"code","type","message","result"}
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

// Envelope codes
const (
	CodeOK     = 2000
	CodeFailed = -1
)

// writeOK answers 200 with result in a success envelope
func writeOK[T any](w http.ResponseWriter, result T) {
	writeJSON(w, http.StatusOK, Envelope[T]{Code: CodeOK, Type: "success", Message: "ok", Result: result})
}

// writeFailure answers 200 with an error envelope. Clients read the code, not
// the HTTP status.
func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Envelope[any]{Code: CodeFailed, Type: "error", Message: message})
}
