package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error envelope shared by every endpoint:
// { "error": "...", "code": "...", "details": [{field, message}] }.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Pagination accompanies every listing response.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return Pagination{Current: page, Pages: pages, Total: total}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the standard error envelope.
func JSONError(w http.ResponseWriter, status int, message, code string) {
	JSON(w, status, ErrorBody{Error: message, Code: code})
}
