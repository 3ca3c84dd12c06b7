package dto

import "net/http"

// ProblemContentType is the media type of RFC 7807 problem responses
const ProblemContentType = "application/problem+json"

// ProblemDetails is an RFC 7807 problem body
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// NewProblem builds a problem with the standard title for status.
// Type is always "about:blank".
func NewProblem(status int, detail string) ProblemDetails {
	return ProblemDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}
