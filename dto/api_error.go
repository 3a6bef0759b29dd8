package dto

// APIErrorResponse is the body of every error response. The "detail" key is what API clients already read.
type APIErrorResponse struct {
	Detail string `json:"detail"`
}
