package rest

// ErrorResponse is the JSON shape returned for all failed API calls.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
