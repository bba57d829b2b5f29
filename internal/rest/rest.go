package rest

// ErrorResponse is the JSON body returned by handlers on client and server errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MutationFailure is the structured body returned when a calendar mutation is
// rejected by the server. Clients use Message to surface the failure and roll
// back their optimistic state.
type MutationFailure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
