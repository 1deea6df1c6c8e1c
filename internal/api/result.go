package api

import "context"

// AuthenticatedDoer issues requests with a bearer credential attached and
// handles the 401 forced-logout category. Satisfied by the session
// controller (user flow) and the admin token store (admin flow).
type AuthenticatedDoer interface {
	AuthenticatedDo(ctx context.Context, req Request) (*Response, error)
}

// Result is the uniform outcome shape every service-layer operation returns
// for expected failure modes. Validation and business rejections arrive as
// Success=false with the server's message; transport failures are caught at
// the service boundary and mapped to a generic message before reaching here.
// Only truly exceptional conditions travel as Go errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK is the successful Result.
func OK() Result {
	return Result{Success: true}
}

// Fail builds a failed Result carrying a user-facing message.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
