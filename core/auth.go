package core

var (
	ErrNotAuthenticated = NewAuthenticationError("user not authenticated")
	ErrPermissionDenied = NewPermissionError("permission denied")
)

// Principal identifies the authenticated caller as supplied by the external
// identity service. The zero value is an anonymous caller.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func (p Principal) IsAnonymous() bool { return p.UserID == "" }
