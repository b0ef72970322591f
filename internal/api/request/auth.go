package request

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest holds the form fields of POST /api/auth/login.
// Username accepts either the username or the email.
type LoginRequest struct {
	Username string
	Password string
}
