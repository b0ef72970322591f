package handlers

import (
	"errors"
	"net/http"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/validation"
)

// AuthHandler handles registration, login and the current user endpoint.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MeResponse describes the authenticated user.
type MeResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST requests to create a user account.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (username, email, password)
// Response: 201 Created with RegisterResponse
// Error: 400 Bad Request if validation fails or the username is taken
// Error: 500 Internal Server Error if registration fails
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRegister(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrUsernameTaken.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRegister.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User created successfully",
		ID:      user.ID,
	})
}

// Login handles form-encoded POST requests exchanging credentials for an access token.
// The username field accepts the username or the email.
//
// Endpoint: POST /api/auth/login
// Request Body: application/x-www-form-urlencoded username, password
// Response: 200 OK with TokenResponse
// Error: 400 Bad Request if a field is missing
// Error: 401 Unauthorized if the credentials do not match
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid form body", err.Error())
		return
	}

	req := request.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := validation.ValidateLogin(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			response.RespondError(w, http.StatusUnauthorized, "Incorrect username or password", "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLogin.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   service.TokenTypeBearer,
	})
}

// Me returns the authenticated user.
//
// Endpoint: GET /api/user/me
// Response: 200 OK with MeResponse
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	response.RespondJSON(w, http.StatusOK, MeResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}
