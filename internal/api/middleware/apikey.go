package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
)

// TimeTokenTTL is how long a generated X-Time-Token stays valid.
const TimeTokenTTL = 5 * time.Minute

// timeTokenKey derives the fernet key shared by token generation and verification.
func timeTokenKey(apiKey string) *fernet.Key {
	key := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &key
}

// GenerateTimeToken returns a short-lived X-Time-Token for apiKey.
// Returns an empty string if encryption fails.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	token, err := fernet.EncryptAndSign(msg, timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// APIKeyMiddleware guards internal endpoints such as the cron triggers.
// Requests must carry the configured key in X-API-Key and a token from GenerateTimeToken
// in X-Time-Token. An empty apiKey rejects every request with 500.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	keys := []*fernet.Key{timeTokenKey(apiKey)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusInternalServerError, "internal API key not configured", "Authentication not loaded")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			timeToken := r.Header.Get("X-Time-Token")
			if timeToken == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(timeToken), TimeTokenTTL, keys) == nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
