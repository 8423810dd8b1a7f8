package auth

import (
	"net/http"
	"time"
)

// LoginTokenCookie is the cookie that carries the session token.
const LoginTokenCookie = "loginToken"

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain string // Empty string = current host only
	Secure bool   // HTTPS only
	MaxAge time.Duration
}

// SetLoginTokenCookie sets the session token in an httpOnly cookie
func SetLoginTokenCookie(w http.ResponseWriter, token string, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     LoginTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(config.MaxAge),
		MaxAge:   int(config.MaxAge.Seconds()),
		HttpOnly: true, // Critical: prevents JavaScript access (XSS protection)
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// ClearLoginTokenCookie clears the session cookie
func ClearLoginTokenCookie(w http.ResponseWriter, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     LoginTokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1, // Negative MaxAge deletes the cookie
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// GetLoginTokenCookie retrieves the session token from the request cookies.
// A missing cookie returns an empty token.
func GetLoginTokenCookie(r *http.Request) string {
	cookie, err := r.Cookie(LoginTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
