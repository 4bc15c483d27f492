package handlers

import (
	"net/http"
	"time"
)

// SessionCookieName имя cookie с id сессии
const SessionCookieName = "sid"

// CookieConfig параметры session cookie
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// SetSessionCookie выставляет cookie с id сессии на время жизни сессии
func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie у клиента (Max-Age=0)
func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromRequest возвращает значение session cookie или пустую строку
func SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
