package handler

import (
	"net/http"
	"time"

	"github.com/dtroode/tap-portal-server/internal/service"
)

// Cookies writes and clears the session cookie.
type Cookies struct {
	Name   string
	Secure bool
	Domain string
	TTL    time.Duration
}

// Set delivers session as an HttpOnly cookie living as long as the credential.
func (c Cookies) Set(w http.ResponseWriter, session service.Session) {
	http.SetCookie(w, c.cookie(session.Token, int(c.TTL/time.Second)))
}

// Clear expires the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c Cookies) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteNoneMode
	// Browsers drop SameSite=None cookies that are not Secure.
	if !c.Secure {
		sameSite = http.SameSiteLaxMode
	}
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: sameSite,
	}
}
