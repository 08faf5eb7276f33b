package auth

import (
	"net/http"
	"time"
)

// CookieOverrides adjusts individual cookie attributes for one call.
// Nil fields keep the carrier's configured defaults.
type CookieOverrides struct {
	Path     *string
	Domain   *string
	MaxAge   *time.Duration
	Secure   *bool
	HTTPOnly *bool
	SameSite *http.SameSite
}

// Carrier binds issued tokens to the session cookie and back.
type Carrier struct {
	name   string
	domain string
	maxAge time.Duration
	secure bool
}

// NewCarrier constructs a Carrier with the configured cookie attributes.
func NewCarrier(name, domain string, maxAge time.Duration, secure bool) *Carrier {
	if name == "" {
		name = "acquisition_auth_token"
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Carrier{name: name, domain: domain, maxAge: maxAge, secure: secure}
}

// Name returns the cookie name used by this carrier.
func (c *Carrier) Name() string {
	return c.name
}

func (c *Carrier) build(value string, overrides ...CookieOverrides) *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
	// The domain attribute is left unset unless configured or overridden,
	// so the cookie never gets scoped to an unintended host.
	if c.domain != "" {
		cookie.Domain = c.domain
	}
	for _, o := range overrides {
		if o.Path != nil {
			cookie.Path = *o.Path
		}
		if o.Domain != nil {
			cookie.Domain = *o.Domain
		}
		if o.MaxAge != nil {
			cookie.MaxAge = int(*o.MaxAge / time.Second)
		}
		if o.Secure != nil {
			cookie.Secure = *o.Secure
		}
		if o.HTTPOnly != nil {
			cookie.HttpOnly = *o.HTTPOnly
		}
		if o.SameSite != nil {
			cookie.SameSite = *o.SameSite
		}
	}
	return cookie
}

// Attach sets the session cookie carrying the signed token.
func (c *Carrier) Attach(w http.ResponseWriter, token string, overrides ...CookieOverrides) {
	http.SetCookie(w, c.build(token, overrides...))
}

// Read retrieves the raw token from the request cookie. No validation
// happens here.
func (c *Carrier) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Remove clears the session cookie. The clearing cookie carries the same
// path, domain, and security attributes that scoped the original one;
// browsers silently ignore a removal whose attributes do not match.
func (c *Carrier) Remove(w http.ResponseWriter, overrides ...CookieOverrides) {
	cookie := c.build("", overrides...)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}
