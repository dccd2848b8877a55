package auth

import (
	"net/http"
	"time"
)

type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// CookieFlags is a FlagStore backed by the cookies of one HTTP exchange.
// Values written during the request are visible to later reads.
type CookieFlags struct {
	w       http.ResponseWriter
	r       *http.Request
	opts    CookieOptions
	written map[string]*string
}

func NewCookieFlags(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieFlags {
	return &CookieFlags{w: w, r: r, opts: opts, written: make(map[string]*string)}
}

func (c *CookieFlags) GetFlag(key string) (string, bool) {
	if v, ok := c.written[key]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *CookieFlags) SetFlag(key, value string) {
	c.written[key] = &value
	maxAge := int(c.opts.MaxAge.Seconds())
	if key == SessionFlagKey {
		maxAge = 0
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *CookieFlags) ClearFlag(key string) {
	c.written[key] = nil
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
