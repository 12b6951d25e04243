// Package session keeps one sign-in screen state per browser, identified by
// a cookie, in memory.
package session

import "time"

const (
	// CookieName is the name of the cookie that stores the session id.
	CookieName = "wr_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"

	// DefaultIdleTimeout is how long an untouched screen state is kept.
	DefaultIdleTimeout = 30 * time.Minute
)
