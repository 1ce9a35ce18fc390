// Package admin guards the catalog-mutating operations behind a fixed
// credential pair.
package admin

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrUnauthorized is returned when credentials do not match.
var ErrUnauthorized = errors.New("invalid admin credentials")

// Gate checks credentials against one configured username and password.
type Gate struct {
	username []byte
	password []byte
}

func NewGate(username, password string) *Gate {
	return &Gate{username: []byte(username), password: []byte(password)}
}

// Check compares both fields in constant time.
func (g *Gate) Check(username, password string) error {
	u := subtle.ConstantTimeCompare([]byte(username), g.username)
	p := subtle.ConstantTimeCompare([]byte(password), g.password)
	if u&p != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Require wraps next so that it runs only for requests carrying valid HTTP
// basic auth credentials.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || g.Check(username, password) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="hotel-admin"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"invalid admin credentials"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
