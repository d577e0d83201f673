package httpserver

import (
	"context"
	"net/http"
	"strings"
)

// Identity is what the access proxy asserts about the caller.
type Identity struct {
	Email    string
	Verified bool
}

// Authenticator extracts a caller identity from the request, if any.
type Authenticator interface {
	Identify(r *http.Request) (Identity, bool)
}

// TrustHeaderAuthenticator trusts the identity headers injected by the
// access proxy in front of the service. The JWT assertion header is only
// checked for presence; validation happens at the proxy.
type TrustHeaderAuthenticator struct{}

func (TrustHeaderAuthenticator) Identify(r *http.Request) (Identity, bool) {
	if r.Header.Get("CF-Access-JWT-Assertion") == "" {
		return Identity{}, false
	}
	email := r.Header.Get("CF-Access-Authenticated-User-Email")
	if email == "" {
		return Identity{}, false
	}
	// Only an explicit "true" counts; an absent or malformed flag reads as
	// unverified.
	verified := r.Header.Get("CF-Access-Authenticated-User-Email-Verified") == "true"
	return Identity{Email: email, Verified: verified}, true
}

type authCtxKey struct{}

// AuthInfo carries the authenticated caller through the request context.
type AuthInfo struct {
	Email   string
	IsAdmin bool
}

// AuthFromContext returns the caller identity set by the Auth middleware.
func AuthFromContext(ctx context.Context) (AuthInfo, bool) {
	info, ok := ctx.Value(authCtxKey{}).(AuthInfo)
	return info, ok
}

// publicPath reports whether the request path is reachable without
// credentials.
func publicPath(path string) bool {
	if !strings.HasPrefix(path, "/api/") {
		return true
	}
	switch path {
	case "/api/stats/public":
		return true
	}
	return false
}

// Auth enforces identity on /api/ routes (except the public stats
// endpoint) and stamps AuthInfo into the context.
func Auth(auth Authenticator, admins []string) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPath(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := auth.Identify(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "Autenticación requerida", "AUTH_REQUIRED", nil)
				return
			}
			if !id.Verified {
				writeError(w, http.StatusUnauthorized, "Unauthorized", "El correo electrónico no está verificado", "EMAIL_NOT_VERIFIED", nil)
				return
			}
			_, isAdmin := allow[strings.ToLower(id.Email)]
			info := AuthInfo{Email: id.Email, IsAdmin: isAdmin}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authCtxKey{}, info)))
		})
	}
}
