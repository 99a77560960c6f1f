package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"
)

// Identity headers populated by the fronting reverse proxy.
// Authentication itself happens upstream; this service only consumes
// the resolved identity.
const (
	HeaderUser  = "X-Forwarded-User"
	HeaderRoles = "X-Forwarded-Roles"
)

// RoleAdmin marks a principal allowed to mutate any reviewer's location.
const RoleAdmin = "admin"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Username string
	Roles    []string
}

// Anonymous reports whether the request carried no identity.
func (p Principal) Anonymous() bool {
	return p.Username == ""
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

// Principals returns middleware that parses the proxy identity headers
// into a Principal stored on the request context.
func Principals() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := Principal{
				Username: strings.TrimSpace(r.Header.Get(HeaderUser)),
				Roles:    parseRoles(r.Header.Get(HeaderRoles)),
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// WithPrincipal returns a context carrying the given principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the request principal from the context.
// Returns an anonymous principal when none was attached.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}

func parseRoles(header string) []string {
	if header == "" {
		return nil
	}

	parts := strings.Split(header, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roles = append(roles, strings.ToLower(trimmed))
		}
	}

	if len(roles) == 0 {
		return nil
	}
	return roles
}
