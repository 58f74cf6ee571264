// Package cookie is a thin wrapper around net/http cookies with secure
// defaults (Path=/, HttpOnly, SameSite=Lax) and a functional-options API for
// per-deployment overrides such as Domain and Secure. The refresh-token
// cookie written through this package carries a signed JWT, so no additional
// cookie-level signing is applied.
package cookie
