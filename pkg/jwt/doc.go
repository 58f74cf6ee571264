// Package jwt issues and verifies the signed session tokens used by the
// authentication core. Tokens are compact HS256 JWTs carrying the user ID as
// subject, an explicit token kind (access or refresh), and an optional email
// claim so access-token consumers avoid a database round trip.
//
// The package wraps github.com/golang-jwt/jwt/v5 behind a small Service with
// a fixed algorithm and a single symmetric key. The key must be at least
// 32 bytes; New refuses shorter keys so a misconfigured deployment fails at
// startup instead of lazily per request.
//
// # Usage
//
//	svc, err := jwt.New([]byte(cfg.SigningKey))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := svc.Sign(user.ID.String(), user.Email, jwt.KindAccess, 30*time.Minute)
//
//	claims, err := svc.Verify(token)
//	switch {
//	case errors.Is(err, jwt.ErrTokenExpired):
//	    // ask the client to log in again
//	case errors.Is(err, jwt.ErrTokenInvalid):
//	    // tampered or malformed, reject hard
//	}
//
// KindOf and ExpiresAt peek at claims without signature verification; they
// exist for type-confusion checks and TTL derivation and must always be
// combined with Verify before the token is trusted.
package jwt
