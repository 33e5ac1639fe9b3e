package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultExpiryBuffer is subtracted from a token's exp claim when
	// deciding whether it is expired, so the client refreshes before the
	// server would start rejecting the token.
	DefaultExpiryBuffer = 60 * time.Second

	// DefaultExpiringSoonThreshold is the window used by
	// [Inspector.IsExpiringSoon] when no threshold is configured.
	DefaultExpiringSoonThreshold = 5 * time.Minute
)

// Claims is the decoded access-token payload. Custom fields mirror what the
// auth service puts in its tokens; everything else comes from the registered
// claim set.
type Claims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	BranchID string `json:"branchId,omitempty"`
	jwt.RegisteredClaims
}

// Inspector decodes and inspects access tokens. The zero value is usable;
// configure ExpiryBuffer and ExpiringSoonThreshold through [NewInspector]
// to override the defaults.
type Inspector struct {
	ExpiryBuffer          time.Duration
	ExpiringSoonThreshold time.Duration

	now func() time.Time
}

// NewInspector returns an Inspector with the given expiry buffer and
// expiring-soon threshold. Non-positive values fall back to the defaults.
func NewInspector(buffer, soonThreshold time.Duration) *Inspector {
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	if soonThreshold <= 0 {
		soonThreshold = DefaultExpiringSoonThreshold
	}
	return &Inspector{ExpiryBuffer: buffer, ExpiringSoonThreshold: soonThreshold}
}

// Decode parses the payload segment of token. It returns nil for anything
// that is not a structurally valid JWT: empty input, wrong segment count,
// bad base64url, bad JSON. It never returns an error and never validates
// expiry or signature.
func (i *Inspector) Decode(token string) *Claims {
	if token == "" {
		return nil
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// IsExpired reports whether token should be treated as expired. Undecodable
// tokens and tokens without an exp claim count as expired. The configured
// buffer moves the effective deadline earlier than the actual exp.
func (i *Inspector) IsExpired(token string) bool {
	claims := i.Decode(token)
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}

	buffer := i.ExpiryBuffer
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	return !i.timeNow().Before(claims.ExpiresAt.Time.Add(-buffer))
}

// TimeUntilExpiry returns the duration until the token's exp claim. The
// result is negative for tokens already past expiry and zero for tokens
// that cannot be decoded or carry no exp claim.
func (i *Inspector) TimeUntilExpiry(token string) time.Duration {
	claims := i.Decode(token)
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Time.Sub(i.timeNow())
}

// IsExpiringSoon reports whether the token is still valid but inside the
// expiring-soon window, i.e. 0 < remaining <= threshold.
func (i *Inspector) IsExpiringSoon(token string) bool {
	remaining := i.TimeUntilExpiry(token)
	threshold := i.ExpiringSoonThreshold
	if threshold <= 0 {
		threshold = DefaultExpiringSoonThreshold
	}
	return remaining > 0 && remaining <= threshold
}

// ExpiryTime returns the token's exp claim, or the zero time when absent.
func (i *Inspector) ExpiryTime(token string) time.Time {
	claims := i.Decode(token)
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// IssuedAtTime returns the token's iat claim, or the zero time when absent.
func (i *Inspector) IssuedAtTime(token string) time.Time {
	claims := i.Decode(token)
	if claims == nil || claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}

// Subject returns the token's sub claim, or "" when undecodable.
func (i *Inspector) Subject(token string) string {
	claims := i.Decode(token)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// RoleClaim returns the token's role claim, or "" when undecodable.
func (i *Inspector) RoleClaim(token string) string {
	claims := i.Decode(token)
	if claims == nil {
		return ""
	}
	return claims.Role
}

func (i *Inspector) timeNow() time.Time {
	if i.now != nil {
		return i.now()
	}
	return time.Now()
}

var defaultInspector = &Inspector{}

// Decode is the package-level form of [Inspector.Decode] using defaults.
func Decode(token string) *Claims { return defaultInspector.Decode(token) }

// IsExpired is the package-level form of [Inspector.IsExpired] using defaults.
func IsExpired(token string) bool { return defaultInspector.IsExpired(token) }

// TimeUntilExpiry is the package-level form of [Inspector.TimeUntilExpiry].
func TimeUntilExpiry(token string) time.Duration { return defaultInspector.TimeUntilExpiry(token) }
