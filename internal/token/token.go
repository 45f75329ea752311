package token

import (
	"context"
	"time"
)

// Token is one stored resumption token: the saved arguments of an
// in-progress paginated list request plus the cursor of the next page.
// Tokens are immutable once created; each further page creates a new one.
type Token struct {
	ID             string
	Verb           string
	MetadataPrefix string
	Cursor         int
	Set            string
	From           *time.Time
	Until          *time.Time
	Expiration     time.Time
}

// Expired reports whether the token is no longer valid at the given time.
func (t Token) Expired(now time.Time) bool {
	return !t.Expiration.After(now)
}

// Store persists live resumption tokens. Implementations must be safe for
// concurrent use; Find must never return an expired token, even when no
// purge ran in between.
type Store interface {
	// Create persists the token and returns it with its id assigned.
	Create(ctx context.Context, t Token) (Token, error)
	// Find returns the token with the given id, or nil when it is unknown
	// or expired.
	Find(ctx context.Context, id string) (*Token, error)
	// PurgeExpired removes every expired token.
	PurgeExpired(ctx context.Context) error
}
