package auth

import (
	"context"
	"errors"

	"vacationrental/db"
)

var (
	ErrDuplicateUsername = errors.New("auth: username already exists")
	ErrUsernameRequired  = errors.New("auth: username is required")
)

// ClientStore is the canonical credential store.
type ClientStore interface {
	CreateClient(ctx context.Context, username, password string) (int64, error)
	ClientExists(ctx context.Context, username string) (bool, error)
	VerifyClient(ctx context.Context, username, password string) (bool, error)
}

// Credentials registers and verifies clear-text username/password records.
type Credentials struct {
	store ClientStore
}

func NewCredentials(store ClientStore) *Credentials {
	return &Credentials{store: store}
}

// Register adds a new client. It returns ErrDuplicateUsername when the exact
// username is already taken, including when a concurrent registration wins
// the race between the lookup and the insert. An empty username yields
// ErrUsernameRequired, since a session cannot carry it.
func (c *Credentials) Register(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrUsernameRequired
	}

	exists, err := c.store.ClientExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUsername
	}

	if _, err := c.store.CreateClient(ctx, username, password); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (c *Credentials) Verify(ctx context.Context, username, password string) (bool, error) {
	return c.store.VerifyClient(ctx, username, password)
}

// LegacyClient is one record of the old clients.json registration file.
type LegacyClient struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Import copies legacy records into the credential store. Usernames that are
// already registered, and records without a username, are skipped and
// counted.
func (c *Credentials) Import(ctx context.Context, records []LegacyClient) (imported, skipped int, err error) {
	for _, rec := range records {
		err := c.Register(ctx, rec.Username, rec.Password)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrUsernameRequired):
			skipped++
		default:
			return imported, skipped, err
		}
	}
	return imported, skipped, nil
}
