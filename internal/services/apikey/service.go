// Package apikey issues and verifies the opaque API keys that gate every
// gateway operation.
package apikey

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// KeyLifetime is how long after issuance a key is marked to expire. The
// expiration date is stored on the record but verification does not
// check it; see Verify.
const KeyLifetime = 90 * 24 * time.Hour

// ErrKeyNotFound is returned when no record matches an API key.
var ErrKeyNotFound = errors.New("api key not found")

// Service handles API key operations
type Service struct {
	store store.KeyValueStore
	table string
}

// NewService creates a new API key service over the given key table.
func NewService(kv store.KeyValueStore, table string) *Service {
	return &Service{
		store: kv,
		table: table,
	}
}

// Issue creates an API key for the user and returns the token. If the
// user already holds a key, the existing-key message is returned instead
// of a new token. The existence pre-check and the write are separate
// scans, so concurrent issuance for the same user can race; there is no
// uniqueness constraint backing the one-key-per-user rule.
func (s *Service) Issue(userID int) (string, error) {
	exists, err := s.hasKeyForUser(userID)
	if err != nil {
		return "", fmt.Errorf("failed to check existing API key: %w", err)
	}
	if exists {
		return fmt.Sprintf("You have an existing key for user id %d", userID), nil
	}

	token := uuid.NewString()
	created := s.store.Now()
	expiration, err := expirationFor(created)
	if err != nil {
		return "", err
	}

	id, err := s.store.NextID(s.table)
	if err != nil {
		return "", fmt.Errorf("failed to assign key id: %w", err)
	}

	record := &models.APIKeyRecord{
		ID:             id,
		UserID:         userID,
		APIKey:         token,
		DateCreated:    created,
		ExpirationDate: expiration,
		IsActive:       true,
	}

	if err := s.store.Put(s.table, record.Item(), store.IfNotExists); err != nil {
		return "", fmt.Errorf("failed to write API key: %w", err)
	}

	logrus.WithField("user_id", userID).Info("New API key issued")
	return token, nil
}

// Verify reports whether the token matches any stored key. Only token
// equality is checked: expired or inactive keys still verify. That
// matches the deployed behavior; enforcing expiration here would lock
// out every key older than 90 days.
func (s *Service) Verify(token string) (bool, error) {
	items, err := s.store.Scan(s.table)
	if err != nil {
		return false, fmt.Errorf("failed to scan key table: %w", err)
	}
	for _, item := range items {
		if item["api_key"].S == token {
			return true, nil
		}
	}
	return false, nil
}

// UserIDFromKey resolves the user id that owns the token, or
// ErrKeyNotFound.
func (s *Service) UserIDFromKey(token string) (int, error) {
	items, err := s.store.FilteredScan(s.table, "api_key", store.String(token))
	if err != nil {
		return 0, fmt.Errorf("failed to scan key table: %w", err)
	}
	if len(items) == 0 {
		return 0, ErrKeyNotFound
	}
	userID, err := items[0]["user_id"].Int()
	if err != nil {
		return 0, fmt.Errorf("invalid user_id attribute: %w", err)
	}
	return userID, nil
}

func (s *Service) hasKeyForUser(userID int) (bool, error) {
	items, err := s.store.Scan(s.table)
	if err != nil {
		return false, err
	}
	want := store.Number(userID)
	for _, item := range items {
		if v, ok := item["user_id"]; ok && v.Equal(want) {
			return true, nil
		}
	}
	return false, nil
}

func expirationFor(created string) (string, error) {
	t, err := time.Parse(store.TimeFormat, created)
	if err != nil {
		return "", fmt.Errorf("invalid creation timestamp: %w", err)
	}
	return t.Add(KeyLifetime).Format(store.TimeFormat), nil
}
