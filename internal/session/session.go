// Package session keeps the per-visitor login state: the backend bearer token
// and the "logged in" flag. Values are stored as strings in a durable
// key-value backend, keyed by an opaque session id.
package session

import (
	"context"
	"fmt"
)

const (
	KeyAuthToken = "authToken"
	KeyLoggedIn  = "isLoggedIn"
)

// KV is a durable string store partitioned by session id. A Set must be
// visible to every subsequent Get.
type KV interface {
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, sessionID, key, value string) error
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// GetToken returns the stored bearer token. ok is false when none was stored.
func (s *Store) GetToken(ctx context.Context, sessionID string) (string, bool, error) {
	token, ok, err := s.kv.Get(ctx, sessionID, KeyAuthToken)
	if err != nil {
		return "", false, fmt.Errorf("get token: %w", err)
	}
	return token, ok, nil
}

// IsAdmin reports whether the logged-in flag holds exactly "true". It only
// gates which controls are shown; the backend decides what the token may do.
func (s *Store) IsAdmin(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	flag, _, err := s.kv.Get(ctx, sessionID, KeyLoggedIn)
	if err != nil {
		return false, fmt.Errorf("get login flag: %w", err)
	}
	return flag == "true", nil
}

func (s *Store) SetSession(ctx context.Context, sessionID, token string) error {
	if err := s.kv.Set(ctx, sessionID, KeyAuthToken, token); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	if err := s.kv.Set(ctx, sessionID, KeyLoggedIn, "true"); err != nil {
		return fmt.Errorf("set login flag: %w", err)
	}
	return nil
}

// ClearSession logs the visitor out by setting the flag to "false". The token
// entry is left in place.
func (s *Store) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.kv.Set(ctx, sessionID, KeyLoggedIn, "false"); err != nil {
		return fmt.Errorf("clear login flag: %w", err)
	}
	return nil
}
