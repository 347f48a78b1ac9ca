package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hornhub/hornhub-service/internal/kvstore"
	"github.com/hornhub/hornhub-service/internal/profiles"
	"github.com/hornhub/hornhub-service/internal/types"
)

// SessionKey is the single persisted key holding the serialized copy
// of the authenticated profile. It is also the key the profile-picture
// update writes through, so the avatar a reader sees can never go
// stale against a second record.
const SessionKey = "hornhub:session"

// Store manages the current authenticated profile. The persisted
// session is a serialized copy of the directory profile, not a live
// reference; directory edits after login do not propagate into it.
type Store struct {
	kv  kvstore.Store
	dir *profiles.Directory
}

func NewStore(kv kvstore.Store, dir *profiles.Directory) *Store {
	return &Store{kv: kv, dir: dir}
}

// Login resolves the access code against the directory. On a hit the
// profile is persisted as the current session and returned; on a miss
// it returns nil and leaves any prior session untouched.
func (s *Store) Login(ctx context.Context, code string) (*types.Profile, error) {
	profile, ok := s.dir.Authenticate(code)
	if !ok {
		return nil, nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("session: marshal profile: %w", err)
	}
	if err := s.kv.Set(ctx, SessionKey, data); err != nil {
		return nil, fmt.Errorf("session: persist login: %w", err)
	}

	return &profile, nil
}

// Logout clears the persisted session unconditionally. Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Remove(ctx, SessionKey); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// CurrentUser returns the persisted profile, or nil when the session
// is absent or its stored content does not parse. Corrupted state is
// treated as logged out rather than surfaced.
func (s *Store) CurrentUser(ctx context.Context) *types.Profile {
	data, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Debug("session read failed, treating as unauthenticated", slog.String("error", err.Error()))
		}
		return nil
	}

	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil || profile.ID == "" {
		slog.Debug("session payload unparseable, treating as unauthenticated")
		return nil
	}

	return &profile
}

// IsAuthenticated reports whether a valid session exists.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.CurrentUser(ctx) != nil
}

// SetProfilePicture rewrites the avatar reference of the active
// session in place. This is the single write path for the current
// picture; there is no second user record to drift from.
func (s *Store) SetProfilePicture(ctx context.Context, url string) error {
	err := s.kv.Update(ctx, SessionKey, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, errors.New("no active session")
		}

		var profile types.Profile
		if err := json.Unmarshal(current, &profile); err != nil || profile.ID == "" {
			return nil, errors.New("session payload unparseable")
		}

		profile.ProfilePicture = url
		return json.Marshal(profile)
	})
	if err != nil {
		return fmt.Errorf("session: set profile picture: %w", err)
	}
	return nil
}
