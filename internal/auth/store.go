package auth

import (
	"context"

	"storefront-web/internal/config"
	"storefront-web/internal/model"
	"storefront-web/internal/storage"
)

// Store keeps the token and the profile of the visitor in local storage. The
// visitor is authenticated exactly when a token is stored.
type Store struct {
	local *storage.Bucket
	keys  config.StorageKeys
}

func NewStore(local *storage.Bucket, keys config.StorageKeys) *Store {
	return &Store{local: local, keys: keys}
}

func (s *Store) Token(ctx context.Context) string {
	return s.local.LoadRaw(ctx, s.keys.Token)
}

func (s *Store) IsLoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *Store) Profile(ctx context.Context) (model.User, bool) {
	var u model.User
	if !s.local.Load(ctx, s.keys.User, &u) {
		return model.User{}, false
	}
	return u, true
}

// UserID resolves the user id from the profile, then from the token payload.
func (s *Store) UserID(ctx context.Context) string {
	if u, ok := s.Profile(ctx); ok && u.UserID() != "" {
		return u.UserID()
	}
	token := s.Token(ctx)
	if token == "" {
		return ""
	}
	id, err := DecodeToken(token)
	if err != nil {
		return ""
	}
	return id
}

func (s *Store) UserName(ctx context.Context) string {
	if u, ok := s.Profile(ctx); ok {
		return u.Name
	}
	return ""
}

// SetAuth stores the token and, when given, the profile.
func (s *Store) SetAuth(ctx context.Context, token string, user *model.User) error {
	if err := s.local.SaveRaw(ctx, s.keys.Token, token); err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return s.SetProfile(ctx, *user)
}

func (s *Store) SetProfile(ctx context.Context, user model.User) error {
	return s.local.Save(ctx, s.keys.User, user)
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.local.Delete(ctx, s.keys.Token); err != nil {
		return err
	}
	return s.local.Delete(ctx, s.keys.User)
}
