package auth

import (
	"context"

	"storefront-web/internal/api"
	"storefront-web/internal/logger"
	"storefront-web/internal/model"

	"go.uber.org/zap"
)

type Gateway interface {
	Login(ctx context.Context, email, password string) api.AuthResult
	Register(ctx context.Context, name, email, password string) api.AuthResult
	ProfileByID(ctx context.Context, userID string) api.ProfileResult
}

// Reconciler adopts the guest orders placed with email into the account.
type Reconciler interface {
	Reconcile(ctx context.Context, email string) (int, error)
}

type Service struct {
	gateway    Gateway
	store      *Store
	reconciler Reconciler
}

func NewService(gateway Gateway, store *Store, reconciler Reconciler) *Service {
	return &Service{gateway: gateway, store: store, reconciler: reconciler}
}

func (s *Service) Store() *Store { return s.store }

// Login authenticates against the remote API and reports how many guest
// orders were adopted by the account.
func (s *Service) Login(ctx context.Context, email, password string) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Auth.Login"),
	)

	res := s.gateway.Login(ctx, email, password)
	if err := res.Err(); err != nil {
		log.Info("login rejected", zap.String("message", res.Message))
		return 0, err
	}

	profile := model.User{Email: email}
	userID, err := DecodeToken(res.Token)
	if err != nil {
		log.Warn("cannot read user id from token, continuing with partial profile", zap.Error(err))
	} else {
		profile.ID = userID
	}

	if err := s.store.SetAuth(ctx, res.Token, &profile); err != nil {
		log.Error("failed to persist session", zap.Error(err))
		return 0, err
	}

	if profile.ID != "" {
		pr := s.gateway.ProfileByID(ctx, profile.ID)
		switch {
		case pr.Success && pr.User != nil:
			if err := s.store.SetProfile(ctx, *pr.User); err != nil {
				log.Warn("failed to persist full profile", zap.Error(err))
			}
		default:
			log.Warn("profile fetch failed, keeping partial profile", zap.String("message", pr.Message))
		}
	}

	log.Info("user logged in", zap.String("user_id", profile.ID))

	if s.reconciler == nil {
		return 0, nil
	}
	n, err := s.reconciler.Reconcile(ctx, email)
	if err != nil {
		log.Warn("guest order reconciliation failed", zap.Error(err))
		return 0, nil
	}
	if n > 0 {
		log.Info("guest orders linked", zap.String("user_id", profile.ID), zap.Int("orders_linked", n))
	}
	return n, nil
}

// Register creates the account remotely. Only the name and email are kept as
// the profile.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Auth.Register"),
	)

	res := s.gateway.Register(ctx, name, email, password)
	if err := res.Err(); err != nil {
		log.Info("registration rejected", zap.String("message", res.Message))
		return err
	}

	if err := s.store.SetAuth(ctx, res.Token, &model.User{Name: name, Email: email}); err != nil {
		log.Error("failed to persist session", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}
