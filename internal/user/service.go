package user

import (
	"context"
	"strings"

	"lokapasar-be/internal/auth"
	"lokapasar-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context, limit, page int) ([]*User, error)
	UpdateRole(ctx context.Context, id uint, role string) error
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return nil, ErrInvalidInput
	}
	if len(params.Password) < 8 {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrInvalidInput
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, params, hash)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user registered",
		zap.Uint("user_id", u.ID),
	)

	return u, nil
}

// Login returns the user and a signed session token.
func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		return nil, "", ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(s.jwtSecret, u.ID, u.Role, u.Email, u.StoreID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, limit, page int) ([]*User, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

func (s *service) UpdateRole(ctx context.Context, id uint, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, role)
}
