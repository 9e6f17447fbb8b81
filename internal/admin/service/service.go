package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"gymaccess/internal/admin"
	"gymaccess/internal/apperror"
	"gymaccess/pkg/hash"
	"gymaccess/pkg/jwt"
)

type AdminRepository interface {
	Create(ctx context.Context, a *admin.Admin) error
	GetByEmail(ctx context.Context, email string) (*admin.Admin, error)
	GetByID(ctx context.Context, id int64) (*admin.Admin, error)
}

type LoginResult struct {
	Admin     *admin.Admin `json:"admin"`
	Token     string       `json:"token"`
	ExpiresIn string       `json:"expires_in"`
}

type AdminService struct {
	repo   AdminRepository
	secret string
	ttl    time.Duration
}

func NewAdminService(repo AdminRepository, secret string, ttl time.Duration) *AdminService {
	return &AdminService{repo: repo, secret: secret, ttl: ttl}
}

// Register stores a new admin with a bcrypt-hashed password.
func (s *AdminService) Register(ctx context.Context, name, email, password string) (*admin.Admin, error) {
	const op = "admin.register"

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Persistence(op, "registration failed", err)
	}
	if existing != nil {
		return nil, apperror.BusinessRule(op, "email-taken", "an admin with this email already exists")
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, apperror.Persistence(op, "registration failed", err)
	}
	a := &admin.Admin{Name: name, Email: email, Password: hashed}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, apperror.Persistence(op, "registration failed", err)
	}
	log.Info().Int64("admin_id", a.ID).Str("email", a.Email).Msg("admin registered")
	return a, nil
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "admin.login"

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin")
		return nil, apperror.Persistence(op, "login failed", err)
	}
	if a == nil || !hash.CheckPassword(a.Password, password) {
		return nil, apperror.Unauthorized(op, "invalid credentials")
	}

	token, err := jwt.GenerateToken(s.secret, a.ID, a.Email, a.Name, s.ttl)
	if err != nil {
		log.Error().Err(err).Int64("admin_id", a.ID).Msg("failed to sign token")
		return nil, apperror.Persistence(op, "login failed", err)
	}
	return &LoginResult{Admin: a, Token: token, ExpiresIn: s.ttl.String()}, nil
}

// Authenticate verifies token and that its admin still exists.
func (s *AdminService) Authenticate(ctx context.Context, token string) (*admin.Admin, error) {
	const op = "admin.authenticate"

	claims, err := jwt.ParseToken(s.secret, token)
	if err != nil {
		return nil, apperror.Unauthorized(op, "invalid or expired token")
	}
	a, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		log.Error().Err(err).Int64("admin_id", claims.AdminID).Msg("failed to load admin")
		return nil, apperror.Persistence(op, "authentication failed", err)
	}
	if a == nil {
		return nil, apperror.Unauthorized(op, "admin not found")
	}
	return a, nil
}
