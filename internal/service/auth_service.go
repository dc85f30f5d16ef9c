package service

import (
	"context"
	"errors"
	"time"

	"sistemapos/internal/config"
	"sistemapos/internal/dto"
	"sistemapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredencialesInvalidas is deliberately identical for unknown users and
// wrong passwords.
var ErrCredencialesInvalidas = errors.New("correo o password incorrectos")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.repo.FindByCorreo(ctx, req.Correo)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredencialesInvalidas
	}

	expira := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"correo":  u.Correo,
		"rol":     u.Rol,
		"exp":     time.Now().Add(expira).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(expira.Seconds()),
		Rol:         u.Rol,
	}, nil
}
