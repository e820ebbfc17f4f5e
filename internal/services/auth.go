package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/requestdata"
)

// AuthService verifies access tokens minted by the external identity
// provider and resolves them to a local profile row. Credential handling
// (passwords, refresh, revocation) lives entirely with the provider.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type tokenClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	log         *logger.Logger
	userService UserService
	secret      []byte
	issuer      string
}

func NewAuthService(log *logger.Logger, userService UserService) (AuthService, error) {
	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("missing env var AUTH_JWT_SECRET")
	}
	return &authService{
		log:         log.With("service", "AuthService"),
		userService: userService,
		secret:      []byte(secret),
		issuer:      strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
	}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &tokenClaims{}
	parseOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if s.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, parseOpts...)
	if err != nil {
		return ctx, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return ctx, fmt.Errorf("invalid token")
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid token subject: %w", err)
	}

	user, err := s.userService.EnsureUser(ctx, IdentityClaims{
		Subject:   subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
	})
	if err != nil {
		return ctx, fmt.Errorf("resolve user: %w", err)
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}
