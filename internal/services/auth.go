package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/mindmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

var ErrAuthNotConfigured = errors.New("auth: JWT secret not configured")

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthConfig struct {
	SecretKey string
	Issuer    string
	// Disabled accepts requests without a token as DevUserID. Local use only.
	Disabled  bool
	DevUserID uuid.UUID
}

type authService struct {
	log       *logger.Logger
	secret    []byte
	issuer    string
	disabled  bool
	devUserID uuid.UUID
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.Disabled {
		if cfg.DevUserID == uuid.Nil {
			cfg.DevUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
		}
		serviceLog.Warn("Authentication disabled; unauthenticated requests act as dev user", "user_id", cfg.DevUserID.String())
	}
	return &authService{
		log:       serviceLog,
		secret:    []byte(cfg.SecretKey),
		issuer:    strings.TrimSpace(cfg.Issuer),
		disabled:  cfg.Disabled,
		devUserID: cfg.DevUserID,
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		if as.disabled {
			return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: as.devUserID}), nil
		}
		return ctx, nil
	}
	if len(as.secret) == 0 {
		return ctx, ErrAuthNotConfigured
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if as.issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.issuer))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.secret, nil
	}, opts...)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, errors.New("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

// IssueToken signs an HS256 access token for userID. The API only verifies tokens;
// issuing exists for the CLI and tests.
func (as *authService) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	if len(as.secret) == 0 {
		return "", ErrAuthNotConfigured
	}
	if userID == uuid.Nil {
		return "", errors.New("auth: user id required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now()
	claims := JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    as.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
}
