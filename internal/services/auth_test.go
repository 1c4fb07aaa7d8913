package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/mindmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	t.Parallel()
	as := NewAuthService(logger.Nop(), AuthConfig{SecretKey: "secret", Issuer: "mindmap"})
	user := uuid.New()

	token, err := as.IssueToken(user, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	ctx, err := as.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.UserID(ctx); got != user {
		t.Fatalf("user: got=%s want=%s", got, user)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	t.Parallel()
	as := NewAuthService(logger.Nop(), AuthConfig{SecretKey: "secret", Issuer: "mindmap"})
	other := NewAuthService(logger.Nop(), AuthConfig{SecretKey: "other", Issuer: "mindmap"})
	foreign, _ := other.IssueToken(uuid.New(), time.Minute)
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "mindmap",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}).SignedString([]byte("secret"))
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "not-a-uuid",
		Issuer:  "mindmap",
	}}).SignedString([]byte("secret"))

	for name, tok := range map[string]string{
		"garbage":     "abc.def.ghi",
		"wrong key":   foreign,
		"expired":     expired,
		"bad subject": badSubject,
	} {
		if _, err := as.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAuthServiceDisabled(t *testing.T) {
	t.Parallel()
	as := NewAuthService(logger.Nop(), AuthConfig{Disabled: true})
	ctx, err := as.SetContextFromToken(context.Background(), "")
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if ctxutil.UserID(ctx) == uuid.Nil {
		t.Fatalf("disabled auth should attach the dev user")
	}

	strict := NewAuthService(logger.Nop(), AuthConfig{SecretKey: "s"})
	ctx, err = strict.SetContextFromToken(context.Background(), "")
	if err != nil || ctxutil.GetRequestData(ctx) != nil {
		t.Fatalf("empty token without auth disabled: rd=%v err=%v", ctxutil.GetRequestData(ctx), err)
	}
}
