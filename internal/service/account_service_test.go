package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	db := openTestDB(t)
	users := repository.NewUserRepository(db)
	tokens := auth.NewTokenService("test-signing-key", time.Hour)
	return NewAccountService(users, tokens, bcrypt.MinCost, zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &domain.SignupRequest{Email: "Owner@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if signup.UserID == "" || signup.Token == "" {
		t.Fatalf("incomplete response: %+v", signup)
	}
	if signup.Email != "owner@example.com" {
		t.Fatalf("email not normalized: %q", signup.Email)
	}

	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "owner@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.UserID != signup.UserID {
		t.Fatalf("login user %q, signup user %q", login.UserID, signup.UserID)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &domain.SignupRequest{Email: "owner@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	// Case differences don't make a new account.
	_, err := svc.Signup(ctx, &domain.SignupRequest{Email: "OWNER@example.com", Password: "other"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestSignup_RejectsEmptyFields(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	for _, req := range []*domain.SignupRequest{
		{Email: "", Password: "hunter22"},
		{Email: "owner@example.com", Password: ""},
		{Email: "   ", Password: "hunter22"},
	} {
		if _, err := svc.Signup(ctx, req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("%+v: got %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAccountService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &domain.SignupRequest{Email: "owner@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Login(ctx, &domain.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("got %v, want ErrInvalidCredential", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAccountService(t)

	// Unknown account and wrong password are indistinguishable.
	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("got %v, want ErrInvalidCredential", err)
	}
}
