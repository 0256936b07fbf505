package authpw

import (
	"context"
	"database/sql"
	"testing"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"
)

type fakeUserStore struct {
	users map[string]store.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]store.User)}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	user, ok := f.users[email]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user store.User) error {
	f.users[user.Email] = user
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := NewService(newFakeUserStore())
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "Homeowner@Example.com", "longenough", "Robert")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if user.Email != "homeowner@example.com" {
		t.Errorf("email not normalised: %q", user.Email)
	}
	if user.PasswordHash == "longenough" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	signedIn, err := svc.SignIn(ctx, "homeowner@example.com", "longenough")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if signedIn.ID != user.ID {
		t.Errorf("SignIn returned wrong user: %q", signedIn.ID)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := NewService(newFakeUserStore())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "longenough", ""); err == nil {
		t.Error("expected invalid email to be rejected")
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short", ""); err == nil {
		t.Error("expected short password to be rejected")
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "longenough", ""); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "longenough", ""); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestSignInFailuresAreUniform(t *testing.T) {
	svc := NewService(newFakeUserStore())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "longenough", ""); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := svc.SignIn(ctx, "a@b.com", "wrongpassword"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignIn(ctx, "missing@b.com", "longenough"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}
