package service

import (
	"context"
	"errors"
	"testing"

	"technestia/internal/models"
)

func TestRegister(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	result, err := svc.Register("alice@example.com", "password123", "Alice")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Username == "" {
		t.Error("Register() generated no username")
	}

	// Same email again is a conflict.
	if _, err := svc.Register("alice@example.com", "password123", "Alice"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() duplicate email = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	if _, err := svc.Register("alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("Login() returned empty tokens")
	}

	if _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown email = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_NoPasswordSet(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	// Accounts from an external identity provider have no password hash.
	seedUser(t, gdb, "oauth_user", "oauth@example.com")
	if _, err := svc.Login("oauth@example.com", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() without password hash = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdateUsername_Conflict(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	alice := seedUser(t, gdb, "alice", "alice@example.com")
	seedUser(t, gdb, "bob", "bob@example.com")

	if err := svc.UpdateUsername(alice.ID, "bob"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("UpdateUsername() taken = %v, want ErrUsernameTaken", err)
	}
	// Renaming to the current name is a no-op, not a conflict.
	if err := svc.UpdateUsername(alice.ID, "alice"); err != nil {
		t.Errorf("UpdateUsername() same name = %v, want nil", err)
	}
}

func TestSearchVerified(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	// 13 verified users with ascending points plus one unverified.
	for i := 0; i < 13; i++ {
		u := &models.User{
			Username:          "verified" + string(rune('a'+i)),
			Email:             "v" + string(rune('a'+i)) + "@example.com",
			IsVerified:        true,
			AchievementPoints: i * 10,
		}
		mustCreate(t, gdb, u)
	}
	mustCreate(t, gdb, &models.User{Username: "unverified", Email: "u@example.com", AchievementPoints: 1000})

	out, err := svc.SearchVerified(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchVerified() error = %v", err)
	}
	if len(out) != searchResultCap {
		t.Fatalf("SearchVerified() returned %d, want %d", len(out), searchResultCap)
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].AchievementPoints < out[i].AchievementPoints {
			t.Fatalf("results not ordered by points desc at %d", i)
		}
	}
	for _, u := range out {
		if u.Username == "unverified" {
			t.Error("SearchVerified() returned an unverified user")
		}
	}
}

func TestSearchVerified_Empty(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	out, err := svc.SearchVerified(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchVerified() error = %v", err)
	}
	if out == nil {
		t.Error("SearchVerified() = nil, want empty slice")
	}
	if len(out) != 0 {
		t.Errorf("SearchVerified() returned %d, want 0", len(out))
	}
}
