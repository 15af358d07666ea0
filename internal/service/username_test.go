package service

import (
	"regexp"
	"testing"
)

func TestUsernamePrefix(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"plain", "alice@example.com", "alice"},
		{"mixed case", "Alice.Smith@example.com", "alicesmith"},
		{"keeps underscore and dash", "a_b-c@example.com", "a_b-c"},
		{"strips symbols", "a+b!c@example.com", "abc"},
		{"truncates to 15", "averyverylongemaillocalpart@example.com", "averyverylongem"},
		{"no at sign", "plainstring", "plainstring"},
		{"all symbols falls back", "+++@example.com", "user"},
		{"empty local part", "@example.com", "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UsernamePrefix(tt.email); got != tt.want {
				t.Errorf("UsernamePrefix(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestRandomSuffix(t *testing.T) {
	s1, err := randomSuffix()
	if err != nil {
		t.Fatalf("randomSuffix() error = %v", err)
	}
	if len(s1) != suffixLen {
		t.Errorf("randomSuffix() length = %d, want %d", len(s1), suffixLen)
	}
}

func TestGenerateUniqueUsername_Shape(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	re := regexp.MustCompile(`^[a-z0-9_-]+_[A-Za-z0-9_-]{4}$`)
	for _, email := range []string{"alice@example.com", "Bob.Jones+tag@example.com", "averyverylongemaillocalpart@x.io"} {
		username, err := svc.GenerateUniqueUsername(email)
		if err != nil {
			t.Fatalf("GenerateUniqueUsername(%q) error = %v", email, err)
		}
		if !re.MatchString(username) {
			t.Errorf("GenerateUniqueUsername(%q) = %q, does not match %v", email, username, re)
		}
		// prefix(<=15) + "_" + suffix(4)
		if len(username) > 15+1+suffixLen {
			t.Errorf("GenerateUniqueUsername(%q) = %q, longer than %d", email, username, 15+1+suffixLen)
		}
	}
}

func TestGenerateUniqueUsername_AvoidsCollision(t *testing.T) {
	gdb := testDB(t)
	svc := NewUserService(gdb, testConfig(), nil)

	taken := map[string]bool{}
	for i := 0; i < 20; i++ {
		username, err := svc.GenerateUniqueUsername("alice@example.com")
		if err != nil {
			t.Fatalf("GenerateUniqueUsername() error = %v", err)
		}
		if taken[username] {
			t.Fatalf("GenerateUniqueUsername() repeated %q", username)
		}
		taken[username] = true
		seedUser(t, gdb, username, username+"@example.com")
	}
}
