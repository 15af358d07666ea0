package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	usernamePrefixMax = 15
	suffixLen         = 4
	suffixAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// UsernamePrefix derives a username prefix from the local part of an email:
// stripped to [a-zA-Z0-9_-], truncated to 15 characters, lowercased.
func UsernamePrefix(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	if len(s) > usernamePrefixMax {
		s = s[:usernamePrefixMax]
	}
	if s == "" {
		s = "user"
	}
	return s
}

func randomSuffix() (string, error) {
	b := make([]byte, suffixLen)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b), nil
}
