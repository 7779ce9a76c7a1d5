package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password", "Sup3rSecret", true},
		{"too short", "Ab1", false},
		{"too long", strings.Repeat("Aa1", 43), false},
		{"no uppercase", "sup3rsecret", false},
		{"no lowercase", "SUP3RSECRET", false},
		{"no digit", "SuperSecret", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"valid username", "alice_99", true},
		{"valid with hyphen", "bob-the-builder", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 31), false},
		{"contains space", "ali ce", false},
		{"contains symbol", "alice!", false},
		{"leading underscore", "_alice", false},
		{"trailing hyphen", "alice-", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid email", "alice@example.com", true},
		{"subdomain", "alice@mail.example.co.uk", true},
		{"missing at", "alice.example.com", false},
		{"missing domain", "alice@", false},
		{"missing tld", "alice@example", false},
		{"too long", strings.Repeat("a", 250) + "@x.com", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
