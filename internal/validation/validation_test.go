package validation

import (
	"strings"
	"testing"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"plain username", "admin1", true},
		{"with dot", "emil.aliyev", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"contains separator", "admin|user", false},
		{"too long", strings.Repeat("a", 65), false},
		{"at limit", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidUsername(tt.username); got != tt.want {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	if !IsValidPassword("secret") {
		t.Errorf("non-empty password rejected")
	}
	if IsValidPassword("") {
		t.Errorf("empty password accepted")
	}
}
