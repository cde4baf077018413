package normalize

import (
	"errors"
	"testing"

	"github.com/dalemusser/ecopirates/internal/domain/errs"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
		{"lowercase name", "lowercase name"},
		{"Barbe  <b>Verte</b>", "Barbe Verte"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFaction(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Corsaires", "Corsaires"},
		{"  krakens ", "Krakens"},
		{"CORSAIRES", "Corsaires"},
		{"Pirates", "Pirates"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Faction(tt.input)
			if got != tt.want {
				t.Errorf("Faction(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestObjectID(t *testing.T) {
	id, err := ObjectID("user_id", "  507f1f77bcf86cd799439011 ")
	if err != nil {
		t.Fatalf("ObjectID failed: %v", err)
	}
	if id.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("ObjectID = %s", id.Hex())
	}

	for _, bad := range []string{"", "nope", "507f1f77bcf86cd79943901"} {
		if _, err := ObjectID("user_id", bad); !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("ObjectID(%q): expected ErrInvalidInput, got %v", bad, err)
		}
	}
}
