package validation

import (
	"errors"
	"testing"

	"github.com/99minutos/ims-console/internal/core/domain"
)

func TestMeetsPasswordPolicy(t *testing.T) {
	cases := map[string]bool{
		"Secret1!":      true,
		"Abcdefg#9":     true,
		"short1!":       false,
		"nouppercase1!": false,
		"NoDigits!!":    false,
		"NoSymbol12":    false,
		"Has Space1!":   false,
		"Bad^Char1!":    false,
		"Ünicode1!":     false,
	}
	for pw, want := range cases {
		if got := MeetsPasswordPolicy(pw); got != want {
			t.Errorf("MeetsPasswordPolicy(%q) = %v, want %v", pw, got, want)
		}
	}
}

type signup struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"password_policy"`
}

func TestStruct_MessagesUseJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "weak"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := "username is required; email must be a valid email; " +
		"password must be at least 8 characters, contain a number, uppercase letter, and symbol"
	if err.Error() != want {
		t.Errorf("got %q\nwant %q", err.Error(), want)
	}

	if err := Struct(signup{Username: "ana", Email: "ana@x.io", Password: "Secret1!"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
