package validation

import (
	"strings"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
		{"Digits And Special Only", "1234567890!@", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Max Length", strings.Repeat("a", 30), false},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Too Short", "tu", true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Too Long", strings.Repeat("a", 250) + "@example.com", true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type sampleInput struct {
	Title   string `json:"title" validate:"required,max=10"`
	Name    string `json:"name" validate:"omitempty,username"`
	Website string `json:"website" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Struct(sampleInput{Title: "ok", Name: "good_name"}))

	err := Struct(sampleInput{})
	assert.True(t, models.HasCode(err, models.CodeValidation))
	assert.EqualError(t, err, "title is required")

	err = Struct(sampleInput{Title: strings.Repeat("x", 11)})
	assert.EqualError(t, err, "title must be at most 10 characters")

	err = Struct(sampleInput{Title: "ok", Name: "-bad"})
	assert.EqualError(t, err, "name must be 3-30 letters, digits, underscores or hyphens")

	err = Struct(sampleInput{Title: "ok", Website: "not a url"})
	assert.EqualError(t, err, "website must be a valid URL")
}
