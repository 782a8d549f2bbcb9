package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNickname(t *testing.T) {
	valid := []string{"ab", "tester", "한글닉네임", "mixed_한글123", strings.Repeat("a", 20)}
	for _, nickname := range valid {
		assert.NoError(t, ValidateNickname(nickname), nickname)
	}

	invalid := []string{
		"",
		"a",
		strings.Repeat("a", 21),
		"has space",
		"has-dash",
		"email@style",
		"emoji😀",
	}
	for _, nickname := range invalid {
		err := ValidateNickname(nickname)
		assert.Error(t, err, nickname)
		assert.Equal(t, KindValidation, Kind(err), nickname)
	}
}

func TestValidateBio(t *testing.T) {
	assert.NoError(t, ValidateBio(""))
	assert.NoError(t, ValidateBio(strings.Repeat("x", 500)))
	// Rune count, not byte count.
	assert.NoError(t, ValidateBio(strings.Repeat("한", 500)))
	assert.Error(t, ValidateBio(strings.Repeat("x", 501)))
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"+82 10-1234-5678", "01012345678", "02-123-4567"}
	for _, phone := range valid {
		assert.NoError(t, ValidatePhoneNumber(phone), phone)
	}

	invalid := []string{"", "abc", "123-abc-456", "1;DROP TABLE"}
	for _, phone := range invalid {
		assert.Error(t, ValidatePhoneNumber(phone), phone)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co"))

	invalid := []string{"", "plain", "@example.com", "user@", "user@@example.com", "user @example.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Abcdef1!"))
	assert.NoError(t, ValidatePassword("Str0ng#Password"))

	invalid := []string{
		"Ab1!xyz",     // too short
		"abcdefg1!",   // no upper
		"ABCDEFG1!",   // no lower
		"Abcdefgh!",   // no digit
		"Abcdefgh1",   // no special
	}
	for _, password := range invalid {
		err := ValidatePassword(password)
		assert.ErrorIs(t, err, ErrPasswordPolicy, password)
	}
}
