package service

import (
	"regexp"
	"unicode"
)

var (
	// Korean, latin letters, digits and underscore only.
	nicknameRegexp = regexp.MustCompile(`^[가-힣a-zA-Z0-9_]+$`)
	phoneRegexp    = regexp.MustCompile(`^\+?[0-9][0-9\-\s]{7,18}[0-9]$`)
	emailRegexp    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	nicknameMinLen = 2
	nicknameMaxLen = 20
	bioMaxLen      = 500
)

// ValidateNickname checks length and character set, not uniqueness.
func ValidateNickname(nickname string) error {
	runes := []rune(nickname)
	if len(runes) < nicknameMinLen || len(runes) > nicknameMaxLen {
		return validationError("nickname must be between %d and %d characters", nicknameMinLen, nicknameMaxLen)
	}
	if !nicknameRegexp.MatchString(nickname) {
		return validationError("nickname can only contain Korean, English letters, numbers, and underscores")
	}
	return nil
}

func ValidateBio(bio string) error {
	if len([]rune(bio)) > bioMaxLen {
		return validationError("bio must not exceed %d characters", bioMaxLen)
	}
	return nil
}

func ValidatePhoneNumber(phone string) error {
	if !phoneRegexp.MatchString(phone) {
		return validationError("invalid phone number format")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return validationError("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the identity provider's password policy
// locally so a bad password never reaches the confirm call.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordPolicy
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrPasswordPolicy
	}
	return nil
}
