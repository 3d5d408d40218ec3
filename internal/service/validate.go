package service

import (
	"unicode"

	"github.com/rryowa/bizauth/internal/util"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt не смотрит дальше 72 байт
)

func ValidateEmail(email string) error {
	return util.ValidateVar("email", email, "required,email,max=254")
}

// ValidatePassword проверяет длину и требует хотя бы одну букву и одну цифру.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return badRequest("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return badRequest("password must be at most %d bytes", maxPasswordLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return badRequest("password must contain a letter and a digit")
	}
	return nil
}
