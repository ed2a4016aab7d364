package services

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordScore is the minimum strength score accepted for new passwords
const MinPasswordScore = 3

// PasswordScore scores a password 0-4: one point per satisfied character
// class among lowercase, uppercase, digit and symbol, minus one (floored at
// zero) when the password is shorter than 8 characters.
func PasswordScore(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	score := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			score++
		}
	}
	// Length means characters, not bytes
	if utf8.RuneCountInString(password) < 8 {
		score--
		if score < 0 {
			score = 0
		}
	}
	return score
}

// HashPassword hashes a password with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
