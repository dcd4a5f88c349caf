package service

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts up to 72 bytes.
	maxPasswordBytes = 72
)

var (
	specialChar     = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
	sixDigitPattern = regexp.MustCompile(`^\d{6}$`)
)

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return my_errors.ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return my_errors.ErrPasswordTooLong
	}
	if !specialChar.MatchString(password) {
		return my_errors.ErrPasswordNoSpecial
	}
	return nil
}

// bcryptCost is a variable so tests can use bcrypt.MinCost.
var bcryptCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
