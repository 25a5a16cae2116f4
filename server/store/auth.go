package store

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidNickname    = errors.New("invalid nickname")
	ErrWeakPassword       = errors.New("weak password")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyAccepted    = errors.New("question already has an accepted opinion")
)

const (
	minPasswordLength = 8
	maxNicknameLength = 32
	maxTitleLength    = 80
)

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func verifyPassword(passwordHash string, password string) bool {
	if passwordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	return addr.Address == trimmed
}

func validatePassword(password string) bool {
	if password == "" {
		return false
	}
	if strings.TrimSpace(password) != password {
		return false
	}
	if len(password) < minPasswordLength {
		return false
	}
	containsLetter := false
	containsDigit := false
	for _, r := range password {
		if unicode.IsLetter(r) {
			containsLetter = true
		} else if unicode.IsDigit(r) {
			containsDigit = true
		}
	}
	return containsLetter && containsDigit
}

func validateNickname(nickname string) bool {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return false
	}
	if utf8.RuneCountInString(trimmed) > maxNicknameLength {
		return false
	}
	return slugify(trimmed) != ""
}

// validateRegistration normalizes and checks register input in the order the
// handlers report errors.
func validateRegistration(account, password, nickname string) (string, string, string, error) {
	normalizedAccount := normalizeEmail(account)
	trimmedPassword := strings.TrimSpace(password)
	trimmedNickname := strings.TrimSpace(nickname)
	if normalizedAccount == "" || trimmedPassword == "" || trimmedNickname == "" {
		return "", "", "", ErrInvalidInput
	}
	if !validateEmail(normalizedAccount) {
		return "", "", "", ErrInvalidEmail
	}
	if !validatePassword(trimmedPassword) {
		return "", "", "", ErrWeakPassword
	}
	if !validateNickname(trimmedNickname) {
		return "", "", "", ErrInvalidNickname
	}
	return normalizedAccount, trimmedPassword, trimmedNickname, nil
}

// slugify turns a nickname into a profile username: lower-case ASCII letters
// and digits separated by single dashes.
func slugify(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

func normalizeProfileUpdate(update ProfileUpdate) (ProfileUpdate, error) {
	update.Nickname = strings.TrimSpace(update.Nickname)
	update.Title = strings.TrimSpace(update.Title)
	if update.Nickname != "" && !validateNickname(update.Nickname) {
		return ProfileUpdate{}, ErrInvalidNickname
	}
	if utf8.RuneCountInString(update.Title) > maxTitleLength {
		return ProfileUpdate{}, ErrInvalidInput
	}
	return update, nil
}

func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "t_" + hex.EncodeToString(b[:]), nil
}
