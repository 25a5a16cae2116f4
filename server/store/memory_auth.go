package store

import (
	"fmt"
	"strings"
)

func (s *Store) Register(account, password, nickname string, admin bool) (User, error) {
	normalizedAccount, trimmedPassword, trimmedNickname, err := validateRegistration(account, password, nickname)
	if err != nil {
		return User{}, err
	}

	passwordHash, err := hashPassword(trimmedPassword)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[normalizedAccount]; ok {
		return User{}, ErrAccountExists
	}

	s.nextUserID++
	user := User{
		ID:        fmt.Sprintf("u_%d", s.nextUserID),
		Username:  s.uniqueUsername(slugify(trimmedNickname)),
		Nickname:  trimmedNickname,
		IsAdmin:   admin,
		CreatedAt: s.nowString(),
	}
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)
	s.usernames[user.Username] = user.ID
	s.accounts[normalizedAccount] = user.ID
	s.passwords[normalizedAccount] = passwordHash
	return user, nil
}

func (s *Store) uniqueUsername(base string) string {
	candidate := base
	for i := 2; ; i++ {
		if _, taken := s.usernames[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Store) Login(account, password string) (string, User, error) {
	normalizedAccount := normalizeEmail(account)
	trimmedPassword := strings.TrimSpace(password)
	if normalizedAccount == "" || trimmedPassword == "" {
		return "", User{}, ErrInvalidInput
	}

	s.mu.Lock()
	userID, ok := s.accounts[normalizedAccount]
	if !ok {
		s.mu.Unlock()
		return "", User{}, ErrInvalidCredentials
	}
	passwordHash := s.passwords[normalizedAccount]
	s.mu.Unlock()

	if !verifyPassword(passwordHash, trimmedPassword) {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old := s.userTokens[userID]; old != "" {
		delete(s.tokens, old)
	}
	s.tokens[token] = userID
	s.userTokens[userID] = token

	return token, s.users[userID], nil
}

func (s *Store) UserByToken(token string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.tokens[token]
	if !ok {
		return User{}, false
	}
	user, ok := s.users[userID]
	return user, ok
}
