package store

import "strings"

// matchQuery reports whether any field contains the lower-cased query.
func matchQuery(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// SearchQuestions matches title, body and keywords, newest first.
func (s *Store) SearchQuestions(query string, offset, limit int) ([]Question, int) {
	query = normalizeQuery(query)
	if query == "" {
		return []Question{}, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Question, 0)
	for i := len(s.questions) - 1; i >= 0; i-- {
		q := s.questions[i]
		if matchQuery(query, append([]string{q.Title, q.Body}, q.Keywords...)...) {
			matched = append(matched, q)
		}
	}
	start, end := pageBounds(len(matched), offset, limit)
	return matched[start:end], len(matched)
}

// SearchUsers matches username, nickname and professional title in
// registration order.
func (s *Store) SearchUsers(query string, offset, limit int) ([]User, int) {
	query = normalizeQuery(query)
	if query == "" {
		return []User{}, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]User, 0)
	for _, userID := range s.userOrder {
		u := s.users[userID]
		if matchQuery(query, u.Username, u.Nickname, u.Title) {
			matched = append(matched, u)
		}
	}
	start, end := pageBounds(len(matched), offset, limit)
	return matched[start:end], len(matched)
}

// XPEvents lists a user's ledger newest first.
func (s *Store) XPEvents(userID string, offset, limit int) ([]XPEvent, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, 0, ErrNotFound
	}
	events := s.events[userID]
	reversed := make([]XPEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		reversed = append(reversed, events[i])
	}
	start, end := pageBounds(len(reversed), offset, limit)
	return reversed[start:end], len(reversed), nil
}
