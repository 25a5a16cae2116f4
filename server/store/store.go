package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/verdict-com/verdict/server/badge"
)

// Store is the in-memory implementation of API. It is used when no database
// path is configured and in handler tests.
type Store struct {
	mu         sync.Mutex
	users      map[string]User
	userOrder  []string
	usernames  map[string]string
	accounts   map[string]string
	passwords  map[string]string
	tokens     map[string]string
	userTokens map[string]string
	events     map[string][]XPEvent
	badges     []Badge
	userBadges map[string][]UserBadge
	questions  []Question
	opinions   []Opinion

	nextUserID     int
	nextQuestionID int
	nextOpinionID  int

	clock func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      map[string]User{},
		usernames:  map[string]string{},
		accounts:   map[string]string{},
		passwords:  map[string]string{},
		tokens:     map[string]string{},
		userTokens: map[string]string{},
		events:     map[string][]XPEvent{},
		badges:     defaultBadges(),
		userBadges: map[string][]UserBadge{},
		questions:  []Question{},
		opinions:   []Opinion{},
		clock:      time.Now,
	}
}

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

func (s *Store) nowString() string {
	return s.now().Format(time.RFC3339)
}

func (s *Store) GetUser(userID string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	return user, ok
}

func (s *Store) UserByUsername(username string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.usernames[slugify(username)]
	if !ok {
		return User{}, false
	}
	user, ok := s.users[userID]
	return user, ok
}

func (s *Store) UpdateProfile(userID string, update ProfileUpdate) (User, error) {
	update, err := normalizeProfileUpdate(update)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	if update.Nickname != "" {
		user.Nickname = update.Nickname
	}
	if update.Title != "" {
		user.Title = update.Title
	}
	if update.Vertical != "" {
		v, err := badge.ParseVertical(string(update.Vertical))
		if err != nil {
			return User{}, ErrInvalidInput
		}
		user.Vertical = v
	}
	s.users[userID] = user
	return user, nil
}

func (s *Store) SetVerified(userID string, verified bool) (User, error) {
	return s.updateUser(userID, func(u *User) { u.Verified = verified })
}

func (s *Store) updateUser(userID string, apply func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	apply(&user)
	s.users[userID] = user
	return user, nil
}

func (s *Store) AwardXP(userID string, amount int, reason string) (XPAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return XPAward{}, ErrNotFound
	}
	event, err := newXPEvent(userID, amount, reason, s.now())
	if err != nil {
		return XPAward{}, err
	}
	before := 0
	for _, e := range s.events[userID] {
		before += e.Amount
	}
	s.events[userID] = append(s.events[userID], event)
	return awardFor(event, before), nil
}

func (s *Store) XPSummary(userID string, now time.Time) (XPSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return XPSummary{}, ErrNotFound
	}
	return summarize(s.events[userID], now), nil
}

// Leaderboard ranks users by total XP; ties keep registration order.
func (s *Store) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(s.userOrder))
	for _, userID := range s.userOrder {
		total := 0
		for _, e := range s.events[userID] {
			total += e.Amount
		}
		entries = append(entries, LeaderboardEntry{User: s.users[userID], TotalXP: total})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalXP > entries[j].TotalXP
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) Badges() []Badge {
	s.mu.Lock()
	defer s.mu.Unlock()

	badges := make([]Badge, len(s.badges))
	copy(badges, s.badges)
	return badges
}

// AwardBadge is idempotent: awarding an owned badge returns the original award.
func (s *Store) AwardBadge(userID, badgeID string) (UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return UserBadge{}, ErrNotFound
	}
	var found *Badge
	for i := range s.badges {
		if s.badges[i].ID == badgeID {
			found = &s.badges[i]
			break
		}
	}
	if found == nil {
		return UserBadge{}, ErrNotFound
	}
	for _, owned := range s.userBadges[userID] {
		if owned.Badge.ID == badgeID {
			return owned, nil
		}
	}
	award := UserBadge{Badge: *found, UserID: userID, EarnedAt: s.nowString()}
	s.userBadges[userID] = append(s.userBadges[userID], award)
	return award, nil
}

func (s *Store) UserBadges(userID string) []UserBadge {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.userBadges[userID]
	out := make([]UserBadge, len(owned))
	copy(out, owned)
	return out
}

func (s *Store) CreateQuestion(authorID string, vertical badge.Vertical, title, body, category string, keywords []string) (Question, error) {
	in, err := normalizeQuestion(vertical, title, body, category, keywords)
	if err != nil {
		return Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[authorID]; !ok {
		return Question{}, ErrNotFound
	}
	s.nextQuestionID++
	question := Question{
		ID:        fmt.Sprintf("q_%d", s.nextQuestionID),
		Vertical:  in.vertical,
		AuthorID:  authorID,
		Title:     in.title,
		Body:      in.body,
		Category:  in.category,
		Keywords:  in.keywords,
		CreatedAt: s.nowString(),
	}
	s.questions = append(s.questions, question)
	return question, nil
}

// Questions lists newest first. An empty vertical lists every vertical.
func (s *Store) Questions(vertical badge.Vertical, offset, limit int) ([]Question, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]Question, 0, len(s.questions))
	for i := len(s.questions) - 1; i >= 0; i-- {
		q := s.questions[i]
		if vertical == "" || q.Vertical == vertical {
			filtered = append(filtered, q)
		}
	}
	start, end := pageBounds(len(filtered), offset, limit)
	return filtered[start:end], len(filtered)
}

func (s *Store) GetQuestion(questionID string) (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

func (s *Store) CreateOpinion(questionID, authorID, body string, confidence int) (Opinion, error) {
	trimmed, err := normalizeOpinion(body, confidence)
	if err != nil {
		return Opinion{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[authorID]; !ok {
		return Opinion{}, ErrNotFound
	}
	if s.questionIndex(questionID) < 0 {
		return Opinion{}, ErrNotFound
	}
	s.nextOpinionID++
	opinion := Opinion{
		ID:         fmt.Sprintf("o_%d", s.nextOpinionID),
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       trimmed,
		Confidence: confidence,
		CreatedAt:  s.nowString(),
	}
	s.opinions = append(s.opinions, opinion)
	return opinion, nil
}

func (s *Store) Opinions(questionID string) []Opinion {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]Opinion, 0)
	for _, o := range s.opinions {
		if o.QuestionID == questionID {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// AcceptOpinion marks an opinion as the accepted answer. Only the question
// author or an admin may accept, never their own opinion, and only once per
// question.
func (s *Store) AcceptOpinion(questionID, opinionID, actorID string) (Opinion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qi := s.questionIndex(questionID)
	if qi < 0 {
		return Opinion{}, ErrNotFound
	}
	question := s.questions[qi]
	actor, ok := s.users[actorID]
	if !ok {
		return Opinion{}, ErrNotFound
	}
	if question.AuthorID != actorID && !actor.IsAdmin {
		return Opinion{}, ErrForbidden
	}
	if question.AcceptedOpinionID != "" {
		return Opinion{}, ErrAlreadyAccepted
	}
	for i := range s.opinions {
		if s.opinions[i].ID != opinionID || s.opinions[i].QuestionID != questionID {
			continue
		}
		if s.opinions[i].AuthorID == actorID {
			return Opinion{}, ErrForbidden
		}
		s.opinions[i].Accepted = true
		s.questions[qi].AcceptedOpinionID = opinionID
		return s.opinions[i], nil
	}
	return Opinion{}, ErrNotFound
}

func (s *Store) questionIndex(questionID string) int {
	for i, q := range s.questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}
