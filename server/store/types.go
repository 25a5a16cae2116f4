package store

import (
	"time"

	"github.com/verdict-com/verdict/server/badge"
)

type User struct {
	ID       string
	Username string
	Nickname string
	// Title is the professional headline, e.g. "Employment Law Attorney".
	Title     string
	Vertical  badge.Vertical
	Verified  bool
	IsAdmin   bool
	CreatedAt string
}

type XPEvent struct {
	ID        string
	UserID    string
	Amount    int
	Reason    string
	CreatedAt string
}

// XPAward describes one append to a user's XP ledger.
type XPAward struct {
	Event       XPEvent
	TotalBefore int
	TotalAfter  int
	LevelBefore int
	LevelAfter  int
}

func (a XPAward) LevelChanged() bool {
	return a.LevelAfter != a.LevelBefore
}

type XPSummary struct {
	Total   int
	Weekly  int
	Monthly int
	// Streak counts consecutive UTC days with at least one event, ending
	// today or yesterday.
	Streak int
}

type LeaderboardEntry struct {
	User    User
	TotalXP int
}

type Badge struct {
	ID          string
	Name        string
	Description string
	Category    badge.Category
	Rarity      badge.Rarity
}

type UserBadge struct {
	Badge    Badge
	UserID   string
	EarnedAt string
}

type Question struct {
	ID                string
	Vertical          badge.Vertical
	AuthorID          string
	Title             string
	Body              string
	Category          string
	Keywords          []string
	AcceptedOpinionID string
	CreatedAt         string
}

type Opinion struct {
	ID         string
	QuestionID string
	AuthorID   string
	Body       string
	// Confidence is a self-reported percentage in [0, 100].
	Confidence int
	Accepted   bool
	CreatedAt  string
}

type ProfileUpdate struct {
	Nickname string
	Title    string
	Vertical badge.Vertical
}

// API is implemented by the in-memory Store and by SQLiteStore.
type API interface {
	// Register creates an account; admin is stored with the user atomically.
	Register(account, password, nickname string, admin bool) (User, error)
	Login(account, password string) (string, User, error)
	UserByToken(token string) (User, bool)
	GetUser(userID string) (User, bool)
	UserByUsername(username string) (User, bool)
	UpdateProfile(userID string, update ProfileUpdate) (User, error)
	SetVerified(userID string, verified bool) (User, error)

	AwardXP(userID string, amount int, reason string) (XPAward, error)
	XPSummary(userID string, now time.Time) (XPSummary, error)
	XPEvents(userID string, offset, limit int) ([]XPEvent, int, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)

	Badges() []Badge
	AwardBadge(userID, badgeID string) (UserBadge, error)
	UserBadges(userID string) []UserBadge

	CreateQuestion(authorID string, vertical badge.Vertical, title, body, category string, keywords []string) (Question, error)
	Questions(vertical badge.Vertical, offset, limit int) ([]Question, int)
	GetQuestion(questionID string) (Question, bool)
	CreateOpinion(questionID, authorID, body string, confidence int) (Opinion, error)
	Opinions(questionID string) []Opinion
	AcceptOpinion(questionID, opinionID, actorID string) (Opinion, error)

	SearchQuestions(query string, offset, limit int) ([]Question, int)
	SearchUsers(query string, offset, limit int) ([]User, int)
}

var (
	_ API = (*Store)(nil)
	_ API = (*SQLiteStore)(nil)
)
