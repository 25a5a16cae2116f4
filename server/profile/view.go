package profile

import (
	"github.com/verdict-com/verdict/server/progression"
	"github.com/verdict-com/verdict/server/store"
)

// Gamification is the level block shown on profiles and /users/me.
type Gamification struct {
	TotalXP         int    `json:"total_xp"`
	FormattedXP     string `json:"formatted_xp"`
	GroupedXP       string `json:"grouped_xp"`
	Level           int    `json:"level"`
	LevelTitle      string `json:"level_title"`
	LevelStartXP    int    `json:"level_start_xp"`
	NextLevelXP     int    `json:"next_level_xp"`
	XPToNextLevel   int    `json:"xp_to_next_level"`
	ProgressPercent int    `json:"progress_percent"`
	WeeklyXP        int    `json:"weekly_xp"`
	MonthlyXP       int    `json:"monthly_xp"`
	Streak          int    `json:"streak"`
}

func NewGamification(summary store.XPSummary) Gamification {
	p := progression.ProgressForXP(summary.Total)
	return Gamification{
		TotalXP:         p.XP,
		FormattedXP:     p.Formatted,
		GroupedXP:       progression.GroupXP(p.XP),
		Level:           p.Level,
		LevelTitle:      p.Title,
		LevelStartXP:    p.LevelStartXP,
		NextLevelXP:     p.NextLevelXP,
		XPToNextLevel:   p.XPToNext,
		ProgressPercent: p.Percent,
		WeeklyXP:        summary.Weekly,
		MonthlyXP:       summary.Monthly,
		Streak:          summary.Streak,
	}
}

type BadgeView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Style       string `json:"style"`
	EarnedAt    string `json:"earned_at,omitempty"`
}

func NewBadgeView(b store.Badge, earnedAt string) BadgeView {
	return BadgeView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    string(b.Category),
		Rarity:      string(b.Rarity),
		RarityLabel: b.Rarity.DisplayName(),
		Style:       b.Rarity.Style(),
		EarnedAt:    earnedAt,
	}
}

// UserSummary is the short author block embedded in lists.
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Nickname   string `json:"nickname"`
	Verified   bool   `json:"verified"`
	Level      int    `json:"level"`
	LevelTitle string `json:"level_title"`
}

func NewUserSummary(user store.User, totalXP int) UserSummary {
	level := progression.LevelForXP(totalXP)
	return UserSummary{
		ID:         user.ID,
		Username:   user.Username,
		Nickname:   user.Nickname,
		Verified:   user.Verified,
		Level:      level,
		LevelTitle: progression.TitleForLevel(level),
	}
}
