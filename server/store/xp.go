package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verdict-com/verdict/server/badge"
	"github.com/verdict-com/verdict/server/progression"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

func newXPEvent(userID string, amount int, reason string, at time.Time) (XPEvent, error) {
	if amount <= 0 {
		return XPEvent{}, ErrInvalidInput
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "manual"
	}
	return XPEvent{
		ID:        "xp_" + uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: at.UTC().Format(time.RFC3339),
	}, nil
}

func awardFor(event XPEvent, before int) XPAward {
	after := before + event.Amount
	return XPAward{
		Event:       event,
		TotalBefore: before,
		TotalAfter:  after,
		LevelBefore: progression.LevelForXP(before),
		LevelAfter:  progression.LevelForXP(after),
	}
}

// summarize folds a user's ledger into totals relative to now. Events with an
// unparsable timestamp still count toward Total.
func summarize(events []XPEvent, now time.Time) XPSummary {
	now = now.UTC()
	var summary XPSummary
	days := map[string]bool{}
	for _, event := range events {
		summary.Total += event.Amount
		at, err := time.Parse(time.RFC3339, event.CreatedAt)
		if err != nil {
			continue
		}
		age := now.Sub(at)
		if age < weekWindow {
			summary.Weekly += event.Amount
		}
		if age < monthWindow {
			summary.Monthly += event.Amount
		}
		days[at.UTC().Format(time.DateOnly)] = true
	}
	summary.Streak = streak(days, now)
	return summary
}

func streak(days map[string]bool, now time.Time) int {
	day := now
	if !days[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	count := 0
	for days[day.Format(time.DateOnly)] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

func defaultBadges() []Badge {
	return []Badge{
		{ID: "founding-member", Name: "Founding Member", Description: "One of the first 100 professionals on VERDICT.COM", Category: badge.CategorySpecial, Rarity: badge.RarityLegendary},
		{ID: "consensus-builder", Name: "Consensus Builder", Description: "Achieved 90%+ consensus rate across 50+ opinions", Category: badge.CategoryQuality, Rarity: badge.RarityEpic},
		{ID: "employment-expert", Name: "Employment Law Expert", Description: "Answered 100+ employment law questions with high accuracy", Category: badge.CategoryExpertise, Rarity: badge.RarityRare},
		{ID: "rapid-responder", Name: "Rapid Responder", Description: "Maintained sub-2 hour average response time for 30 days", Category: badge.CategoryParticipation, Rarity: badge.RarityUncommon},
		{ID: "streak-champion", Name: "Streak Champion", Description: "Maintained 15+ day activity streak", Category: badge.CategoryParticipation, Rarity: badge.RarityUncommon},
		{ID: "first-opinion", Name: "First Opinion", Description: "Posted a first professional opinion", Category: badge.CategoryParticipation, Rarity: badge.RarityCommon},
		{ID: "community-pillar", Name: "Community Pillar", Description: "Had 25 opinions accepted by question authors", Category: badge.CategoryCommunity, Rarity: badge.RarityRare},
	}
}

type questionInput struct {
	vertical badge.Vertical
	title    string
	body     string
	category string
	keywords []string
}

func normalizeQuestion(vertical badge.Vertical, title, body, category string, keywords []string) (questionInput, error) {
	v, err := badge.ParseVertical(string(vertical))
	if err != nil {
		return questionInput{}, ErrInvalidInput
	}
	in := questionInput{
		vertical: v,
		title:    strings.TrimSpace(title),
		body:     strings.TrimSpace(body),
		category: strings.TrimSpace(category),
	}
	if in.title == "" || in.body == "" {
		return questionInput{}, ErrInvalidInput
	}
	for _, kw := range keywords {
		if trimmed := strings.ToLower(strings.TrimSpace(kw)); trimmed != "" {
			in.keywords = append(in.keywords, trimmed)
		}
	}
	return in, nil
}

func normalizeOpinion(body string, confidence int) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" || confidence < 0 || confidence > 100 {
		return "", ErrInvalidInput
	}
	return trimmed, nil
}

func pageBounds(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return offset, end
}
