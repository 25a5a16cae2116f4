package live

import (
	"encoding/json"

	"github.com/verdict-com/verdict/server/progression"
	"github.com/verdict-com/verdict/server/store"
)

// PublishAward broadcasts a LevelUp for award if the level changed.
func (h *Hub) PublishAward(award store.XPAward) {
	if !award.LevelChanged() {
		return
	}
	msg, err := json.Marshal(LevelUp{
		Type:        "level_up",
		UserID:      award.Event.UserID,
		Level:       award.LevelAfter,
		LevelTitle:  progression.TitleForLevel(award.LevelAfter),
		TotalXP:     award.TotalAfter,
		FormattedXP: progression.FormatXP(award.TotalAfter),
	})
	if err != nil {
		return
	}
	h.Broadcast(AllRoom, msg)
	h.Broadcast(UserRoom(award.Event.UserID), msg)
}
