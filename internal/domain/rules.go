package domain

import (
	"fmt"
	"time"
)

// MaxActiveQuests is how many quests a player may run at once.
const MaxActiveQuests = 4

// Reasons shown to players when a rule blocks an action.
const (
	ReasonQuestAlreadyActive = "This quest is already active"
	ReasonQuestNotActive     = "Quest is not active"
	ReasonQuestDeadlinePast  = "Quest deadline has passed"
	ReasonItemAlreadyOwned   = "You already own this item"
)

// CanStartQuest checks the active quest cap.
func CanStartQuest(active []UserQuest) error {
	if len(active) >= MaxActiveQuests {
		return NewConflictError("quest",
			fmt.Sprintf("You already have the maximum number of active quests (%d)", MaxActiveQuests))
	}

	return nil
}

// IsQuestActive reports whether questID is among the active runs.
func IsQuestActive(questID string, active []UserQuest) bool {
	for i := range active {
		if active[i].QuestID == questID {
			return true
		}
	}

	return false
}

// HasCompletedQuest reports whether questID appears in the history.
func HasCompletedQuest(questID string, history []UserQuest) bool {
	for i := range history {
		if history[i].QuestID == questID && history[i].CompletedAt != nil {
			return true
		}
	}

	return false
}

// CanSelectQuest checks that questID is not already running and that the
// cap leaves room for it.
func CanSelectQuest(questID string, active []UserQuest) error {
	if IsQuestActive(questID, active) {
		return NewConflictError("quest", ReasonQuestAlreadyActive)
	}

	return CanStartQuest(active)
}

// CanCompleteQuest checks that the run is still active and within its deadline.
func CanCompleteQuest(uq *UserQuest, now time.Time) error {
	if !uq.IsActive {
		return NewConflictError("quest", ReasonQuestNotActive)
	}

	if uq.Expired(now) {
		return NewConflictError("quest", ReasonQuestDeadlinePast)
	}

	return nil
}

// CanAbandonQuest checks that the run is still active. Expired runs may be
// abandoned.
func CanAbandonQuest(uq *UserQuest) error {
	if !uq.IsActive {
		return NewConflictError("quest", ReasonQuestNotActive)
	}

	return nil
}

// Shortfall returns how much glory is missing to pay price, 0 if affordable.
func Shortfall(glory, price int64) int64 {
	return max(price-glory, 0)
}

// OwnsItem reports whether itemID is among owned.
func OwnsItem(itemID string, owned []UserItem) bool {
	for i := range owned {
		if owned[i].ItemID == itemID {
			return true
		}
	}

	return false
}

// CanPurchaseItem checks ownership first, then the glory balance.
func CanPurchaseItem(item *Item, glory int64, owned []UserItem) error {
	if OwnsItem(item.ID, owned) {
		return NewConflictError("item", ReasonItemAlreadyOwned)
	}

	if short := Shortfall(glory, item.Price); short > 0 {
		return NewForbiddenError("purchase",
			fmt.Sprintf("Insufficient glory. Need %d more glory.", short))
	}

	return nil
}

// AffordableItems filters items priced at or below glory.
func AffordableItems(items []Item, glory int64) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Price <= glory {
			out = append(out, it)
		}
	}

	return out
}

// RecommendedItems keeps items at most one rarity tier above what the
// player's level suggests (one tier per ten levels, capped at 6).
func RecommendedItems(items []Item, level int) []Item {
	tier := RarityTier(min(level/10+1, MaxTier))

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.RarityTier <= tier+1 {
			out = append(out, it)
		}
	}

	return out
}
