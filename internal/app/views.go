// Package app holds the use cases that sit between delivery surfaces and
// the backend services: the dashboard view models and the guarded player
// actions. It depends on ports only.
package app

import (
	"time"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/format"
)

// TopItemCount is how many items the home view shows.
const TopItemCount = 4

// CallToAction is the primary button on the home view.
type CallToAction string

const (
	// CTAFindQuest is shown, large, when the player has nothing running.
	CTAFindQuest CallToAction = "find_quest"

	// CTABrowseMore is the smaller button shown alongside active quests.
	CTABrowseMore CallToAction = "browse_more"
)

// ChooseCallToAction picks the home view's primary button.
func ChooseCallToAction(activeCount int) CallToAction {
	if activeCount == 0 {
		return CTAFindQuest
	}

	return CTABrowseMore
}

// Large reports whether the button is rendered prominently.
func (c CallToAction) Large() bool {
	return c == CTAFindQuest
}

// UserSummary is the header shared by both views.
type UserSummary struct {
	ID         string `json:"id" yaml:"id"`
	Username   string `json:"username" yaml:"username"`
	Initials   string `json:"initials" yaml:"initials"`
	DaysActive int    `json:"days_active" yaml:"days_active"`
}

// LevelView is the level badge and progress bar.
type LevelView struct {
	Level    int     `json:"level" yaml:"level"`
	Color    string  `json:"color" yaml:"color"`
	XP       string  `json:"xp" yaml:"xp"`
	XPToNext string  `json:"xp_to_next" yaml:"xp_to_next"`
	Percent  float64 `json:"percent" yaml:"percent"`
	Label    string  `json:"label" yaml:"label"`
}

// StatCard is one tile of a statistics grid.
type StatCard struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Raw   int64  `json:"raw" yaml:"raw"`
}

// QuestCard is an active quest tile.
type QuestCard struct {
	UserQuestID  string  `json:"user_quest_id" yaml:"user_quest_id"`
	QuestID      string  `json:"quest_id" yaml:"quest_id"`
	Title        string  `json:"title" yaml:"title"`
	Tier         string  `json:"tier" yaml:"tier"`
	Glory        string  `json:"glory_reward" yaml:"glory_reward"`
	TimeLeft     string  `json:"time_left" yaml:"time_left"`
	Elapsed      float64 `json:"elapsed_percent" yaml:"elapsed_percent"`
	ExpiringSoon bool    `json:"expiring_soon" yaml:"expiring_soon"`
	Expired      bool    `json:"expired" yaml:"expired"`
}

// ItemCard is an owned item tile.
type ItemCard struct {
	UserItemID string `json:"user_item_id" yaml:"user_item_id"`
	ItemID     string `json:"item_id" yaml:"item_id"`
	Name       string `json:"name" yaml:"name"`
	Rarity     string `json:"rarity" yaml:"rarity"`
	Stars      int    `json:"stars" yaml:"stars"`
	Price      string `json:"price" yaml:"price"`
	Featured   bool   `json:"featured" yaml:"featured"`
}

// HomeView is the landing page.
type HomeView struct {
	User         UserSummary  `json:"user" yaml:"user"`
	Glory        string       `json:"glory" yaml:"glory"`
	CallToAction CallToAction `json:"call_to_action" yaml:"call_to_action"`
	LargeCTA     bool         `json:"large_cta" yaml:"large_cta"`
	ActiveQuests []QuestCard  `json:"active_quests" yaml:"active_quests"`
	TopItems     []ItemCard   `json:"top_items" yaml:"top_items"`
	Stats        []StatCard   `json:"stats" yaml:"stats"`
	Level        LevelView    `json:"level" yaml:"level"`
}

// ProfileView is the player's profile page.
type ProfileView struct {
	User            UserSummary    `json:"user" yaml:"user"`
	Email           string         `json:"email" yaml:"email"`
	Glory           string         `json:"glory" yaml:"glory"`
	XP              string         `json:"xp" yaml:"xp"`
	LifetimeGlory   string         `json:"lifetime_glory" yaml:"lifetime_glory"`
	Level           LevelView      `json:"level" yaml:"level"`
	Stats           []StatCard     `json:"stats" yaml:"stats"`
	Featured        []ItemCard     `json:"featured_items" yaml:"featured_items"`
	ItemsByRarity   map[string]int `json:"items_by_rarity" yaml:"items_by_rarity"`
	CollectionValue string         `json:"collection_value" yaml:"collection_value"`
	AverageRarity   string         `json:"average_rarity" yaml:"average_rarity"`
}

func summarize(u *domain.User, now time.Time) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		Initials:   format.Initials(u.Username, 2),
		DaysActive: u.DaysActive(now),
	}
}

func levelView(totalXP int64) LevelView {
	p := domain.ProgressFor(totalXP)

	return LevelView{
		Level:    p.Level,
		Color:    p.Color,
		XP:       format.XP(totalXP),
		XPToNext: format.XP(p.XPToNext),
		Percent:  p.Percent,
		Label:    format.Percentage(p.Percent, 0),
	}
}

func statCard(key, label string, n int64) StatCard {
	return StatCard{Key: key, Label: label, Value: format.CompactNumber(n), Raw: n}
}

func questCard(uq *domain.UserQuest, now time.Time) QuestCard {
	card := QuestCard{
		UserQuestID:  uq.ID,
		QuestID:      uq.QuestID,
		TimeLeft:     format.FormatTimeRemaining(uq.DeadlineAt, now),
		Elapsed:      format.TimeProgress(uq.StartedAt, uq.DeadlineAt, now),
		ExpiringSoon: format.IsExpiringSoon(uq.StartedAt, uq.DeadlineAt, now),
		Expired:      uq.Expired(now),
	}

	if uq.Quest != nil {
		card.Title = uq.Quest.Title
		card.Tier = uq.Quest.Tier.Name()
		card.Glory = format.Glory(uq.Quest.GloryReward)
	}

	return card
}

func itemCards(owned []domain.UserItem) []ItemCard {
	cards := make([]ItemCard, 0, len(owned))
	for _, ui := range owned {
		card := ItemCard{UserItemID: ui.ID, ItemID: ui.ItemID, Featured: ui.IsFeatured}
		if ui.Item != nil {
			card.Name = ui.Item.Name
			card.Rarity = ui.Item.RarityTier.Name()
			card.Stars = ui.Item.RarityStars
			card.Price = format.Glory(ui.Item.Price)
		}

		cards = append(cards, card)
	}

	return cards
}
