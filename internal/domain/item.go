package domain

import "time"

// RarityTier classifies items, 1 (Common) to 6 (Mythic).
type RarityTier int

var rarityNames = [...]string{"Common", "Uncommon", "Rare", "Epic", "Legendary", "Mythic"}

// Name returns the rarity's display name, or "Unknown" outside 1..6.
func (r RarityTier) Name() string {
	if r < MinTier || r > MaxTier {
		return "Unknown"
	}

	return rarityNames[r-1]
}

// Item is something sold in the shop.
type Item struct {
	ID          string
	Name        string
	Description string
	RarityTier  RarityTier
	RarityStars int
	ImageURL    string
	Price       int64
	CreatedAt   time.Time
}

// UserItem records that a player owns an item.
type UserItem struct {
	ID         string
	UserID     string
	ItemID     string
	Item       *Item
	AcquiredAt time.Time
	IsFeatured bool
}

// PurchaseResult is the backend's answer to a purchase: the new ownership
// record plus the balance after paying.
type PurchaseResult struct {
	UserItem  UserItem
	NewGlory  int64
	ItemPrice int64
}

// ItemInput creates an item.
type ItemInput struct {
	Name        string
	Description string
	RarityTier  RarityTier
	RarityStars int
	ImageURL    string
	Price       int64
}

// ItemPatch updates an item; nil fields are left untouched.
type ItemPatch struct {
	Name        *string
	Description *string
	RarityTier  *RarityTier
	RarityStars *int
	ImageURL    *string
	Price       *int64
}
