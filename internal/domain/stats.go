package domain

import (
	"cmp"
	"slices"
)

// SortItemsByRarity returns a copy of owned ordered by rarity tier, then
// stars, then price, highest first. Records without item details keep their
// relative order at the end.
func SortItemsByRarity(owned []UserItem) []UserItem {
	sorted := slices.Clone(owned)

	slices.SortStableFunc(sorted, func(a, b UserItem) int {
		switch {
		case a.Item == nil && b.Item == nil:
			return 0
		case a.Item == nil:
			return 1
		case b.Item == nil:
			return -1
		}

		return cmp.Or(
			cmp.Compare(b.Item.RarityTier, a.Item.RarityTier),
			cmp.Compare(b.Item.RarityStars, a.Item.RarityStars),
			cmp.Compare(b.Item.Price, a.Item.Price),
		)
	})

	return sorted
}

// TopItems returns the n rarest owned items.
func TopItems(owned []UserItem, n int) []UserItem {
	sorted := SortItemsByRarity(owned)
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// TotalItemValue sums the prices of owned items.
func TotalItemValue(owned []UserItem) int64 {
	var total int64
	for _, ui := range owned {
		if ui.Item != nil {
			total += ui.Item.Price
		}
	}

	return total
}

// GroupItemsByTier buckets owned items by rarity; items without details
// count as tier 1.
func GroupItemsByTier(owned []UserItem) map[RarityTier][]UserItem {
	grouped := make(map[RarityTier][]UserItem)

	for _, ui := range owned {
		tier := RarityTier(1)
		if ui.Item != nil && ui.Item.RarityTier > 0 {
			tier = ui.Item.RarityTier
		}

		grouped[tier] = append(grouped[tier], ui)
	}

	return grouped
}

// AverageItemTier is the mean rarity tier, 0 for no items.
func AverageItemTier(owned []UserItem) float64 {
	if len(owned) == 0 {
		return 0
	}

	var sum int
	for _, ui := range owned {
		if ui.Item != nil {
			sum += int(ui.Item.RarityTier)
		}
	}

	return float64(sum) / float64(len(owned))
}

// FeaturedItems returns the items the player pinned to their profile.
func FeaturedItems(owned []UserItem) []UserItem {
	out := make([]UserItem, 0, len(owned))
	for _, ui := range owned {
		if ui.IsFeatured {
			out = append(out, ui)
		}
	}

	return out
}
