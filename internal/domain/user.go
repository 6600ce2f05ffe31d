package domain

import "time"

// User is a player.
type User struct {
	ID                  string
	Username            string
	Email               string
	TotalGlory          int64
	TotalXP             int64
	Level               int
	LifetimeGloryGained int64
	CreatedAt           time.Time
}

// DaysActive counts whole days since the account was created.
func (u *User) DaysActive(now time.Time) int {
	if now.Before(u.CreatedAt) {
		return 0
	}

	return int(now.Sub(u.CreatedAt) / (24 * time.Hour))
}

// UserInput creates a user.
type UserInput struct {
	Username string
	Email    string
}

// UserPatch updates a user; nil fields are left untouched.
type UserPatch struct {
	Username *string
	Email    *string
}

// Page selects a window of a listing.
type Page struct {
	Limit  int
	Offset int
}
