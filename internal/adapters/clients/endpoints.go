package clients

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint names a backend operation's path template.
type Endpoint string

// Quest endpoints.
const (
	Quests           Endpoint = "quests"
	QuestByID        Endpoint = "quest_by_id"
	UserActiveQuests Endpoint = "user_active_quests"
	UserQuestHistory Endpoint = "user_quest_history"
	StartQuest       Endpoint = "start_quest"
	CompleteQuest    Endpoint = "complete_quest"
	AbandonQuest     Endpoint = "abandon_quest"
	QuestChat        Endpoint = "quest_chat"
)

// Item endpoints.
const (
	Items           Endpoint = "items"
	ItemByID        Endpoint = "item_by_id"
	UserItems       Endpoint = "user_items"
	PurchaseItem    Endpoint = "purchase_item"
	FeatureUserItem Endpoint = "feature_user_item"
)

// User endpoints.
const (
	Users          Endpoint = "users"
	UserByID       Endpoint = "user_by_id"
	UserByUsername Endpoint = "user_by_username"
)

// Achievement endpoints.
const (
	Achievements     Endpoint = "achievements"
	UserAchievements Endpoint = "user_achievements"
	ActiveTitle      Endpoint = "active_title"
)

// Auth endpoints.
const (
	Login  Endpoint = "login"
	Signup Endpoint = "signup"
)

// Endpoints maps every operation to its path relative to the API base URL.
// Placeholders in braces are filled positionally by Path.
var Endpoints = map[Endpoint]string{
	Quests:           "/quests",
	QuestByID:        "/quests/{id}",
	UserActiveQuests: "/users/{userId}/quests/active",
	UserQuestHistory: "/users/{userId}/quests/history",
	StartQuest:       "/users/{userId}/quests/start",
	CompleteQuest:    "/users/{userId}/quests/{questId}/complete",
	AbandonQuest:     "/users/{userId}/quests/{questId}/abandon",
	QuestChat:        "/users/{userId}/quests/{questId}/chat",

	Items:           "/items",
	ItemByID:        "/items/{id}",
	UserItems:       "/users/{userId}/items",
	PurchaseItem:    "/users/{userId}/items/{itemId}/purchase",
	FeatureUserItem: "/users/{userId}/items/{userItemId}/feature",

	Users:          "/users",
	UserByID:       "/users/{id}",
	UserByUsername: "/users/username/{username}",

	Achievements:     "/achievements",
	UserAchievements: "/achievements/users/{userId}",
	ActiveTitle:      "/achievements/users/{userId}/active-title",

	Login:  "/auth/login",
	Signup: "/auth/signup",
}

// Path resolves name and substitutes params, in order, for its placeholders.
// Params are path-escaped. A missing, empty or surplus param is a
// *SetupError.
func Path(name Endpoint, params ...string) (string, error) {
	tmpl, ok := Endpoints[name]
	if !ok {
		return "", &SetupError{Op: "resolve endpoint", Err: fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)}
	}

	var b strings.Builder

	next := 0
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}

		placeholder := rest[open+1 : open+end]
		if next >= len(params) || params[next] == "" {
			return "", &SetupError{
				Op:  "build " + string(name) + " path",
				Err: fmt.Errorf("%w: %s", ErrMissingParam, placeholder),
			}
		}

		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(params[next]))
		next++
		rest = rest[open+end+1:]
	}

	if next != len(params) {
		return "", &SetupError{
			Op:  "build " + string(name) + " path",
			Err: fmt.Errorf("%d params given, %d expected", len(params), next),
		}
	}

	return b.String(), nil
}
