package dto

// UserURI binds /users/:userID.
type UserURI struct {
	UserID string `uri:"userID" validate:"required,uuid"`
}

// UserQuestURI binds /users/:userID/quests/:userQuestID.
type UserQuestURI struct {
	UserID      string `uri:"userID"      validate:"required,uuid"`
	UserQuestID string `uri:"userQuestID" validate:"required,uuid"`
}

// PurchaseURI binds /users/:userID/items/:itemID/purchase.
type PurchaseURI struct {
	UserID string `uri:"userID" validate:"required,uuid"`
	ItemID string `uri:"itemID" validate:"required,uuid"`
}

// StartQuestRequest is the body of POST /users/:userID/quests.
type StartQuestRequest struct {
	QuestID string `json:"quest_id" validate:"required,uuid"`
}

// QuestListQuery filters GET /quests.
type QuestListQuery struct {
	PaginationRequest
	Tier int `form:"tier" validate:"omitempty,gte=1,lte=6"`
}

// ItemListQuery filters GET /items.
type ItemListQuery struct {
	PaginationRequest
	Tier     int   `form:"tier"      validate:"omitempty,gte=1,lte=6"`
	MinPrice int64 `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice int64 `form:"max_price" validate:"omitempty,gte=0"`
}

// SetTitleRequest is the body of PUT /users/:userID/title. A null
// achievement_id clears the title.
type SetTitleRequest struct {
	AchievementID *string `json:"achievement_id" validate:"omitempty,uuid"`
}
