package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for catalogue listings.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the query half of cursor pagination. The cursor is
// opaque to callers; it encodes the backend offset of the next page.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// GetLimit applies the default and the ceiling.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// Offset decodes the cursor. No cursor means the first page.
func (p *PaginationRequest) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// NewPaginatedResponse builds a page from up to limit+1 items fetched at
// offset; the extra item only signals that another page exists.
func NewPaginatedResponse[T any](items []T, offset, limit int) *PaginatedResponse[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	if items == nil {
		items = []T{}
	}

	resp := &PaginatedResponse[T]{Items: items, HasMore: hasMore}
	if hasMore {
		resp.NextCursor = EncodeCursor(offset + limit)
	}

	return resp
}

type cursorData struct {
	Offset int `json:"o"`
}

// EncodeCursor renders an offset as a URL-safe cursor.
func EncodeCursor(offset int) string {
	b, _ := json.Marshal(cursorData{Offset: offset})
	return base64.URLEncoding.EncodeToString(b)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(encoded string) (int, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var data cursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return 0, ErrInvalidCursor
	}

	return data.Offset, nil
}
