package acl

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/questboard/internal/domain"
)

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestDecodeResponse(t *testing.T) {
	t.Run("decodes and closes", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader(`{"id":"q-1","title":"Slay the dragon"}`)}

		var out questDTO
		require.NoError(t, DecodeResponse(body, &out))

		assert.Equal(t, "q-1", out.ID)
		assert.Equal(t, "Slay the dragon", out.Title)
		assert.True(t, body.closed)
	})

	t.Run("empty body leaves target untouched", func(t *testing.T) {
		out := questDTO{ID: "keep"}
		require.NoError(t, DecodeResponse(&trackingBody{Reader: strings.NewReader("")}, &out))
		assert.Equal(t, "keep", out.ID)
	})

	t.Run("nil target drains", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader(`{"ignored":true}`)}
		require.NoError(t, DecodeResponse(body, nil))
		assert.True(t, body.closed)
	})

	t.Run("nil body", func(t *testing.T) {
		assert.NoError(t, DecodeResponse(nil, &questDTO{}))
	})

	t.Run("malformed json", func(t *testing.T) {
		var out questDTO
		err := DecodeResponse(&trackingBody{Reader: strings.NewReader(`{"id":`)}, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding response")
	})
}

func TestTranslateSlice(t *testing.T) {
	t.Run("translates in order", func(t *testing.T) {
		in := []itemDTO{
			{ID: "i-1", Name: "Sword", RarityTier: 2, Price: 100},
			{ID: "i-2", Name: "Shield", RarityTier: 3, Price: 250},
		}

		out, err := TranslateSlice(in, translateItem)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Sword", out[0].Name)
		assert.Equal(t, domain.RarityTier(3), out[1].RarityTier)
	})

	t.Run("empty input gives empty slice", func(t *testing.T) {
		out, err := TranslateSlice([]itemDTO{}, translateItem)
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("stops at first failure", func(t *testing.T) {
		in := []itemDTO{{ID: "i-1"}, {ID: ""}, {ID: "i-3"}}

		out, err := TranslateSlice(in, translateItem)
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Contains(t, err.Error(), "translating item 1")
		assert.ErrorIs(t, err, errMalformedResponse)
		assert.False(t, domain.IsValidation(err))
	})

	t.Run("custom translator error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		fail := func(*int) (string, error) { return "", boom }

		_, err := TranslateSlice([]int{1}, Translator[int, string](fail))
		assert.ErrorIs(t, err, boom)
	})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 utc", "2025-06-01T09:30:00Z", want},
		{"rfc3339 offset", "2025-06-01T11:30:00+02:00", want},
		{"naive is utc", "2025-06-01T09:30:00", want},
		{"naive with fraction", "2025-06-01T09:30:00.000000", want},
		{"space separated", "2025-06-01 09:30:00+00:00", want},
		{"empty", "", time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTimestamp(tt.in)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestParseOptionalTimestamp(t *testing.T) {
	assert.Nil(t, parseOptionalTimestamp(nil))

	empty := ""
	assert.Nil(t, parseOptionalTimestamp(&empty))

	bad := "soon"
	assert.Nil(t, parseOptionalTimestamp(&bad))

	ok := "2025-06-01T09:30:00Z"
	got := parseOptionalTimestamp(&ok)
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year())
}

func TestPageQuery(t *testing.T) {
	assert.Equal(t, "limit=100", pageQuery(0, 0, 100).Encode())
	assert.Equal(t, "limit=10&offset=20", pageQuery(10, 20, 100).Encode())
	assert.Equal(t, "limit=50", pageQuery(-1, -5, 50).Encode())
}

func TestTranslateUserQuest_NestedQuest(t *testing.T) {
	completed := "2025-06-02T10:00:00Z"
	ext := &userQuestDTO{
		ID:          "uq-1",
		UserID:      "u-1",
		QuestID:     "q-1",
		Quest:       &questDTO{ID: "q-1", Title: "Gather herbs", Tier: 1},
		StartedAt:   "2025-06-01T09:00:00Z",
		CompletedAt: &completed,
		DeadlineAt:  "2025-06-03T09:00:00Z",
	}

	uq, err := translateUserQuest(ext)
	require.NoError(t, err)

	require.NotNil(t, uq.Quest)
	assert.Equal(t, "Gather herbs", uq.Quest.Title)
	assert.Equal(t, domain.QuestCompleted, uq.Status())
	require.NotNil(t, uq.CompletedAt)

	ext.Quest.ID = ""
	_, err = translateUserQuest(ext)
	assert.ErrorIs(t, err, errMalformedResponse)
}

func TestTranslateCompletion(t *testing.T) {
	tier := 3
	ext := &completionDTO{
		UserQuest:   userQuestDTO{ID: "uq-1", QuestID: "q-1"},
		AwardedItem: &userItemDTO{ID: "ui-9", ItemID: "i-9", Item: &itemDTO{ID: "i-9", Name: "Amulet"}},
		AwardedAchievements: []achievementDTO{
			{ID: "a-1", Title: "First Blood", Type: "first_quest", Tier: &tier, IsRare: true},
		},
	}

	out, err := translateCompletion(ext)
	require.NoError(t, err)

	require.NotNil(t, out.AwardedItem)
	assert.Equal(t, "Amulet", out.AwardedItem.Item.Name)
	require.Len(t, out.AwardedAchievements, 1)
	assert.Equal(t, 3, out.AwardedAchievements[0].Tier)
	assert.Empty(t, out.AwardedAchievements[0].QuestID)
}

func TestTranslateUser_DefaultsLifetimeGlory(t *testing.T) {
	u, err := translateUser(&userDTO{ID: "u-1", Username: "aria", TotalGlory: 350, TotalXP: 1200, Level: 4})
	require.NoError(t, err)

	assert.Equal(t, int64(0), u.LifetimeGloryGained)
	assert.Equal(t, "aria", u.Username)
}

func TestWriteBuilders(t *testing.T) {
	t.Run("quest input omits empty reward", func(t *testing.T) {
		w := questWriteFromInput(domain.QuestInput{Title: "T", Tier: 2})
		require.NotNil(t, w.Tier)
		assert.Equal(t, 2, *w.Tier)
		assert.Nil(t, w.RewardItemID)
	})

	t.Run("quest patch keeps nils", func(t *testing.T) {
		title := "Renamed"
		w := questWriteFromPatch(domain.QuestPatch{Title: &title})
		assert.Equal(t, &title, w.Title)
		assert.Nil(t, w.Tier)
		assert.Nil(t, w.GloryReward)
	})

	t.Run("item patch converts tier", func(t *testing.T) {
		tier := domain.RarityTier(5)
		w := itemWriteFromPatch(domain.ItemPatch{RarityTier: &tier})
		require.NotNil(t, w.RarityTier)
		assert.Equal(t, 5, *w.RarityTier)
		assert.Nil(t, w.Price)
	})

	t.Run("item input with image", func(t *testing.T) {
		w := itemWriteFromInput(domain.ItemInput{Name: "Cloak", ImageURL: "https://cdn/cloak.png"})
		require.NotNil(t, w.ImageURL)
		assert.Equal(t, "https://cdn/cloak.png", *w.ImageURL)
	})
}

func TestChatHistoryDTO(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "Where is the cave?", Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		{Role: domain.ChatRoleAssistant, Content: "North of the river."},
	}

	out := chatHistoryDTO(history)

	require.Len(t, out, 2)
	assert.Equal(t, "2025-06-01T09:00:00Z", out[0].Timestamp)
	assert.Empty(t, out[1].Timestamp)
	assert.Equal(t, "assistant", out[1].Role)
	assert.NotNil(t, chatHistoryDTO(nil))
}
