package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		params   []string
		want     string
	}{
		{"static", Quests, nil, "/quests"},
		{"single param", QuestByID, []string{"q-1"}, "/quests/q-1"},
		{"positional", CompleteQuest, []string{"u-1", "uq-9"}, "/users/u-1/quests/uq-9/complete"},
		{"escaped", UserByUsername, []string{"sir lance/lot"}, "/users/username/sir%20lance%2Flot"},
		{"purchase", PurchaseItem, []string{"u-1", "i-2"}, "/users/u-1/items/i-2/purchase"},
		{"active title", ActiveTitle, []string{"u-1"}, "/achievements/users/u-1/active-title"},
		{"signup", Signup, nil, "/auth/signup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Path(tt.endpoint, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPath_Errors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		params   []string
		wantErr  error
	}{
		{"unknown endpoint", Endpoint("nope"), nil, ErrUnknownEndpoint},
		{"missing param", CompleteQuest, []string{"u-1"}, ErrMissingParam},
		{"empty param", QuestByID, []string{""}, ErrMissingParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Path(tt.endpoint, tt.params...)

			var setupErr *SetupError
			require.ErrorAs(t, err, &setupErr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Path(Quests, "extra")
	var setupErr *SetupError
	assert.ErrorAs(t, err, &setupErr)
}

func TestEndpoints_AllResolvable(t *testing.T) {
	for name, tmpl := range Endpoints {
		params := make([]string, 0, 2)
		for range countPlaceholders(tmpl) {
			params = append(params, "x")
		}

		_, err := Path(name, params...)
		assert.NoError(t, err, name)
	}
}

func countPlaceholders(s string) int {
	n := 0
	for _, r := range s {
		if r == '{' {
			n++
		}
	}

	return n
}
