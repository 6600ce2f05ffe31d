package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/domain"
)

const (
	userID = "3f1c2a9e-8d4b-4c6a-9f0e-1b2c3d4e5f60"
	itemID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// backend is a fake quest API that records what it receives.
type backend struct {
	*http.ServeMux

	mu         sync.Mutex
	requestIDs []string
	queries    []string
	bodies     []string
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()

	b := &backend{ServeMux: http.NewServeMux()}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		b.mu.Lock()
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		b.queries = append(b.queries, r.URL.RawQuery)
		b.bodies = append(b.bodies, string(body))
		b.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		b.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return b, srv.URL
}

func (b *backend) json(pattern string, status int, body string) {
	b.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	c := newCLI(&stdout, &stderr)
	c.now = func() time.Time { return fixedNow }

	root := newRootCmd(c)
	root.SetArgs(append([]string{"--api-url", apiURL}, args...))

	err := root.ExecuteContext(context.Background())

	return stdout.String(), err
}

const questJSON = `{"id":"q-1","title":"Slay the Dragon","description":"big","tier":2,"glory_reward":1500,"xp_reward":200,"time_limit_hours":48,"created_at":"2025-06-01T00:00:00Z"}`

func TestQuestsList_JSON(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /quests", http.StatusOK, "["+questJSON+"]")

	out, err := run(t, url, "-o", "json", "quests", "list", "--tier", "2", "--limit", "5")
	require.NoError(t, err)

	var quests []dto.QuestResponse
	require.NoError(t, json.Unmarshal([]byte(out), &quests))
	require.Len(t, quests, 1)
	assert.Equal(t, "Slay the Dragon", quests[0].Title)
	assert.Equal(t, "Adventurer", quests[0].TierName)
	assert.Equal(t, "1,500", quests[0].GloryDisplay)

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.Contains(t, b.queries[0], "tier=2")
	assert.Contains(t, b.queries[0], "limit=5")
	assert.NotEmpty(t, b.requestIDs[0])
}

func TestQuestsGet_ManyTable(t *testing.T) {
	b, url := newBackend(t)
	b.HandleFunc("GET /quests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, strings.ReplaceAll(
			strings.Replace(questJSON, `"q-1"`, `"`+r.PathValue("id")+`"`, 1),
			"Slay the Dragon", "Quest "+r.PathValue("id"),
		))
	})

	out, err := run(t, url, "quests", "get", "a", "b", "c")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "Quest a")
	assert.Contains(t, lines[2], "Quest b")
	assert.Contains(t, lines[3], "Quest c")
}

func TestItemsBuy_YAML(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /users/{id}", http.StatusOK, `{"id":"`+userID+`","username":"ada","total_glory":5000,"created_at":"2025-06-01T00:00:00Z"}`)
	b.json("GET /items/{id}", http.StatusOK, `{"id":"`+itemID+`","name":"Iron Sword","rarity_tier":2,"rarity_stars":2,"price":1200}`)
	b.json("GET /users/{id}/items", http.StatusOK, `[]`)
	b.json("POST /users/{id}/items/{item}/purchase", http.StatusOK,
		`{"user_item":{"id":"ui-1","user_id":"`+userID+`","item_id":"`+itemID+`","acquired_at":"2025-06-10T12:00:00Z"},"new_glory":3800,"item_price":1200}`)

	out, err := run(t, url, "--output", "yaml", "items", "buy", userID, itemID)
	require.NoError(t, err)

	var resp struct {
		NewGlory int64 `yaml:"new_glory"`
		UserItem struct {
			Item struct {
				Name string `yaml:"name"`
			} `yaml:"item"`
		} `yaml:"user_item"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(3800), resp.NewGlory)
	assert.Equal(t, "Iron Sword", resp.UserItem.Item.Name)
}

func TestItemsBuy_CannotAfford(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /users/{id}", http.StatusOK, `{"id":"`+userID+`","username":"ada","total_glory":100}`)
	b.json("GET /items/{id}", http.StatusOK, `{"id":"`+itemID+`","name":"Iron Sword","rarity_tier":2,"price":1200}`)
	b.json("GET /users/{id}/items", http.StatusOK, `[]`)

	_, err := run(t, url, "items", "buy", userID, itemID)
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
	assert.Contains(t, err.Error(), "Need 1100 more glory.")
}

func TestQuestsAbandon_NotActive(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /users/{id}/quests/active", http.StatusOK, `[]`)

	_, err := run(t, url, "quests", "abandon", userID, "uq-1")
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestUsersGet_NotFound(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /users/{id}", http.StatusNotFound, `{"detail":"User not found","status_code":404}`)

	_, err := run(t, url, "users", "get", userID)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "User not found", err.Error())
}

func TestUsersCreate(t *testing.T) {
	b, url := newBackend(t)
	b.json("POST /users", http.StatusCreated, `{"id":"`+userID+`","username":"ada","email":"ada@example.com","level":1}`)

	out, err := run(t, url, "-o", "json", "users", "create", "--username", "ada", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "ada"`)

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.JSONEq(t, `{"username":"ada","email":"ada@example.com"}`, b.bodies[0])
}

func TestUsersCreate_RequiresFlags(t *testing.T) {
	_, url := newBackend(t)

	_, err := run(t, url, "users", "create", "--username", "ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestHome_Table(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /users/{id}", http.StatusOK, `{"id":"`+userID+`","username":"ada lovelace","total_glory":12500,"total_xp":150,"created_at":"2025-06-01T00:00:00Z"}`)
	b.json("GET /users/{id}/quests/active", http.StatusOK, `[]`)
	b.json("GET /users/{id}/items", http.StatusOK, `[]`)

	out, err := run(t, url, "home", userID)
	require.NoError(t, err)

	assert.Contains(t, out, "ada lovelace (AL)")
	assert.Contains(t, out, "12,500 glory")
	assert.Contains(t, out, "No active quests")
	assert.Contains(t, out, "Days Active")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, url := newBackend(t)

	_, err := run(t, url, "-o", "xml", "quests", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRequestIDsAreFreshPerCommand(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /quests", http.StatusOK, `[]`)

	for range 2 {
		_, err := run(t, url, "quests", "list")
		require.NoError(t, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	require.Len(t, b.requestIDs, 2)
	assert.NotEmpty(t, b.requestIDs[0])
	assert.NotEqual(t, b.requestIDs[0], b.requestIDs[1])
}

const achievementsJSON = `[
	{"id":"a-1","title":"Wanderer","achievement_type":"default","color_tier":1},
	{"id":"a-2","title":"Dragonslayer","achievement_type":"quest","is_rare":true,"color_tier":4}
]`

func TestAchievementsList_Table(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /achievements", http.StatusOK, achievementsJSON)
	b.json("GET /achievements/users/{id}", http.StatusOK,
		`[{"id":"ua-1","user_id":"`+userID+`","achievement_id":"a-2","unlocked_at":"2025-06-09T08:00:00Z"}]`)
	b.json("GET /achievements/users/{id}/active-title", http.StatusOK,
		`{"id":"a-2","title":"Dragonslayer","achievement_type":"quest","is_rare":true}`)

	out, err := run(t, url, "achievements", "list", userID)
	require.NoError(t, err)

	assert.Contains(t, out, "Dragonslayer")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "2025-06-09")
	assert.Contains(t, out, "Wanderer")
}

func TestAchievementsTitle_Wear(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /achievements", http.StatusOK, achievementsJSON)
	b.json("GET /achievements/users/{id}", http.StatusOK,
		`[{"id":"ua-1","user_id":"`+userID+`","achievement_id":"a-2","unlocked_at":"2025-06-09T08:00:00Z"}]`)
	b.json("PATCH /achievements/users/{id}/active-title", http.StatusOK,
		`{"message":"Active title updated","active_title_id":"a-2"}`)

	out, err := run(t, url, "-o", "json", "achievements", "title", userID, "a-2")
	require.NoError(t, err)

	var resp dto.TitleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.ActiveTitle)
	assert.Equal(t, "Dragonslayer", resp.ActiveTitle.Title)

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.JSONEq(t, `{"achievement_id":"a-2"}`, b.bodies[len(b.bodies)-1])
}

func TestAchievementsTitle_LockedNeverPatches(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /achievements", http.StatusOK, achievementsJSON)
	b.json("GET /achievements/users/{id}", http.StatusOK, `[]`)

	_, err := run(t, url, "achievements", "title", userID, "a-2")
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.Len(t, b.requestIDs, 2, "only the two reads reach the backend")
}

func TestAchievementsTitle_Clear(t *testing.T) {
	b, url := newBackend(t)
	b.json("PATCH /achievements/users/{id}/active-title", http.StatusOK,
		`{"message":"Active title cleared","active_title_id":null}`)

	out, err := run(t, url, "-o", "json", "achievements", "title", userID, "--clear")
	require.NoError(t, err)
	assert.JSONEq(t, `{"active_title":null}`, out)

	b.mu.Lock()
	defer b.mu.Unlock()

	require.Len(t, b.bodies, 1)
	assert.JSONEq(t, `{"achievement_id":null}`, b.bodies[0])
}

func TestAchievementsTitle_ShowNone(t *testing.T) {
	b, url := newBackend(t)
	b.json("GET /achievements/users/{id}/active-title", http.StatusOK, `null`)

	out, err := run(t, url, "achievements", "title", userID)
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "-")
}

func TestAchievementsTitle_ClearWithID(t *testing.T) {
	_, url := newBackend(t)

	_, err := run(t, url, "achievements", "title", userID, "a-2", "--clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestAuthLogin(t *testing.T) {
	b, url := newBackend(t)
	b.json("POST /auth/login", http.StatusOK, `{"id":"`+userID+`","username":"ada","email":"ada@example.com","total_glory":2500,"level":3}`)

	out, err := run(t, url, "auth", "login", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "2,500")

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.JSONEq(t, `{"email":"ada@example.com"}`, b.bodies[0])
}

func TestAuthLogin_UnknownEmail(t *testing.T) {
	b, url := newBackend(t)
	b.json("POST /auth/login", http.StatusNotFound, `{"detail":"User not found","status_code":404}`)

	_, err := run(t, url, "auth", "login", "--email", "nobody@example.com")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestAuthSignup(t *testing.T) {
	b, url := newBackend(t)
	b.json("POST /auth/signup", http.StatusCreated, `{"id":"`+userID+`","username":"ada","email":"ada@example.com","level":1}`)

	out, err := run(t, url, "-o", "json", "auth", "signup", "--email", "ada@example.com", "--username", "ada")
	require.NoError(t, err)
	assert.Contains(t, out, `"username": "ada"`)

	b.mu.Lock()
	defer b.mu.Unlock()

	assert.JSONEq(t, `{"email":"ada@example.com","username":"ada"}`, b.bodies[0])
}

func TestAuthSignup_RequiresUsername(t *testing.T) {
	_, url := newBackend(t)

	_, err := run(t, url, "auth", "signup", "--email", "ada@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}
