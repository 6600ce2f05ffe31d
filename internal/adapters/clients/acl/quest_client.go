package acl

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.QuestAPI = (*QuestClient)(nil)

// QuestClient implements ports.QuestAPI against the backend.
type QuestClient struct {
	BaseAdapter
	progress ports.ProgressFunc
}

// QuestClientOption configures a QuestClient.
type QuestClientOption func(*QuestClient)

// WithProgress observes the steps of Complete and Abandon.
func WithProgress(fn ports.ProgressFunc) QuestClientOption {
	return func(c *QuestClient) {
		c.progress = fn
	}
}

// NewQuestClient creates a quest adapter.
func NewQuestClient(client *clients.Client, opts ...QuestClientOption) *QuestClient {
	c := &QuestClient{BaseAdapter: NewBaseAdapter(client, "quests")}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchAll lists quests, 100 at a time unless q.Limit says otherwise.
func (c *QuestClient) FetchAll(ctx context.Context, q ports.QuestQuery) ([]domain.Quest, error) {
	query := pageQuery(q.Limit, q.Offset, ports.DefaultListLimit)
	if q.Tier != 0 {
		query.Set("tier", strconv.Itoa(int(q.Tier)))
	}

	var out []questDTO
	if err := c.do(ctx, call{
		op:       "fetch quests",
		method:   http.MethodGet,
		endpoint: clients.Quests,
		query:    query,
		fallback: "Failed to fetch quests",
	}, &out); err != nil {
		return nil, err
	}

	return c.translateQuests(ctx, out)
}

// FetchByID returns one quest.
func (c *QuestClient) FetchByID(ctx context.Context, id string) (*domain.Quest, error) {
	var out questDTO
	if err := c.do(ctx, call{
		op:       "fetch quest",
		method:   http.MethodGet,
		endpoint: clients.QuestByID,
		params:   []string{id},
		fallback: "Failed to fetch quest",
	}, &out); err != nil {
		return nil, err
	}

	q, err := translateQuest(&out)
	if err != nil {
		return nil, c.fail(ctx, call{op: "fetch quest"}, domain.NewAPIError(domain.KindGeneric, "Failed to fetch quest", 0, err))
	}

	return &q, nil
}

// FetchActiveQuests returns the user's in-progress runs. Failures are
// logged and yield an empty slice.
func (c *QuestClient) FetchActiveQuests(ctx context.Context, userID string) []domain.UserQuest {
	var out []userQuestDTO
	if err := c.do(ctx, call{
		op:       "fetch active quests",
		method:   http.MethodGet,
		endpoint: clients.UserActiveQuests,
		params:   []string{userID},
		fallback: "Failed to fetch active quests",
	}, &out); err != nil {
		logging.FromContext(ctx).Warn("error fetching active quests",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)

		return []domain.UserQuest{}
	}

	runs, err := TranslateSlice(out, translateUserQuest)
	if err != nil {
		logging.FromContext(ctx).Warn("error translating active quests", slog.Any("error", err))
		return []domain.UserQuest{}
	}

	return runs
}

// FetchQuestHistory returns finished runs, at most limit (default 50).
func (c *QuestClient) FetchQuestHistory(ctx context.Context, userID string, limit int) ([]domain.UserQuest, error) {
	const fallback = "Failed to fetch quest history"

	var out []userQuestDTO
	if err := c.do(ctx, call{
		op:       "fetch quest history",
		method:   http.MethodGet,
		endpoint: clients.UserQuestHistory,
		params:   []string{userID},
		query:    pageQuery(limit, 0, ports.DefaultHistoryLimit),
		fallback: fallback,
	}, &out); err != nil {
		return nil, err
	}

	runs, err := TranslateSlice(out, translateUserQuest)
	if err != nil {
		return nil, c.fail(ctx, call{op: "fetch quest history"}, domain.NewAPIError(domain.KindGeneric, fallback, 0, err))
	}

	return runs, nil
}

// Start begins questID for userID. It is never retried.
func (c *QuestClient) Start(ctx context.Context, userID, questID string) (*domain.UserQuest, error) {
	const fallback = "Failed to start quest"

	if questID == "" {
		return nil, domain.NewAPIError(domain.KindSetup, fallback, 0, clients.ErrMissingParam)
	}

	var out userQuestDTO
	if err := c.do(ctx, call{
		op:       "start quest",
		method:   http.MethodPost,
		endpoint: clients.StartQuest,
		params:   []string{userID},
		body:     startQuestRequest{QuestID: questID},
		fallback: fallback,
	}, &out); err != nil {
		return nil, err
	}

	uq, err := translateUserQuest(&out)
	if err != nil {
		return nil, c.fail(ctx, call{op: "start quest"}, domain.NewAPIError(domain.KindGeneric, fallback, 0, err))
	}

	return &uq, nil
}

// Complete finishes a run and returns what it awarded.
func (c *QuestClient) Complete(ctx context.Context, userID, userQuestID string) (*domain.QuestCompletion, error) {
	const (
		action   = "complete quest"
		fallback = "Failed to complete quest"
	)

	c.step(ctx, action, ports.StepRequesting, slog.String("user_id", userID), slog.String("user_quest_id", userQuestID))

	var out completionDTO
	if err := c.do(ctx, call{
		op:       action,
		method:   http.MethodPost,
		endpoint: clients.CompleteQuest,
		params:   []string{userID, userQuestID},
		fallback: fallback,
	}, &out); err != nil {
		c.step(ctx, action, ports.StepFailed, slog.Any("error", err))
		return nil, err
	}

	completion, err := translateCompletion(&out)
	if err != nil {
		c.step(ctx, action, ports.StepFailed, slog.Any("error", err))
		return nil, c.fail(ctx, call{op: action}, domain.NewAPIError(domain.KindGeneric, fallback, 0, err))
	}

	c.step(ctx, action, ports.StepReceived, slog.Bool("item_awarded", completion.AwardedItem != nil))

	return completion, nil
}

// Abandon gives up an active run.
func (c *QuestClient) Abandon(ctx context.Context, userID, userQuestID string) error {
	const action = "abandon quest"

	c.step(ctx, action, ports.StepRequesting, slog.String("user_id", userID), slog.String("user_quest_id", userQuestID))

	if err := c.do(ctx, call{
		op:       action,
		method:   http.MethodDelete,
		endpoint: clients.AbandonQuest,
		params:   []string{userID, userQuestID},
		fallback: "Failed to abandon quest",
	}, nil); err != nil {
		c.step(ctx, action, ports.StepFailed, slog.Any("error", err))
		return err
	}

	c.step(ctx, action, ports.StepReceived)

	return nil
}

// Chat asks the quest helper about an active run.
func (c *QuestClient) Chat(
	ctx context.Context,
	userID, userQuestID, message string,
	history []domain.ChatMessage,
) (string, error) {
	const fallback = "Failed to send chat message"

	if message == "" {
		return "", domain.NewAPIError(domain.KindSetup, fallback, 0, domain.NewValidationError("message", "is required"))
	}

	var out chatResponse
	if err := c.do(ctx, call{
		op:       "quest chat",
		method:   http.MethodPost,
		endpoint: clients.QuestChat,
		params:   []string{userID, userQuestID},
		body:     chatRequest{Message: message, ChatHistory: chatHistoryDTO(history)},
		fallback: fallback,
	}, &out); err != nil {
		return "", err
	}

	return out.Response, nil
}

// Create adds a quest to the catalogue.
func (c *QuestClient) Create(ctx context.Context, in domain.QuestInput) (*domain.Quest, error) {
	return c.write(ctx, call{
		op:       "create quest",
		method:   http.MethodPost,
		endpoint: clients.Quests,
		body:     questWriteFromInput(in),
		fallback: "Failed to create quest",
	})
}

// Update patches a quest.
func (c *QuestClient) Update(ctx context.Context, id string, patch domain.QuestPatch) (*domain.Quest, error) {
	return c.write(ctx, call{
		op:       "update quest",
		method:   http.MethodPatch,
		endpoint: clients.QuestByID,
		params:   []string{id},
		body:     questWriteFromPatch(patch),
		fallback: "Failed to update quest",
	})
}

// Delete removes a quest.
func (c *QuestClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{
		op:       "delete quest",
		method:   http.MethodDelete,
		endpoint: clients.QuestByID,
		params:   []string{id},
		fallback: "Failed to delete quest",
	}, nil)
}

// Check implements ports.HealthChecker.
func (c *QuestClient) Check(ctx context.Context) error {
	return c.check(ctx, clients.Quests)
}

func (c *QuestClient) write(ctx context.Context, cl call) (*domain.Quest, error) {
	var out questDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	q, err := translateQuest(&out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return &q, nil
}

func (c *QuestClient) translateQuests(ctx context.Context, out []questDTO) ([]domain.Quest, error) {
	quests, err := TranslateSlice(out, translateQuest)
	if err != nil {
		return nil, c.fail(ctx, call{op: "fetch quests"}, domain.NewAPIError(domain.KindGeneric, "Failed to fetch quests", 0, err))
	}

	return quests, nil
}

// step reports a progress event to the hook and the debug log.
func (c *QuestClient) step(ctx context.Context, action string, step ports.ProgressStep, attrs ...any) {
	logging.FromContext(ctx).Debug(action,
		append([]any{slog.String("step", string(step))}, attrs...)...,
	)

	if c.progress != nil {
		c.progress(ctx, action, step)
	}
}

