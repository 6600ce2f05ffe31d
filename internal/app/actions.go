package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/platform/metrics"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// Quest action names, also used as metric labels.
const (
	ActionStartQuest    = "start"
	ActionCompleteQuest = "complete"
	ActionAbandonQuest  = "abandon"
)

// ActionService runs player actions with the game rules applied up front.
// It does not serialize concurrent actions; the backend is the authority.
type ActionService struct {
	quests ports.QuestAPI
	items  ports.ItemAPI
	users  ports.UserAPI
	exec   *Executor
	logger *slog.Logger
	now    func() time.Time
}

// ActionConfig holds the action service's dependencies.
type ActionConfig struct {
	Quests ports.QuestAPI
	Items  ports.ItemAPI
	Users  ports.UserAPI
	Logger *slog.Logger
	Now    func() time.Time
}

// NewActionService creates an ActionService. It panics when a service is
// missing.
func NewActionService(cfg ActionConfig) *ActionService {
	if cfg.Quests == nil || cfg.Items == nil || cfg.Users == nil {
		panic("app: actions require quest, item and user services")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger = logger.With(slog.String("component", "app.ActionService"))

	return &ActionService{
		quests: cfg.Quests,
		items:  cfg.Items,
		users:  cfg.Users,
		exec:   NewExecutor(logger),
		logger: logger,
		now:    now,
	}
}

// StartQuest begins questID for userID once the quest is known to exist,
// is not already running and the active cap leaves room.
func (s *ActionService) StartQuest(ctx context.Context, userID, questID string) (*domain.UserQuest, error) {
	uq, err := Execute(ctx, s.exec, Action[*domain.Quest, *domain.UserQuest, *domain.UserQuest]{
		Name: "start quest",
		Validate: func(ctx context.Context) (*domain.Quest, error) {
			if questID == "" {
				return nil, domain.NewValidationError("quest_id", "is required")
			}

			quest, active, err := Parallel2(ctx,
				func(ctx context.Context) (*domain.Quest, error) { return s.quests.FetchByID(ctx, questID) },
				func(ctx context.Context) ([]domain.UserQuest, error) {
					return s.quests.FetchActiveQuests(ctx, userID), nil
				},
			)
			if err != nil {
				return nil, err
			}

			return quest, domain.CanSelectQuest(questID, active)
		},
		Perform: func(ctx context.Context, _ *domain.Quest) (*domain.UserQuest, error) {
			return s.quests.Start(ctx, userID, questID)
		},
		Verify: func(_ context.Context, quest *domain.Quest, uq *domain.UserQuest) (*domain.UserQuest, error) {
			if uq.QuestID != "" && uq.QuestID != questID {
				return nil, fmt.Errorf("backend started quest %s, expected %s", uq.QuestID, questID)
			}

			if uq.Quest == nil {
				uq.Quest = quest
			}

			return uq, nil
		},
	})

	s.recordQuestAction(ActionStartQuest, err)

	return uq, err
}

// CompleteQuest finishes an active run that is still within its deadline.
func (s *ActionService) CompleteQuest(ctx context.Context, userID, userQuestID string) (*domain.QuestCompletion, error) {
	completion, err := Execute(ctx, s.exec, Action[*domain.UserQuest, *domain.QuestCompletion, *domain.QuestCompletion]{
		Name: "complete quest",
		Validate: func(ctx context.Context) (*domain.UserQuest, error) {
			uq, err := s.findActive(ctx, userID, userQuestID)
			if err != nil {
				return nil, err
			}

			return uq, domain.CanCompleteQuest(uq, s.now())
		},
		Perform: func(ctx context.Context, _ *domain.UserQuest) (*domain.QuestCompletion, error) {
			return s.quests.Complete(ctx, userID, userQuestID)
		},
		Verify: func(ctx context.Context, _ *domain.UserQuest, c *domain.QuestCompletion) (*domain.QuestCompletion, error) {
			if c.UserQuest.ID != userQuestID {
				return nil, fmt.Errorf("backend completed run %s, expected %s", c.UserQuest.ID, userQuestID)
			}

			if c.UserQuest.IsActive {
				return nil, fmt.Errorf("run %s is still active after completion", userQuestID)
			}

			logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quest completed",
				slog.String("user_quest_id", userQuestID),
				slog.Bool("item_awarded", c.AwardedItem != nil),
				slog.Int("achievements", len(c.AwardedAchievements)),
			)

			return c, nil
		},
	})

	s.recordQuestAction(ActionCompleteQuest, err)

	return completion, err
}

// AbandonQuest gives up an active run. Expired runs may be abandoned.
func (s *ActionService) AbandonQuest(ctx context.Context, userID, userQuestID string) error {
	_, err := Execute(ctx, s.exec, Action[*domain.UserQuest, struct{}, struct{}]{
		Name: "abandon quest",
		Validate: func(ctx context.Context) (*domain.UserQuest, error) {
			uq, err := s.findActive(ctx, userID, userQuestID)
			if err != nil {
				return nil, err
			}

			return uq, domain.CanAbandonQuest(uq)
		},
		Perform: func(ctx context.Context, _ *domain.UserQuest) (struct{}, error) {
			return struct{}{}, s.quests.Abandon(ctx, userID, userQuestID)
		},
	})

	s.recordQuestAction(ActionAbandonQuest, err)

	return err
}

// purchaseState is what the purchase rules were checked against.
type purchaseState struct {
	user *domain.User
	item *domain.Item
}

// PurchaseItem buys itemID for userID when the player does not own it yet
// and can afford it.
func (s *ActionService) PurchaseItem(ctx context.Context, userID, itemID string) (*domain.PurchaseResult, error) {
	return Execute(ctx, s.exec, Action[purchaseState, *domain.PurchaseResult, *domain.PurchaseResult]{
		Name: "purchase item",
		Validate: func(ctx context.Context) (purchaseState, error) {
			if itemID == "" {
				return purchaseState{}, domain.NewValidationError("item_id", "is required")
			}

			user, item, owned, err := Parallel3(ctx,
				func(ctx context.Context) (*domain.User, error) { return s.users.FetchByID(ctx, userID) },
				func(ctx context.Context) (*domain.Item, error) { return s.items.FetchByID(ctx, itemID) },
				func(ctx context.Context) ([]domain.UserItem, error) { return s.items.FetchUserItems(ctx, userID) },
			)
			if err != nil {
				return purchaseState{}, err
			}

			return purchaseState{user: user, item: item}, domain.CanPurchaseItem(item, user.TotalGlory, owned)
		},
		Perform: func(ctx context.Context, _ purchaseState) (*domain.PurchaseResult, error) {
			return s.items.Purchase(ctx, userID, itemID)
		},
		Verify: func(ctx context.Context, st purchaseState, r *domain.PurchaseResult) (*domain.PurchaseResult, error) {
			if r.UserItem.ItemID != "" && r.UserItem.ItemID != itemID {
				return nil, fmt.Errorf("backend granted item %s, expected %s", r.UserItem.ItemID, itemID)
			}

			// Another purchase may have landed in between; the backend's
			// balance wins.
			if expected := st.user.TotalGlory - r.ItemPrice; r.NewGlory != expected {
				logging.FromContextOr(ctx, s.logger).WarnContext(ctx, "glory balance drifted during purchase",
					slog.String("user_id", userID),
					slog.Int64("expected", expected),
					slog.Int64("actual", r.NewGlory),
				)
			}

			metrics.ItemsPurchasedTotal.WithLabelValues(strconv.Itoa(int(st.item.RarityTier))).Inc()
			metrics.GlorySpentTotal.Add(float64(r.ItemPrice))

			if r.UserItem.Item == nil {
				r.UserItem.Item = st.item
			}

			return r, nil
		},
	})
}

// findActive locates userQuestID among the user's active runs.
func (s *ActionService) findActive(ctx context.Context, userID, userQuestID string) (*domain.UserQuest, error) {
	if userQuestID == "" {
		return nil, domain.NewValidationError("user_quest_id", "is required")
	}

	active := s.quests.FetchActiveQuests(ctx, userID)
	for i := range active {
		if active[i].ID == userQuestID {
			return &active[i], nil
		}
	}

	return nil, domain.NewConflictError("quest", domain.ReasonQuestNotActive)
}

func (s *ActionService) recordQuestAction(action string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		if step, ok := FailedStep(err); ok && step == StepValidate {
			result = metrics.ResultRejected
		}
	}

	metrics.QuestActionsTotal.WithLabelValues(action, result).Inc()
}
