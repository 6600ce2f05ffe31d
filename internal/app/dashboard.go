package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/format"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// DashboardService assembles the home and profile views. Every call reads
// fresh state from the backend.
type DashboardService struct {
	quests ports.QuestAPI
	items  ports.ItemAPI
	users  ports.UserAPI
	logger *slog.Logger
	now    func() time.Time
}

// DashboardConfig holds the dashboard's dependencies.
type DashboardConfig struct {
	Quests ports.QuestAPI
	Items  ports.ItemAPI
	Users  ports.UserAPI
	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewDashboardService creates a DashboardService. It panics when a service
// is missing, since that is a wiring bug.
func NewDashboardService(cfg DashboardConfig) *DashboardService {
	if cfg.Quests == nil || cfg.Items == nil || cfg.Users == nil {
		panic("app: dashboard requires quest, item and user services")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &DashboardService{
		quests: cfg.Quests,
		items:  cfg.Items,
		users:  cfg.Users,
		logger: logger.With(slog.String("component", "app.DashboardService")),
		now:    now,
	}
}

// Home builds the landing page for userID. The user and their items are
// required; active quests degrade to an empty list.
func (s *DashboardService) Home(ctx context.Context, userID string) (*HomeView, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	user, active, owned, err := Parallel3(ctx,
		s.fetchUser(userID),
		s.fetchActive(userID),
		s.fetchOwned(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("loading home for %s: %w", userID, err)
	}

	now := s.now()
	cta := ChooseCallToAction(len(active))

	cards := make([]QuestCard, 0, len(active))
	for i := range active {
		cards = append(cards, questCard(&active[i], now))
	}

	view := &HomeView{
		User:         summarize(user, now),
		Glory:        format.Glory(user.TotalGlory),
		CallToAction: cta,
		LargeCTA:     cta.Large(),
		ActiveQuests: cards,
		TopItems:     itemCards(domain.TopItems(owned, TopItemCount)),
		Stats: []StatCard{
			statCard("active_quests", "Active Quests", int64(len(active))),
			statCard("items_owned", "Items Owned", int64(len(owned))),
			statCard("glory", "Glory", user.TotalGlory),
			statCard("days_active", "Days Active", int64(user.DaysActive(now))),
		},
		Level: levelView(user.TotalXP),
	}

	logger.DebugContext(ctx, "home view built",
		slog.String("user_id", userID),
		slog.Int("active_quests", len(active)),
		slog.String("cta", string(cta)),
	)

	return view, nil
}

// Profile builds the profile page for userID.
func (s *DashboardService) Profile(ctx context.Context, userID string) (*ProfileView, error) {
	user, history, owned, err := Parallel3(ctx,
		s.fetchUser(userID),
		func(ctx context.Context) ([]domain.UserQuest, error) {
			return s.quests.FetchQuestHistory(ctx, userID, ports.DefaultHistoryLimit)
		},
		s.fetchOwned(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("loading profile for %s: %w", userID, err)
	}

	now := s.now()

	var completed int64
	for i := range history {
		if history[i].Status() == domain.QuestCompleted {
			completed++
		}
	}

	byRarity := make(map[string]int)
	for tier, group := range domain.GroupItemsByTier(owned) {
		byRarity[tier.Name()] = len(group)
	}

	return &ProfileView{
		User:          summarize(user, now),
		Email:         user.Email,
		Glory:         format.Glory(user.TotalGlory),
		XP:            format.XP(user.TotalXP),
		LifetimeGlory: format.Glory(user.LifetimeGloryGained),
		Level:         levelView(user.TotalXP),
		Stats: []StatCard{
			statCard("quests_done", "Quests Done", completed),
			statCard("items_owned", "Items Owned", int64(len(owned))),
			statCard("total_xp", "Total XP", user.TotalXP),
			statCard("days_active", "Days Active", int64(user.DaysActive(now))),
		},
		Featured:        itemCards(domain.FeaturedItems(owned)),
		ItemsByRarity:   byRarity,
		CollectionValue: format.Glory(domain.TotalItemValue(owned)),
		AverageRarity:   strconv.FormatFloat(domain.AverageItemTier(owned), 'f', 1, 64),
	}, nil
}

func (s *DashboardService) fetchUser(userID string) func(context.Context) (*domain.User, error) {
	return func(ctx context.Context) (*domain.User, error) {
		return s.users.FetchByID(ctx, userID)
	}
}

// fetchActive adapts FetchActiveQuests, which never fails, to Parallel3.
func (s *DashboardService) fetchActive(userID string) func(context.Context) ([]domain.UserQuest, error) {
	return func(ctx context.Context) ([]domain.UserQuest, error) {
		return s.quests.FetchActiveQuests(ctx, userID), nil
	}
}

func (s *DashboardService) fetchOwned(userID string) func(context.Context) ([]domain.UserItem, error) {
	return func(ctx context.Context) ([]domain.UserItem, error) {
		return s.items.FetchUserItems(ctx, userID)
	}
}
