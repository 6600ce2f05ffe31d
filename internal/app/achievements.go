package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/format"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// RecentUnlockCount is how many recent unlocks the showcase lists.
const RecentUnlockCount = 5

// AchievementCard is one achievement tile.
type AchievementCard struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Topic       string `json:"topic,omitempty" yaml:"topic,omitempty"`
	ColorTier   int    `json:"color_tier" yaml:"color_tier"`
	Rare        bool   `json:"rare" yaml:"rare"`
	Unlocked    bool   `json:"unlocked" yaml:"unlocked"`
	UnlockedOn  string `json:"unlocked_on,omitempty" yaml:"unlocked_on,omitempty"`
	Active      bool   `json:"active" yaml:"active"`
}

// AchievementsView is the achievement showcase for one player.
type AchievementsView struct {
	UserID      string            `json:"user_id" yaml:"user_id"`
	ActiveTitle string            `json:"active_title,omitempty" yaml:"active_title,omitempty"`
	Unlocked    int               `json:"unlocked" yaml:"unlocked"`
	Total       int               `json:"total" yaml:"total"`
	Progress    string            `json:"progress" yaml:"progress"`
	Recent      []AchievementCard `json:"recent" yaml:"recent"`
	All         []AchievementCard `json:"all" yaml:"all"`
}

// AchievementService builds the showcase and changes the worn title.
type AchievementService struct {
	achievements ports.AchievementAPI
	exec         *Executor
	logger       *slog.Logger
}

// AchievementConfig holds the achievement service's dependencies.
type AchievementConfig struct {
	Achievements ports.AchievementAPI
	Logger       *slog.Logger
}

// NewAchievementService creates an AchievementService. It panics when the
// achievement service is missing.
func NewAchievementService(cfg AchievementConfig) *AchievementService {
	if cfg.Achievements == nil {
		panic("app: achievements require an achievement service")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.AchievementService"))

	return &AchievementService{
		achievements: cfg.Achievements,
		exec:         NewExecutor(logger),
		logger:       logger,
	}
}

// Showcase lists every achievement with the player's unlocks and worn
// title marked.
func (s *AchievementService) Showcase(ctx context.Context, userID string) (*AchievementsView, error) {
	all, unlocked, title, err := Parallel3(ctx,
		s.achievements.FetchAll,
		func(ctx context.Context) ([]domain.UserAchievement, error) {
			return s.achievements.FetchUserAchievements(ctx, userID)
		},
		func(ctx context.Context) (*domain.Achievement, error) {
			return s.achievements.FetchActiveTitle(ctx, userID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading achievements for %s: %w", userID, err)
	}

	unlockedOn := make(map[string]string, len(unlocked))
	for i := range unlocked {
		unlockedOn[unlocked[i].AchievementID] = unlocked[i].UnlockedAt.Format(dateLayout)
	}

	activeID := ""
	view := &AchievementsView{
		UserID:   userID,
		Unlocked: len(unlocked),
		Total:    len(all),
		Progress: format.Percentage(format.CalculatePercentage(float64(len(unlocked)), float64(len(all))), 0),
		All:      make([]AchievementCard, 0, len(all)),
	}

	if title != nil {
		activeID = title.ID
		view.ActiveTitle = title.Title
	}

	for i := range all {
		card := achievementCard(&all[i], activeID)
		card.UnlockedOn, card.Unlocked = unlockedOn[all[i].ID]
		view.All = append(view.All, card)
	}

	recent := domain.RecentUnlocks(unlocked, RecentUnlockCount)
	view.Recent = make([]AchievementCard, 0, len(recent))
	for i := range recent {
		card := AchievementCard{ID: recent[i].AchievementID}
		if recent[i].Achievement != nil {
			card = achievementCard(recent[i].Achievement, activeID)
		}

		card.Unlocked = true
		card.UnlockedOn = recent[i].UnlockedAt.Format(dateLayout)
		view.Recent = append(view.Recent, card)
	}

	logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "achievements view built",
		slog.String("user_id", userID),
		slog.Int("unlocked", view.Unlocked),
		slog.Int("total", view.Total),
	)

	return view, nil
}

// titleState is what the title rule was checked against.
type titleState struct {
	achievement *domain.Achievement
}

// SetActiveTitle wears achievementID as the player's title once they have
// unlocked it. An empty achievementID clears the title and yields nil.
func (s *AchievementService) SetActiveTitle(ctx context.Context, userID, achievementID string) (*domain.Achievement, error) {
	return Execute(ctx, s.exec, Action[titleState, string, *domain.Achievement]{
		Name: "set title",
		Validate: func(ctx context.Context) (titleState, error) {
			if achievementID == "" {
				return titleState{}, nil
			}

			all, unlocked, err := Parallel2(ctx,
				s.achievements.FetchAll,
				func(ctx context.Context) ([]domain.UserAchievement, error) {
					return s.achievements.FetchUserAchievements(ctx, userID)
				},
			)
			if err != nil {
				return titleState{}, err
			}

			var found *domain.Achievement
			for i := range all {
				if all[i].ID == achievementID {
					found = &all[i]
					break
				}
			}

			if found == nil {
				return titleState{}, domain.NewNotFoundError("achievement", achievementID)
			}

			return titleState{achievement: found}, domain.CanSetActiveTitle(achievementID, unlocked)
		},
		Perform: func(ctx context.Context, _ titleState) (string, error) {
			return s.achievements.SetActiveTitle(ctx, userID, achievementID)
		},
		Verify: func(_ context.Context, st titleState, stored string) (*domain.Achievement, error) {
			if stored != achievementID {
				return nil, fmt.Errorf("backend stored title %q, expected %q", stored, achievementID)
			}

			return st.achievement, nil
		},
	})
}

const dateLayout = "2006-01-02"

func achievementCard(a *domain.Achievement, activeID string) AchievementCard {
	return AchievementCard{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Type:        format.Capitalize(a.Type),
		Topic:       a.Topic,
		ColorTier:   a.ColorTier,
		Rare:        a.IsRare,
		Active:      a.ID == activeID && activeID != "",
	}
}
