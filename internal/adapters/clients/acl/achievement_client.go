package acl

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.AchievementAPI = (*AchievementClient)(nil)

// AchievementClient implements ports.AchievementAPI against the backend.
type AchievementClient struct {
	BaseAdapter
}

// NewAchievementClient creates an achievement adapter.
func NewAchievementClient(client *clients.Client) *AchievementClient {
	return &AchievementClient{BaseAdapter: NewBaseAdapter(client, "achievements")}
}

// FetchAll lists every achievement that can be unlocked.
func (c *AchievementClient) FetchAll(ctx context.Context) ([]domain.Achievement, error) {
	cl := call{
		op:       "fetch achievements",
		method:   http.MethodGet,
		endpoint: clients.Achievements,
		fallback: "Failed to fetch achievements",
	}

	var out []achievementDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	all, err := TranslateSlice(out, translateAchievement)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return all, nil
}

// FetchUserAchievements lists what the user has unlocked.
func (c *AchievementClient) FetchUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	cl := call{
		op:       "fetch user achievements",
		method:   http.MethodGet,
		endpoint: clients.UserAchievements,
		params:   []string{userID},
		fallback: "Failed to fetch user achievements",
	}

	var out []userAchievementDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	unlocked, err := TranslateSlice(out, translateUserAchievement)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return unlocked, nil
}

// FetchActiveTitle returns the worn title. The backend answers null when
// there is none.
func (c *AchievementClient) FetchActiveTitle(ctx context.Context, userID string) (*domain.Achievement, error) {
	cl := call{
		op:       "fetch active title",
		method:   http.MethodGet,
		endpoint: clients.ActiveTitle,
		params:   []string{userID},
		fallback: "Failed to fetch active title",
	}

	var out *achievementDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	if out == nil {
		return nil, nil
	}

	a, err := translateAchievement(out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return &a, nil
}

// SetActiveTitle wears achievementID as the title, or clears it when empty.
func (c *AchievementClient) SetActiveTitle(ctx context.Context, userID, achievementID string) (string, error) {
	req := activeTitleRequest{}
	if achievementID != "" {
		req.AchievementID = &achievementID
	}

	var out activeTitleResponse
	if err := c.do(ctx, call{
		op:       "set active title",
		method:   http.MethodPatch,
		endpoint: clients.ActiveTitle,
		params:   []string{userID},
		body:     req,
		fallback: "Failed to update active title",
	}, &out); err != nil {
		return "", err
	}

	return deref(out.ActiveTitleID), nil
}

// Check implements ports.HealthChecker.
func (c *AchievementClient) Check(ctx context.Context) error {
	return c.check(ctx, clients.Achievements)
}
