package acl

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.UserAPI = (*UserClient)(nil)

// UserClient implements ports.UserAPI against the backend.
type UserClient struct {
	BaseAdapter
}

// NewUserClient creates a user adapter.
func NewUserClient(client *clients.Client) *UserClient {
	return &UserClient{BaseAdapter: NewBaseAdapter(client, "users")}
}

// FetchAll lists users.
func (c *UserClient) FetchAll(ctx context.Context, page domain.Page) ([]domain.User, error) {
	cl := call{
		op:       "fetch users",
		method:   http.MethodGet,
		endpoint: clients.Users,
		query:    pageQuery(page.Limit, page.Offset, ports.DefaultListLimit),
		fallback: "Failed to fetch users",
	}

	var out []userDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	users, err := TranslateSlice(out, translateUser)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return users, nil
}

// FetchByID returns one user.
func (c *UserClient) FetchByID(ctx context.Context, id string) (*domain.User, error) {
	return c.user(ctx, call{
		op:       "fetch user",
		method:   http.MethodGet,
		endpoint: clients.UserByID,
		params:   []string{id},
		fallback: "Failed to fetch user",
	})
}

// FetchByUsername looks a user up by name.
func (c *UserClient) FetchByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.user(ctx, call{
		op:       "fetch user by username",
		method:   http.MethodGet,
		endpoint: clients.UserByUsername,
		params:   []string{username},
		fallback: "Failed to fetch user",
	})
}

// Create registers a user.
func (c *UserClient) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	return c.user(ctx, call{
		op:       "create user",
		method:   http.MethodPost,
		endpoint: clients.Users,
		body:     userWriteDTO{Username: &in.Username, Email: &in.Email},
		fallback: "Failed to create user",
	})
}

// Update patches a user.
func (c *UserClient) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	return c.user(ctx, call{
		op:       "update user",
		method:   http.MethodPatch,
		endpoint: clients.UserByID,
		params:   []string{id},
		body:     userWriteDTO{Username: patch.Username, Email: patch.Email},
		fallback: "Failed to update user",
	})
}

// Delete removes a user.
func (c *UserClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{
		op:       "delete user",
		method:   http.MethodDelete,
		endpoint: clients.UserByID,
		params:   []string{id},
		fallback: "Failed to delete user",
	}, nil)
}

// Check implements ports.HealthChecker.
func (c *UserClient) Check(ctx context.Context) error {
	return c.check(ctx, clients.Users)
}

func (c *UserClient) user(ctx context.Context, cl call) (*domain.User, error) {
	var out userDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	u, err := translateUser(&out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return &u, nil
}
