package acl

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.AuthAPI = (*AuthClient)(nil)

// AuthClient implements ports.AuthAPI against the backend.
type AuthClient struct {
	BaseAdapter
}

// NewAuthClient creates an auth adapter.
func NewAuthClient(client *clients.Client) *AuthClient {
	return &AuthClient{BaseAdapter: NewBaseAdapter(client, "auth")}
}

// Login resolves the user registered under email.
func (c *AuthClient) Login(ctx context.Context, email string) (*domain.User, error) {
	const fallback = "Failed to log in"

	if email == "" {
		return nil, domain.NewAPIError(domain.KindSetup, fallback, 0, domain.NewValidationError("email", "is required"))
	}

	return c.user(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		endpoint: clients.Login,
		body:     loginRequest{Email: email},
		fallback: fallback,
	})
}

// Signup registers a user and returns it.
func (c *AuthClient) Signup(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	const fallback = "Failed to sign up"

	switch {
	case in.Email == "":
		return nil, domain.NewAPIError(domain.KindSetup, fallback, 0, domain.NewValidationError("email", "is required"))
	case in.Username == "":
		return nil, domain.NewAPIError(domain.KindSetup, fallback, 0, domain.NewValidationError("username", "is required"))
	}

	return c.user(ctx, call{
		op:       "signup",
		method:   http.MethodPost,
		endpoint: clients.Signup,
		body:     signupRequest{Email: in.Email, Username: in.Username},
		fallback: fallback,
	})
}

func (c *AuthClient) user(ctx context.Context, cl call) (*domain.User, error) {
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
