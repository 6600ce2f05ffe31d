package acl

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var _ ports.ItemAPI = (*ItemClient)(nil)

// ItemClient implements ports.ItemAPI against the backend.
type ItemClient struct {
	BaseAdapter
}

// NewItemClient creates an item adapter.
func NewItemClient(client *clients.Client) *ItemClient {
	return &ItemClient{BaseAdapter: NewBaseAdapter(client, "items")}
}

// FetchAll lists catalogue items matching q.
func (c *ItemClient) FetchAll(ctx context.Context, q ports.ItemQuery) ([]domain.Item, error) {
	const fallback = "Failed to fetch items"

	query := pageQuery(q.Limit, q.Offset, ports.DefaultListLimit)
	if q.Tier != 0 {
		query.Set("tier", strconv.Itoa(int(q.Tier)))
	}

	if q.MinPrice > 0 {
		query.Set("min_price", strconv.FormatInt(q.MinPrice, 10))
	}

	if q.MaxPrice > 0 {
		query.Set("max_price", strconv.FormatInt(q.MaxPrice, 10))
	}

	cl := call{
		op:       "fetch items",
		method:   http.MethodGet,
		endpoint: clients.Items,
		query:    query,
		fallback: fallback,
	}

	var out []itemDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	items, err := TranslateSlice(out, translateItem)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, fallback, 0, err))
	}

	return items, nil
}

// FetchByID returns one item.
func (c *ItemClient) FetchByID(ctx context.Context, id string) (*domain.Item, error) {
	return c.item(ctx, call{
		op:       "fetch item",
		method:   http.MethodGet,
		endpoint: clients.ItemByID,
		params:   []string{id},
		fallback: "Failed to fetch item",
	})
}

// FetchUserItems lists what the user owns.
func (c *ItemClient) FetchUserItems(ctx context.Context, userID string) ([]domain.UserItem, error) {
	cl := call{
		op:       "fetch user items",
		method:   http.MethodGet,
		endpoint: clients.UserItems,
		params:   []string{userID},
		fallback: "Failed to fetch user items",
	}

	var out []userItemDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	owned, err := TranslateSlice(out, translateUserItem)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return owned, nil
}

// Purchase buys itemID for userID. The backend debits glory and reports the
// new balance. It is never retried.
func (c *ItemClient) Purchase(ctx context.Context, userID, itemID string) (*domain.PurchaseResult, error) {
	cl := call{
		op:       "purchase item",
		method:   http.MethodPost,
		endpoint: clients.PurchaseItem,
		params:   []string{userID, itemID},
		fallback: "Failed to purchase item",
	}

	var out purchaseDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	result, err := translatePurchase(&out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return result, nil
}

// SetFeatured pins or unpins an owned item on the user's profile.
func (c *ItemClient) SetFeatured(ctx context.Context, userID, userItemID string, featured bool) (*domain.UserItem, error) {
	cl := call{
		op:       "feature item",
		method:   http.MethodPatch,
		endpoint: clients.FeatureUserItem,
		params:   []string{userID, userItemID},
		body:     featureRequest{IsFeatured: featured},
		fallback: "Failed to update featured item",
	}

	var out userItemDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	ui, err := translateUserItem(&out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return &ui, nil
}

// Create adds an item to the catalogue.
func (c *ItemClient) Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	return c.item(ctx, call{
		op:       "create item",
		method:   http.MethodPost,
		endpoint: clients.Items,
		body:     itemWriteFromInput(in),
		fallback: "Failed to create item",
	})
}

// Update patches an item.
func (c *ItemClient) Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	return c.item(ctx, call{
		op:       "update item",
		method:   http.MethodPatch,
		endpoint: clients.ItemByID,
		params:   []string{id},
		body:     itemWriteFromPatch(patch),
		fallback: "Failed to update item",
	})
}

// Delete removes an item.
func (c *ItemClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{
		op:       "delete item",
		method:   http.MethodDelete,
		endpoint: clients.ItemByID,
		params:   []string{id},
		fallback: "Failed to delete item",
	}, nil)
}

// Check implements ports.HealthChecker.
func (c *ItemClient) Check(ctx context.Context) error {
	return c.check(ctx, clients.Items)
}

func (c *ItemClient) item(ctx context.Context, cl call) (*domain.Item, error) {
	var out itemDTO
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}

	item, err := translateItem(&out)
	if err != nil {
		return nil, c.fail(ctx, cl, domain.NewAPIError(domain.KindGeneric, cl.fallback, 0, err))
	}

	return &item, nil
}
