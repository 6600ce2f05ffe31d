package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/platform/metrics"
)

// BaseAdapter holds what every backend adapter shares: the client, a
// service name for logs, metrics and health output, and the request and
// decode plumbing. Embed it in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the adapter's name.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Name implements ports.HealthChecker.
func (a *BaseAdapter) Name() string {
	return a.serviceName
}

// call describes one backend operation.
type call struct {
	op       string
	method   string
	endpoint clients.Endpoint
	params   []string
	query    url.Values
	body     any
	fallback string
}

// do runs c and decodes a 2xx JSON body into out; a nil out discards the
// body. Every failure comes back normalized with c.fallback.
func (a *BaseAdapter) do(ctx context.Context, c call, out any) error {
	logger := logging.FromContext(ctx).With(
		slog.String("service", a.serviceName),
		slog.String("operation", c.op),
	)

	path, err := clients.Path(c.endpoint, c.params...)
	if err != nil {
		return a.fail(ctx, c, domain.NewAPIError(domain.KindSetup, c.fallback, 0, err))
	}

	body, err := encodeBody(c.body)
	if err != nil {
		return a.fail(ctx, c, Normalize(&clients.SetupError{Op: "encoding request body", Err: err}, c.fallback))
	}

	resp, err := a.send(ctx, c.method, path, c.query, body)
	if err != nil {
		return a.fail(ctx, c, Normalize(err, c.fallback))
	}

	if err := DecodeResponse(resp.Body, out); err != nil {
		return a.fail(ctx, c, domain.NewAPIError(domain.KindGeneric, c.fallback, resp.StatusCode, err))
	}

	logger.Log(ctx, logging.LevelTrace, "decoded backend response", slog.Int("status", resp.StatusCode))

	return nil
}

func (a *BaseAdapter) send(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	switch method {
	case http.MethodGet:
		return a.client.Get(ctx, path, query)
	case http.MethodPost:
		return a.client.Post(ctx, path, body)
	case http.MethodPatch:
		return a.client.Patch(ctx, path, body)
	case http.MethodPut:
		return a.client.Put(ctx, path, body)
	case http.MethodDelete:
		return a.client.Delete(ctx, path)
	default:
		return nil, &clients.SetupError{Op: "dispatch", Err: fmt.Errorf("unsupported method %s", method)}
	}
}

// fail records err and hands it back.
func (a *BaseAdapter) fail(ctx context.Context, c call, err error) error {
	kind := string(domain.KindGeneric)
	if apiErr, ok := domain.AsAPIError(err); ok {
		kind = string(apiErr.Kind)
	}

	metrics.APIErrorsTotal.WithLabelValues(a.serviceName, c.op, kind).Inc()

	logging.FromContext(ctx).Debug("backend call failed",
		slog.String("service", a.serviceName),
		slog.String("operation", c.op),
		slog.String("kind", kind),
		slog.Any("error", err),
	)

	return err
}

// check issues a cheap read used by health checks.
func (a *BaseAdapter) check(ctx context.Context, endpoint clients.Endpoint) error {
	return a.do(ctx, call{
		op:       "health",
		method:   http.MethodGet,
		endpoint: endpoint,
		query:    url.Values{"limit": {"1"}},
		fallback: a.serviceName + " is unavailable",
	}, nil)
}

func encodeBody(v any) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(b), nil
}

// DecodeResponse decodes a JSON body into out and closes it. An empty body
// (such as a 204) leaves out untouched; a nil out drains the body.
func DecodeResponse(body io.ReadCloser, out any) error {
	if body == nil {
		return nil
	}
	defer func() { _ = body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	if err := json.NewDecoder(body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// errMalformedResponse marks a 2xx body that could not become a domain
// value. It is an upstream fault, never a caller validation error.
var errMalformedResponse = errors.New("malformed backend response")

func missingField(field string) error {
	return fmt.Errorf("%w: %s missing", errMalformedResponse, field)
}

// Translator converts a wire DTO into a domain value.
type Translator[External any, Domain any] func(ext *External) (Domain, error)

// TranslateSlice applies translate to every element, stopping at the first
// failure.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]D, error) {
	result := make([]D, 0, len(items))

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("translating item %d: %w", i, err)
		}

		result = append(result, translated)
	}

	return result, nil
}

// pageQuery renders limit and offset, substituting def for a zero limit.
func pageQuery(limit, offset, def int) url.Values {
	if limit <= 0 {
		limit = def
	}

	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	return q
}

// timestampLayouts are the shapes the backend emits. Timestamps without a
// zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp returns the zero time for empty or unparsable input.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	return time.Time{}
}

func parseOptionalTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}

	t := parseTimestamp(*s)
	if t.IsZero() {
		return nil
	}

	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
