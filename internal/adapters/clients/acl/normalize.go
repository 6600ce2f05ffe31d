package acl

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/domain"
)

// Normalize turns a client failure into a *domain.APIError whose Detail is,
// in order of preference, the backend's "detail" field, the error's own
// message, or fallback.
//
// Errors that did not come from the HTTP client, including an existing
// *domain.APIError, are returned unchanged. A nil err yields a generic
// APIError carrying fallback.
func Normalize(err error, fallback string) error {
	if err == nil {
		return domain.NewAPIError(domain.KindGeneric, fallback, 0, nil)
	}

	if _, ok := domain.AsAPIError(err); ok {
		return err
	}

	var (
		respErr  *clients.ResponseError
		noResp   *clients.NoResponseError
		setupErr *clients.SetupError
	)

	switch {
	case errors.As(err, &respErr):
		detail := firstNonEmpty(detailFromBody(respErr.Body), respErr.Error(), fallback)
		return domain.NewAPIError(domain.KindServer, detail, respErr.StatusCode, err)

	case errors.As(err, &noResp):
		return domain.NewAPIError(domain.KindNetwork, firstNonEmpty(noResp.Error(), fallback), 0, err)

	case errors.As(err, &setupErr):
		return domain.NewAPIError(domain.KindSetup, firstNonEmpty(setupErr.Error(), fallback), 0, err)

	default:
		return err
	}
}

// validationEntry is one element of a 422 "detail" list.
type validationEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// detailFromBody extracts "detail" from an error body. A list of validation
// entries is joined by their messages.
func detailFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}

	var entries []validationEntry
	if err := json.Unmarshal(eb.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}

		return strings.Join(msgs, "; ")
	}

	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
