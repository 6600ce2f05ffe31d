// Package acl is the anti-corruption layer between the quest backend's REST
// API and the domain.
//
// The backend speaks snake_case JSON with its own timestamp formats and
// error bodies. Adapters in this package keep those wire types unexported,
// translate them into domain types, and funnel every failure through
// [Normalize] so callers see a single error shape: *[domain.APIError].
//
// Errors map onto domain sentinels as follows:
//   - 404 -> [domain.ErrNotFound]
//   - 409 -> [domain.ErrConflict]
//   - 400/422 -> [domain.ErrValidation]
//   - 401/403 -> [domain.ErrForbidden]
//   - 429, 5xx, no response, open circuit -> [domain.ErrUnavailable]
//
// [QuestClient], [ItemClient] and [UserClient] implement the ports
// interfaces and [ports.HealthChecker].
package acl
