// Package service contains the journal's use cases. It orchestrates the
// domain types, the quota policy and the persistence interfaces of
// internal/store to fulfill each operation the API exposes.
//
// Key components:
//
//   - Lifecycle and StatusLifecycle: one generic list/create/update-status
//     manager instantiated for sessions, techniques and goals
//   - ProfileService: profile bootstrap, self-service edits and the
//     per-request Actor
//   - AccountService: registration, sign-in, token refresh, sign-out and
//     password resets
//   - SubscriptionService: plan details and the checkout hand-off
//
// Every operation receives the acting user explicitly as an Actor. Services
// depend on store interfaces, never on a concrete database.
package service
