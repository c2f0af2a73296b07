// Package store defines the persistence boundary of the journal: one
// owner-scoped collection per record kind plus the identity, profile and
// token stores. Implementations live under internal/platform and must
// translate driver errors into the sentinels defined here.
package store
