// Package postgres provides the PostgreSQL backend: the sqlstore.Dialect
// for PostgreSQL, connection setup through the pgx stdlib driver, and the
// embedded PostgreSQL migrations. The stores themselves live in
// internal/platform/sqlstore.
package postgres
