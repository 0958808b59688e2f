// Package database opens and owns the bun engine used by the repositories:
// connection configuration for MySQL, PostgreSQL and SQLite, pool tuning,
// table bootstrap for registered models, query hooks, health checks and
// driver error classification.
package database
