// Package repository provides a generic repository built on Bun: identity
// lookups, upserting saves, bulk deletes, and a filter-driven query builder
// with parameterized LIKE/equality predicates, ordering and pagination.
package repository
