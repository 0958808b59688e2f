// Package entity provides a generic service over the bun repository in
// package repository: filtered listing with a total count, identity lookups
// and existence-checked create, update and delete for any record type that
// carries an integer identity.
package entity
