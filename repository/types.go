/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"

	"github.com/tomoncle/entity/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// CrudRepository defines identity-indexed persistence for a record type.
type CrudRepository[T types.Entity] interface {
	// FindOne returns the record with the given identity, or nil when
	// there is none.
	FindOne(ctx context.Context, id int64) (*T, error)

	// Create builds an unsaved record by copying same-named fields from model.
	Create(model any) (*T, error)

	// Save inserts a record with a zero identity and upserts on the primary
	// key otherwise. The returned record carries the stored identity.
	Save(ctx context.Context, entity *T) (*T, error)

	Delete(ctx context.Context, id int64) error

	// DeleteMany removes all given identities; unknown ids are ignored.
	DeleteMany(ctx context.Context, ids []int64) error
}

// QueryRepository builds select queries over the record table.
type QueryRepository[T types.Entity] interface {
	// CreateQueryBuilder returns a fresh builder selecting from the record
	// table under alias, or under bun's model alias when alias is empty.
	CreateQueryBuilder(alias string) *QueryBuilder[T]

	// Filter returns a builder ordered and paginated according to filters.
	Filter(filters *types.Filters) *QueryBuilder[T]
}

// Repository combines persistence and query building and exposes the table
// metadata the service layer relies on.
type Repository[T types.Entity] interface {
	CrudRepository[T]
	QueryRepository[T]

	// WithRunner returns the same repository bound to runner, typically a
	// bun.Tx or bun.Conn.
	WithRunner(runner bun.IDB) Repository[T]

	// AssignID sets the primary key of entity.
	AssignID(entity *T, id int64)

	TableName() string
	PKColumn() string
	Dialect() schema.Dialect
}
