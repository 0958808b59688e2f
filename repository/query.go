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
)

// QueryBuilder is a fluent select builder for one record table. Predicates
// are always bound as parameters. A builder is single-use: once executed it
// must not be chained further.
type QueryBuilder[T any] struct {
	query *bun.SelectQuery
	alias string
	dest  []*T
}

func newQueryBuilder[T any](db bun.IDB, tableName string, alias string) *QueryBuilder[T] {
	b := &QueryBuilder[T]{alias: alias}
	b.query = db.NewSelect().Model(&b.dest)
	if alias != "" {
		b.query = b.query.
			ModelTableExpr("? AS ?", bun.Ident(tableName), bun.Ident(alias)).
			ColumnExpr("?.*", bun.Ident(alias))
	}
	return b
}

// Alias returns the alias the table is selected under, or "" when bun's
// model alias is used.
func (b *QueryBuilder[T]) Alias() string { return b.alias }

// AndLike adds `field LIKE value`. Wildcards in value are passed through.
func (b *QueryBuilder[T]) AndLike(field string, value string) *QueryBuilder[T] {
	b.query = b.query.Where("? LIKE ?", bun.Ident(field), value)
	return b
}

// AndEqual adds `field = value`.
func (b *QueryBuilder[T]) AndEqual(field string, value any) *QueryBuilder[T] {
	b.query = b.query.Where("? = ?", bun.Ident(field), value)
	return b
}

// Where adds a raw predicate with bun placeholders, ANDed with the others.
func (b *QueryBuilder[T]) Where(query string, args ...any) *QueryBuilder[T] {
	b.query = b.query.Where(query, args...)
	return b
}

// OrderBy appends an ORDER BY term.
func (b *QueryBuilder[T]) OrderBy(field string, direction types.Direction) *QueryBuilder[T] {
	if direction == types.Desc {
		b.query = b.query.OrderExpr("? DESC", bun.Ident(field))
	} else {
		b.query = b.query.OrderExpr("? ASC", bun.Ident(field))
	}
	return b
}

func (b *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	b.query = b.query.Offset(n)
	return b
}

// Limit caps the number of rows. A negative n removes the cap.
func (b *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	if n < 0 {
		n = 0
	}
	b.query = b.query.Limit(n)
	return b
}

// GetMany executes the query and returns the matching records.
func (b *QueryBuilder[T]) GetMany(ctx context.Context) ([]*T, error) {
	if err := b.query.Scan(ctx); err != nil {
		return nil, err
	}
	return b.result(), nil
}

// GetManyAndCount executes the query and a count over the same predicates
// without limit and offset.
func (b *QueryBuilder[T]) GetManyAndCount(ctx context.Context) ([]*T, int, error) {
	count, err := b.query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return b.result(), count, nil
}

// Count returns the number of records matching the predicates, ignoring
// limit and offset.
func (b *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	return b.query.Count(ctx)
}

// String renders the query with its arguments inlined. Diagnostics only.
func (b *QueryBuilder[T]) String() string {
	return b.query.String()
}

// Query exposes the underlying bun query for clauses not covered here.
func (b *QueryBuilder[T]) Query() *bun.SelectQuery {
	return b.query
}

func (b *QueryBuilder[T]) result() []*T {
	if b.dest == nil {
		return make([]*T, 0)
	}
	return b.dest
}
