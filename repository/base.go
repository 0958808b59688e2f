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
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/jinzhu/copier"
	"github.com/tomoncle/entity/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T types.Entity] struct {
	db    bun.IDB
	table *schema.Table
	pk    *schema.Field
}

// NewRepository returns a generic repository for T backed by db. It panics
// when T is not a bun model with exactly one primary key column.
func NewRepository[T types.Entity](db bun.IDB) Repository[T] {
	table := db.Dialect().Tables().Get(reflect.TypeFor[T]())
	if len(table.PKs) != 1 {
		panic(fmt.Sprintf("repository: model %s must have exactly one primary key, got %d",
			table.TypeName, len(table.PKs)))
	}
	return &baseRepositoryImpl[T]{db: db, table: table, pk: table.PKs[0]}
}

func (r *baseRepositoryImpl[T]) WithRunner(runner bun.IDB) Repository[T] {
	return &baseRepositoryImpl[T]{db: runner, table: r.table, pk: r.pk}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) TableName() string { return r.table.Name }

func (r *baseRepositoryImpl[T]) PKColumn() string { return r.pk.Name }

func (r *baseRepositoryImpl[T]) CreateQueryBuilder(alias string) *QueryBuilder[T] {
	return newQueryBuilder[T](r.db, r.table.Name, alias)
}

func (r *baseRepositoryImpl[T]) Filter(filters *types.Filters) *QueryBuilder[T] {
	alias := r.table.Name
	order := r.pk.Name
	if filters != nil && filters.Order != "" {
		order = filters.Order
	}
	offset := filters.Offset()
	query := r.CreateQueryBuilder(alias).
		OrderBy(alias+"."+order, filters.Direction()).
		Offset(offset)
	if limit, limited := filters.EffectiveLimit(); limited {
		query.Limit(limit)
	} else if offset > 0 && needsLimitForOffset(r.db.Dialect().Name()) {
		query.Limit(unboundedLimit)
	}
	return query
}

// unboundedLimit stands in for "no limit" where the grammar only accepts
// OFFSET after a LIMIT. bun drops non-positive limits from the SQL.
const unboundedLimit = math.MaxInt

func needsLimitForOffset(name dialect.Name) bool {
	return name == dialect.SQLite || name == dialect.MySQL
}

func (r *baseRepositoryImpl[T]) FindOne(ctx context.Context, id int64) (*T, error) {
	entity := new(T)
	err := r.db.NewSelect().
		Model(entity).
		Where("?TableAlias.? = ?", bun.Ident(r.pk.Name), id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Create(model any) (*T, error) {
	entity := new(T)
	if model == nil {
		return entity, nil
	}
	if err := copier.Copy(entity, model); err != nil {
		return nil, fmt.Errorf("failed to map model onto %s: %w", r.table.TypeName, err)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, fmt.Errorf("entity cannot be nil")
	}
	if (*entity).EntityID() == 0 {
		if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
			return nil, err
		}
		return entity, nil
	}
	if err := r.upsert(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(r.pk.Name), id).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.NewDelete().
		Model((*T)(nil)).
		Where("? IN (?)", bun.Ident(r.pk.Name), bun.In(ids)).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) AssignID(entity *T, id int64) {
	if entity == nil {
		return
	}
	v := reflect.ValueOf(entity).Elem().FieldByIndex(r.pk.Index)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(id))
	default:
		panic(fmt.Sprintf("repository: primary key %s.%s is not an integer", r.table.TypeName, r.pk.GoName))
	}
}

func (r *baseRepositoryImpl[T]) dataColumns() []string {
	columns := make([]string, 0, len(r.table.DataFields))
	for _, field := range r.table.DataFields {
		columns = append(columns, field.Name)
	}
	return columns
}

func (r *baseRepositoryImpl[T]) upsert(ctx context.Context, entity *T) error {
	features := r.db.Dialect().Features()
	columns := r.dataColumns()
	switch {
	case features.Has(feature.InsertOnConflict):
		return r.upsertWithPostgresqlOrSQLite(ctx, entity, columns)
	case features.Has(feature.InsertOnDuplicateKey):
		return r.upsertWithMySQL(ctx, entity, columns)
	default:
		// Fallback: Separate insert/update logic
		return r.upsertFallback(ctx, entity)
	}
}

func (r *baseRepositoryImpl[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, entity *T, columns []string) error {
	query := r.db.NewInsert().Model(entity)
	if len(columns) == 0 {
		_, err := query.On("CONFLICT (?) DO NOTHING", bun.Ident(r.pk.Name)).Exec(ctx)
		return err
	}
	query = query.On("CONFLICT (?) DO UPDATE", bun.Ident(r.pk.Name))
	for _, column := range columns {
		query = query.Set("? = EXCLUDED.?", bun.Ident(column), bun.Ident(column))
	}
	_, err := query.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertWithMySQL(ctx context.Context, entity *T, columns []string) error {
	query := r.db.NewInsert().Model(entity)
	if len(columns) == 0 {
		_, err := query.Ignore().Exec(ctx)
		return err
	}
	query = query.On("DUPLICATE KEY UPDATE")
	for _, column := range columns {
		query = query.Set("? = VALUES(?)", bun.Ident(column), bun.Ident(column))
	}
	_, err := query.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entity *T) error {
	_, err := r.db.NewInsert().Model(entity).Exec(ctx)
	if err != nil {
		_, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if updateErr != nil {
			return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
		}
	}
	return nil
}
