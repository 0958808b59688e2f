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

package entity

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/entity/repository"
	"github.com/tomoncle/entity/types"
	"github.com/tomoncle/entity/utils"
)

// Service is the generic CRUD contract for a record type T created and
// updated from input models of type M.
type Service[T types.Entity, M any] interface {
	// List returns one page of records and the total matching count.
	List(ctx context.Context, filters *types.Filters) (*types.ListResult[T], error)

	// Count returns the number of records matching filters, ignoring limit
	// and offset.
	Count(ctx context.Context, filters *types.Filters) (int, error)

	// Get returns the record with the given identity or a *NotFoundError.
	Get(ctx context.Context, id int64) (*T, error)

	// Add prepares a record from model and persists it.
	Add(ctx context.Context, model M) (*T, error)

	// Update replaces the record with the given identity. Nothing is written
	// when the record does not exist.
	Update(ctx context.Context, id int64, model M) (*T, error)

	// Delete removes the record with the given identity and returns the id.
	Delete(ctx context.Context, id int64) (int64, error)

	// DeleteMultiple removes all given identities without checking that
	// they exist. It returns once the store has confirmed the delete.
	DeleteMultiple(ctx context.Context, ids []int64) error

	// SpliceEntity removes, in place, the first record of list whose identity
	// is id. The slice is left untouched when there is no such record.
	SpliceEntity(list *[]*T, id int64) error

	// FindIndex returns the position of the first record of list whose
	// identity is id.
	FindIndex(list []*T, id int64) (int, error)

	// Repository exposes the underlying repository for type-specific queries.
	Repository() repository.Repository[T]
}

// PrepareFunc turns an input model into a record ready to be saved.
type PrepareFunc[T types.Entity, M any] func(ctx context.Context, model M) (*T, error)

// Option configures a Service.
type Option[T types.Entity, M any] func(*baseServiceImpl[T, M])

// WithPrepare replaces the default model-to-record mapping.
func WithPrepare[T types.Entity, M any](fn PrepareFunc[T, M]) Option[T, M] {
	return func(s *baseServiceImpl[T, M]) {
		if fn != nil {
			s.prepare = fn
		}
	}
}

// WithLogger sets the logger used for mutation traces.
func WithLogger[T types.Entity, M any](logger logrus.FieldLogger) Option[T, M] {
	return func(s *baseServiceImpl[T, M]) {
		if logger != nil {
			s.log = logger
		}
	}
}

type baseServiceImpl[T types.Entity, M any] struct {
	repo    repository.Repository[T]
	prepare PrepareFunc[T, M]
	log     logrus.FieldLogger
}

// NewService returns a Service backed by repo. Without WithPrepare, models
// are mapped onto records by copying same-named fields.
func NewService[T types.Entity, M any](repo repository.Repository[T], opts ...Option[T, M]) Service[T, M] {
	s := &baseServiceImpl[T, M]{
		repo: repo,
		log:  utils.GetLogger("ENTITY").WithField("table", repo.TableName()),
	}
	s.prepare = func(_ context.Context, model M) (*T, error) {
		return s.repo.Create(model)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *baseServiceImpl[T, M]) Repository() repository.Repository[T] {
	return s.repo
}

func (s *baseServiceImpl[T, M]) List(ctx context.Context, filters *types.Filters) (*types.ListResult[T], error) {
	list, count, err := s.repo.Filter(filters).GetManyAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[T]{List: list, Count: count}, nil
}

func (s *baseServiceImpl[T, M]) Count(ctx context.Context, filters *types.Filters) (int, error) {
	return s.repo.Filter(filters).Count(ctx)
}

func (s *baseServiceImpl[T, M]) Get(ctx context.Context, id int64) (*T, error) {
	entity, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, NewNotFoundError(id)
	}
	return entity, nil
}

func (s *baseServiceImpl[T, M]) Add(ctx context.Context, model M) (*T, error) {
	entity, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		return nil, err
	}
	s.log.WithField("id", (*saved).EntityID()).Debug("entity added")
	return saved, nil
}

func (s *baseServiceImpl[T, M]) Update(ctx context.Context, id int64, model M) (*T, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entity, err := s.prepare(ctx, model)
	if err != nil {
		return nil, err
	}
	s.repo.AssignID(entity, id)
	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		return nil, err
	}
	s.log.WithField("id", id).Debug("entity updated")
	return saved, nil
}

func (s *baseServiceImpl[T, M]) Delete(ctx context.Context, id int64) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return 0, err
	}
	s.log.WithField("id", id).Debug("entity deleted")
	return id, nil
}

func (s *baseServiceImpl[T, M]) DeleteMultiple(ctx context.Context, ids []int64) error {
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return err
	}
	s.log.WithField("ids", len(ids)).Debug("entities deleted")
	return nil
}

func (s *baseServiceImpl[T, M]) SpliceEntity(list *[]*T, id int64) error {
	if list == nil {
		return NewNotFoundError(id)
	}
	index, err := s.FindIndex(*list, id)
	if err != nil {
		return err
	}
	*list = slices.Delete(*list, index, index+1)
	return nil
}

func (s *baseServiceImpl[T, M]) FindIndex(list []*T, id int64) (int, error) {
	for i, entity := range list {
		if entity != nil && (*entity).EntityID() == id {
			return i, nil
		}
	}
	return -1, NewNotFoundError(id)
}
