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

// Package notes is a small record type served through the generic entity
// service. It backs the entityctl command.
package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/tomoncle/entity"
	"github.com/tomoncle/entity/database"
	"github.com/tomoncle/entity/repository"
	"github.com/tomoncle/entity/types"
	"github.com/uptrace/bun"
)

var ErrEmptyTitle = errors.New("note title must not be empty")

func init() {
	database.RegisterModel((*Note)(nil), 10)
}

type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`
	types.CoreEntity

	Title string                   `bun:"title,notnull" json:"title"`
	Body  string                   `bun:"body" json:"body,omitempty"`
	Tags  types.Dictionary[string] `bun:"tags,type:text" json:"tags,omitempty"`
}

// Input is what callers supply to create or replace a note.
type Input struct {
	Title string
	Body  string
	Tags  types.Dictionary[string]
}

type Service interface {
	entity.Service[Note, Input]

	// Search lists notes whose title matches the LIKE pattern in
	// filters.Search, paginated and ordered like List.
	Search(ctx context.Context, filters *types.Filters) (*types.ListResult[Note], error)

	// TitleEqual returns every note with exactly the given title.
	TitleEqual(ctx context.Context, title string) ([]*Note, error)
}

type noteService struct {
	entity.Service[Note, Input]
}

func NewService(db bun.IDB) Service {
	repo := repository.NewRepository[Note](db)
	prepare := func(_ context.Context, in Input) (*Note, error) {
		in.Title = strings.TrimSpace(in.Title)
		if in.Title == "" {
			return nil, ErrEmptyTitle
		}
		return repo.Create(in)
	}
	return &noteService{
		Service: entity.NewService[Note, Input](repo, entity.WithPrepare[Note, Input](prepare)),
	}
}

func (s *noteService) Search(ctx context.Context, filters *types.Filters) (*types.ListResult[Note], error) {
	qb := s.Repository().Filter(filters)
	if filters != nil && filters.Search != "" {
		qb.AndLike(qb.Alias()+".title", filters.Search)
	}
	list, count, err := qb.GetManyAndCount(ctx)
	if err != nil {
		return nil, err
	}
	return &types.ListResult[Note]{List: list, Count: count}, nil
}

func (s *noteService) TitleEqual(ctx context.Context, title string) ([]*Note, error) {
	return s.Repository().CreateQueryBuilder("").AndEqual("title", title).GetMany(ctx)
}
