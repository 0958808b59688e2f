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

package types

// DefaultLimit is the page size used when Filters.Limit is zero.
const DefaultLimit = 20

// Filters describes a listing request: ordering, direction and the
// limit/offset window. The zero value lists the first DefaultLimit records
// in ascending identity order.
type Filters struct {
	// Search is free text for callers; the generic layer never reads it.
	Search string `json:"search,omitempty" yaml:"search"`
	// Order is a column name. Empty means the identity column.
	Order string `json:"order,omitempty" yaml:"order"`
	Desc  bool   `json:"desc,omitempty" yaml:"desc"`
	// Limit: 0 means DefaultLimit, negative means no limit.
	Limit int `json:"limit,omitempty" yaml:"limit"`
	Start int `json:"start,omitempty" yaml:"start"`
}

// EffectiveLimit resolves the limit policy. limited is false when the query
// must not carry a LIMIT clause at all.
func (f *Filters) EffectiveLimit() (n int, limited bool) {
	if f == nil || f.Limit == 0 {
		return DefaultLimit, true
	}
	if f.Limit < 0 {
		return 0, false
	}
	return f.Limit, true
}

// Offset returns Start, clamped to zero.
func (f *Filters) Offset() int {
	if f == nil || f.Start < 0 {
		return 0
	}
	return f.Start
}

func (f *Filters) Direction() Direction {
	if f != nil && f.Desc {
		return Desc
	}
	return Asc
}

// NewFilters constructs Filters ordered by field.
func NewFilters(order string, desc bool, limit int, start int) *Filters {
	return &Filters{Order: order, Desc: desc, Limit: limit, Start: start}
}

// AllFilters returns Filters that list every record.
func AllFilters() *Filters {
	return &Filters{Limit: -1}
}

// ListResult holds one page of records along with the total number of
// records matching the query regardless of limit and offset.
type ListResult[T any] struct {
	List  []*T `json:"list"`
	Count int  `json:"count"`
}

// NewListResult returns an empty result.
func NewListResult[T any]() *ListResult[T] {
	return &ListResult[T]{List: make([]*T, 0), Count: 0}
}
