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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersEffectiveLimit(t *testing.T) {
	cases := []struct {
		name        string
		filters     *Filters
		wantN       int
		wantLimited bool
	}{
		{"nil filters", nil, DefaultLimit, true},
		{"absent limit", &Filters{}, DefaultLimit, true},
		{"positive", &Filters{Limit: 5}, 5, true},
		{"positive above default", &Filters{Limit: 250}, 250, true},
		{"minus one", &Filters{Limit: -1}, 0, false},
		{"other negative", &Filters{Limit: -42}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, limited := tc.filters.EffectiveLimit()
			assert.Equal(t, tc.wantN, n)
			assert.Equal(t, tc.wantLimited, limited)
		})
	}
}

func TestFiltersOffsetAndDirection(t *testing.T) {
	var nilFilters *Filters
	assert.Equal(t, 0, nilFilters.Offset())
	assert.Equal(t, Asc, nilFilters.Direction())

	assert.Equal(t, 7, (&Filters{Start: 7}).Offset())
	assert.Equal(t, 0, (&Filters{Start: -3}).Offset())
	assert.Equal(t, Desc, (&Filters{Desc: true}).Direction())
	assert.Equal(t, -1, AllFilters().Limit)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "ASC", Asc.String())
	assert.Equal(t, "DESC", Desc.String())
	assert.Equal(t, "descending", Desc.Desc())
	assert.True(t, Desc.IsValid())
	assert.False(t, Direction(9).IsValid())
	assert.Equal(t, IllegalValue, Direction(9).Number())
	assert.Equal(t, IllegalName, Direction(9).Name())

	d, ok := ParseDirection("desc")
	assert.True(t, ok)
	assert.Equal(t, Desc, d)
	d, ok = ParseDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, Asc, d)
}

func TestCoreEntity(t *testing.T) {
	var e Entity = CoreEntity{ID: 12}
	assert.Equal(t, int64(12), e.EntityID())
}

func TestDictionaryValueScan(t *testing.T) {
	d := Dictionary[string]{"color": "red"}
	v, err := d.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"red"}`, v.(string))

	var out Dictionary[string]
	require.NoError(t, out.Scan([]byte(`{"color":"blue","size":"L"}`)))
	assert.Equal(t, "blue", out["color"])
	assert.ElementsMatch(t, []string{"color", "size"}, out.Keys())

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)

	var none Dictionary[int]
	v, err = none.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, out.Scan(42))
}
