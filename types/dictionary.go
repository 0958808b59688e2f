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
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Dictionary is a string-keyed map stored as a JSON column.
type Dictionary[V any] map[string]V

// Value implements driver.Valuer.
func (d Dictionary[V]) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL scans to an empty dictionary.
func (d *Dictionary[V]) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*d = make(Dictionary[V])
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("dictionary: unsupported column type %T", value)
	}
	if len(raw) == 0 {
		*d = make(Dictionary[V])
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Keys returns the dictionary keys in no particular order.
func (d Dictionary[V]) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}
