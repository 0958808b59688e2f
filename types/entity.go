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

// Entity is implemented by every record type handled by the repository and
// service layers.
type Entity interface {
	EntityID() int64
}

// CoreEntity carries the auto-incremented identity column. Embed it in bun
// models:
//
//	type Note struct {
//		bun.BaseModel `bun:"table:notes,alias:notes"`
//		types.CoreEntity
//		Title string `bun:"title"`
//	}
type CoreEntity struct {
	ID int64 `bun:"id,pk,autoincrement" json:"id"`
}

func (c CoreEntity) EntityID() int64 { return c.ID }
