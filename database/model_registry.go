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

package database

import (
	"cmp"
	"slices"
	"sync"
)

var defaultRegistry = &modelRegistry{}

type registeredModel struct {
	instance interface{}
	priority int
}

// modelRegistry collects bun models for table bootstrap. Lower priorities
// come first; equal priorities keep registration order.
type modelRegistry struct {
	mu     sync.RWMutex
	models []registeredModel
}

func (r *modelRegistry) register(instance interface{}, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = append(r.models, registeredModel{instance: instance, priority: priority})
}

func (r *modelRegistry) instances() []interface{} {
	r.mu.RLock()
	sorted := slices.Clone(r.models)
	r.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b registeredModel) int {
		return cmp.Compare(a.priority, b.priority)
	})
	out := make([]interface{}, len(sorted))
	for i, m := range sorted {
		out[i] = m.instance
	}
	return out
}

// RegisterModel adds a bun model pointer, typically (*T)(nil), to the models
// that CreateTables bootstraps when called without arguments.
func RegisterModel(instance interface{}, priority int) {
	defaultRegistry.register(instance, priority)
}

// RegisteredModelInstances returns the registered models ordered by priority.
func RegisteredModelInstances() []interface{} {
	return defaultRegistry.instances()
}
