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
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager owns one bun engine: it opens and closes the
// connection, bootstraps tables and reports health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	CreateTables(ctx context.Context, models ...interface{}) error
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus is the outcome of one HealthCheck call.
type HealthStatus struct {
	Type         string        `json:"type"`
	Healthy      bool          `json:"healthy"`
	Connected    bool          `json:"connected"`
	ResponseTime time.Duration `json:"response_time"`
	Pool         PoolUsage     `json:"pool"`
	Error        string        `json:"error,omitempty"`
	CheckedAt    time.Time     `json:"checked_at"`
}

type PoolUsage struct {
	InUse   int `json:"in_use"`
	Idle    int `json:"idle"`
	MaxOpen int `json:"max_open"`
}

// DBStats is the pool snapshot returned by GetStats. It is zero while the
// manager is disconnected.
type DBStats struct {
	sql.DBStats
	Type      string `json:"type"`
	Connected bool   `json:"connected"`
}
