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
	"strings"
	"time"
)

const (
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// MemoryDSN selects an in-process SQLite database.
const MemoryDSN = ":memory:"

// ConnectionConfig describes how to connect to a database and tune its pool.
type ConnectionConfig struct {
	Type            string        `json:"type" yaml:"type" toml:"type" validate:"required,oneof=mysql postgres sqlite"`
	Host            string        `json:"host" yaml:"host" toml:"host" validate:"required_unless=Type sqlite"`
	Port            int           `json:"port" yaml:"port" toml:"port" validate:"gte=0,lte=65535"`
	Username        string        `json:"username" yaml:"username" toml:"username"`
	Password        string        `json:"password" yaml:"password" toml:"password"`
	DBName          string        `json:"dbname" yaml:"dbname" toml:"dbname" validate:"required"`
	SSLMode         string        `json:"sslmode" yaml:"sslmode" toml:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns" toml:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns" toml:"max_open_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" yaml:"conn_max_idle_time" toml:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `json:"connect_timeout" yaml:"connect_timeout" toml:"connect_timeout"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" toml:"write_timeout"`
	EnableQueryLog  bool          `json:"enable_query_log" yaml:"enable_query_log" toml:"enable_query_log"`
	ColorQueryLog   bool          `json:"color_query_log" yaml:"color_query_log" toml:"color_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time" yaml:"slow_query_time" toml:"slow_query_time"`
	Charset         string        `json:"charset" yaml:"charset" toml:"charset"` // MySQL:utf8mb4
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
// Without further changes it opens an in-memory SQLite database.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:            TypeSQLite,
		DBName:          MemoryDSN,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute * 30,
		ConnectTimeout:  time.Second * 10,
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		SlowQueryTime:   time.Second * 2,
		Charset:         "utf8mb4",
	}
}

// NormalizedType folds driver aliases onto TypeMySQL, TypePostgres or
// TypeSQLite. Unknown types are returned lower-cased.
func (c *ConnectionConfig) NormalizedType() string {
	t := strings.ToLower(strings.TrimSpace(c.Type))
	switch t {
	case "postgresql", "pg":
		return TypePostgres
	case "sqlite3":
		return TypeSQLite
	}
	return t
}

func (c *ConnectionConfig) IsMemory() bool {
	return c.NormalizedType() == TypeSQLite && (c.DBName == "" || c.DBName == MemoryDSN)
}
