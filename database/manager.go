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
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

var ErrNotConnected = errors.New("database not connected")

const (
	defaultConnectTimeout = 30 * time.Second
	healthCheckTimeout    = 5 * time.Second
)

type openFunc func(cfg *ConnectionConfig) (*sql.DB, schema.Dialect, error)

var openers = map[string]openFunc{
	TypeMySQL:    openMySQL,
	TypePostgres: openPostgres,
	TypeSQLite:   openSQLite,
}

// SupportedTypes lists the database types a manager can connect to.
func SupportedTypes() []string {
	return []string{TypeMySQL, TypePostgres, TypeSQLite}
}

type defaultDatabaseManager struct {
	cfg    *ConnectionConfig
	mu     sync.RWMutex
	db     *bun.DB
	logger Logger
}

// NewDatabaseManager returns an AbstractDatabaseManager backed by Bun.
// If config is nil, DefaultConnectionConfig is used.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{cfg: config, logger: GetLogger()}
}

func (m *defaultDatabaseManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return nil
	}

	open, ok := openers[m.cfg.NormalizedType()]
	if !ok {
		return fmt.Errorf("unsupported database type: %s", m.cfg.Type)
	}
	if m.cfg.ConnectTimeout <= 0 {
		m.cfg.ConnectTimeout = defaultConnectTimeout
	}
	sqlDB, dialect, err := open(m.cfg)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	m.tunePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("database connection test failed: %w", err)
	}

	db := bun.NewDB(sqlDB, dialect)
	m.installHooks(db)
	db.RegisterModel(RegisteredModelInstances()...)
	m.db = db

	m.logger.Info("database connected", "type", m.cfg.NormalizedType(), "host", m.cfg.Host, "dbname", m.cfg.DBName)
	return nil
}

func (m *defaultDatabaseManager) installHooks(db *bun.DB) {
	if m.cfg.EnableQueryLog {
		if m.cfg.ColorQueryLog {
			db.AddQueryHook(NewQueryHook(WithQueryHookVerbose(true)))
		} else {
			db.AddQueryHook(bundebug.NewQueryHook(
				bundebug.WithVerbose(true),
				bundebug.FromEnv("BUNDEBUG"),
			))
		}
	}
	if m.cfg.SlowQueryTime > 0 {
		db.AddQueryHook(NewSlowQueryHook(m.cfg.SlowQueryTime, m.logger))
	}
}

func openMySQL(cfg *ConnectionConfig) (*sql.DB, schema.Dialect, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Timeout = cfg.ConnectTimeout
	mc.ReadTimeout = cfg.ReadTimeout
	mc.WriteTimeout = cfg.WriteTimeout
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	mc.Params = map[string]string{"charset": charset}

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, err
	}
	return sql.OpenDB(connector), mysqldialect.New(), nil
}

func postgresDSN(cfg *ConnectionConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func openPostgres(cfg *ConnectionConfig) (*sql.DB, schema.Dialect, error) {
	connector, err := pq.NewConnector(postgresDSN(cfg))
	if err != nil {
		return nil, nil, err
	}
	return sql.OpenDB(connector), pgdialect.New(), nil
}

func openSQLite(cfg *ConnectionConfig) (*sql.DB, schema.Dialect, error) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, sqliteDSN(cfg))
	if err != nil {
		return nil, nil, err
	}
	return sqlDB, sqlitedialect.New(), nil
}

// sqliteDSN maps DBName onto a SQLite data source. Bare names get the .db
// suffix; paths and file: URIs are used as they are.
func sqliteDSN(cfg *ConnectionConfig) string {
	name := cfg.DBName
	switch {
	case cfg.IsMemory():
		return MemoryDSN
	case strings.HasPrefix(name, "file:"),
		strings.HasSuffix(name, ".db"),
		strings.ContainsRune(name, os.PathSeparator):
		return name
	default:
		return name + ".db"
	}
}

func (m *defaultDatabaseManager) tunePool(sqlDB *sql.DB) {
	// a memory database lives exactly as long as its single connection
	if m.cfg.IsMemory() {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}
	sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.cfg.ConnMaxIdleTime)
}

func (m *defaultDatabaseManager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	if err != nil {
		m.logger.Error("failed to close database", "error", err)
		return err
	}
	m.logger.Info("database closed", "dbname", m.cfg.DBName)
	return nil
}

func (m *defaultDatabaseManager) Reconnect(ctx context.Context) error {
	if err := m.Disconnect(); err != nil {
		m.logger.Warn("closing stale connection failed", "error", err)
	}
	return m.Connect(ctx)
}

func (m *defaultDatabaseManager) Ping(ctx context.Context) error {
	db := m.GetDB()
	if db == nil {
		return ErrNotConnected
	}
	return db.PingContext(ctx)
}

func (m *defaultDatabaseManager) GetDB() *bun.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

func (m *defaultDatabaseManager) GetSQLDB() *sql.DB {
	db := m.GetDB()
	if db == nil {
		return nil
	}
	return db.DB
}

// CreateTables issues CREATE TABLE IF NOT EXISTS for each model, or for the
// registered models when none are given. Existing tables are left as they
// are.
func (m *defaultDatabaseManager) CreateTables(ctx context.Context, models ...interface{}) error {
	db := m.GetDB()
	if db == nil {
		return ErrNotConnected
	}
	if len(models) == 0 {
		models = RegisteredModelInstances()
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
		m.logger.Debug("table ensured", "model", fmt.Sprintf("%T", model))
	}
	return nil
}

func (m *defaultDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	db := m.GetDB()
	status := &HealthStatus{Type: m.cfg.NormalizedType(), CheckedAt: time.Now()}
	if db == nil {
		status.Error = ErrNotConnected.Error()
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	err := db.PingContext(pingCtx)
	status.ResponseTime = time.Since(status.CheckedAt)
	status.Connected = err == nil
	status.Healthy = err == nil
	if err != nil {
		status.Error = err.Error()
		m.logger.Warn("database health check failed", "error", err)
	}

	stats := db.Stats()
	status.Pool = PoolUsage{InUse: stats.InUse, Idle: stats.Idle, MaxOpen: stats.MaxOpenConnections}
	return status
}

func (m *defaultDatabaseManager) GetStats() *DBStats {
	stats := &DBStats{Type: m.cfg.NormalizedType()}
	if db := m.GetDB(); db != nil {
		stats.DBStats = db.Stats()
		stats.Connected = true
	}
	return stats
}

func (m *defaultDatabaseManager) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}
