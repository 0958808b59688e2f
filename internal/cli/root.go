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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tomoncle/entity/config"
	"github.com/tomoncle/entity/database"
	"github.com/tomoncle/entity/internal/notes"
	"github.com/tomoncle/entity/utils"
)

type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type globalFlags struct {
	configPath string
	dbName     string
	dbType     string
	logLevel   string
	queryLog   bool
}

// runtime is filled by the root PersistentPreRunE and shared by the
// subcommands of one invocation.
type runtime struct {
	out     io.Writer
	flags   globalFlags
	manager database.AbstractDatabaseManager
	notes   notes.Service
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	rt := &runtime{out: out}

	cmd := &cobra.Command{
		Use:           "entityctl",
		Short:         "Manage notes through the generic entity service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipDB"] == "true" {
				return nil
			}
			return rt.open(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&rt.flags.configPath, "config", "c", "", "Path to a YAML or TOML config file")
	pf.StringVar(&rt.flags.dbType, "db-type", "", "Database type: sqlite, mysql or postgres")
	pf.StringVar(&rt.flags.dbName, "db", "", "Database name, or SQLite file path")
	pf.StringVar(&rt.flags.logLevel, "log-level", "", "Log level")
	pf.BoolVar(&rt.flags.queryLog, "query-log", false, "Print executed SQL")

	cmd.AddCommand(
		newVersionCommand(out, build),
		newInitCommand(rt),
		newListCommand(rt),
		newSearchCommand(rt),
		newGetCommand(rt),
		newAddCommand(rt),
		newUpdateCommand(rt),
		newDeleteCommand(rt),
		newDeleteManyCommand(rt),
	)
	return cmd
}

func (rt *runtime) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if rt.flags.configPath != "" {
		loaded, err := config.Load(rt.flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if rt.flags.dbType != "" {
		cfg.Database.Type = rt.flags.dbType
	}
	if rt.flags.dbName != "" {
		cfg.Database.DBName = rt.flags.dbName
	}
	if rt.flags.logLevel != "" {
		cfg.Logging.Level = rt.flags.logLevel
	}
	if rt.flags.queryLog {
		cfg.Database.EnableQueryLog = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageErrorf("%v", err)
	}
	return cfg, nil
}

func (rt *runtime) open(ctx context.Context) error {
	cfg, err := rt.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ApplyLogging(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	db, manager, err := database.Open(ctx, &cfg.Database)
	if err != nil {
		return mapCommandError(err)
	}
	rt.manager = manager
	// memory databases start empty on every run
	if cfg.Database.IsMemory() {
		if err := manager.CreateTables(ctx); err != nil {
			_ = rt.close()
			return mapCommandError(err)
		}
	}
	rt.notes = notes.NewService(db)
	utils.GetLogger("ENTITYCTL").WithField("db", cfg.Database.DBName).Debug("database opened")
	return nil
}

func (rt *runtime) close() error {
	if rt.manager == nil {
		return nil
	}
	err := rt.manager.Disconnect()
	rt.manager = nil
	return err
}

// run wraps a subcommand body: the connection opened by the root command is
// closed afterwards whatever the outcome.
func (rt *runtime) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := rt.close(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return mapCommandError(fn(ctx, cmd, args))
	}
}

func (rt *runtime) writeJSON(v any) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print build version information",
		Annotations: map[string]string{"skipDB": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s\n", build.Version, build.Commit)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
