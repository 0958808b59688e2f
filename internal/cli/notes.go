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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tomoncle/entity/internal/notes"
	"github.com/tomoncle/entity/types"
)

type idResult struct {
	ID int64 `json:"id"`
}

type idsResult struct {
	IDs []int64 `json:"ids"`
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid id %q", s)
	}
	return id, nil
}

func parseTags(raw []string) (types.Dictionary[string], error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tags := make(types.Dictionary[string], len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, usageErrorf("invalid tag %q, want key=value", kv)
		}
		tags[strings.TrimSpace(k)] = v
	}
	return tags, nil
}

func addFilterFlags(cmd *cobra.Command, f *types.Filters) {
	cmd.Flags().StringVar(&f.Order, "order", "", "Column to order by (default id)")
	cmd.Flags().BoolVar(&f.Desc, "desc", false, "Order descending")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "Page size; 0 means 20, negative means all")
	cmd.Flags().IntVar(&f.Start, "start", 0, "Number of records to skip")
}

func newInitCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the notes table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			if err := rt.manager.CreateTables(ctx, (*notes.Note)(nil)); err != nil {
				return err
			}
			_, err := fmt.Fprintln(rt.out, "ok")
			return err
		}),
	}
}

func newListCommand(rt *runtime) *cobra.Command {
	var filters types.Filters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			res, err := rt.notes.List(ctx, &filters)
			if err != nil {
				return err
			}
			return rt.writeJSON(res)
		}),
	}
	addFilterFlags(cmd, &filters)
	return cmd
}

func newSearchCommand(rt *runtime) *cobra.Command {
	var (
		filters types.Filters
		exact   bool
	)
	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Find notes by title; the pattern uses LIKE wildcards unless --exact",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if exact {
				found, err := rt.notes.TitleEqual(ctx, args[0])
				if err != nil {
					return err
				}
				return rt.writeJSON(&types.ListResult[notes.Note]{List: found, Count: len(found)})
			}
			filters.Search = args[0]
			res, err := rt.notes.Search(ctx, &filters)
			if err != nil {
				return err
			}
			return rt.writeJSON(res)
		}),
	}
	addFilterFlags(cmd, &filters)
	cmd.Flags().BoolVar(&exact, "exact", false, "Match the title exactly")
	return cmd
}

func newGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := rt.notes.Get(ctx, id)
			if err != nil {
				return err
			}
			return rt.writeJSON(note)
		}),
	}
}

func newAddCommand(rt *runtime) *cobra.Command {
	var (
		title string
		body  string
		tags  []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, _ []string) error {
			dict, err := parseTags(tags)
			if err != nil {
				return err
			}
			note, err := rt.notes.Add(ctx, notes.Input{Title: title, Body: body, Tags: dict})
			if err != nil {
				return err
			}
			return rt.writeJSON(note)
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&body, "body", "", "Note body")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag as key=value, repeatable")
	return cmd
}

func newUpdateCommand(rt *runtime) *cobra.Command {
	var (
		title string
		body  string
		tags  []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a note",
		Args:  cobra.ExactArgs(1),
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dict, err := parseTags(tags)
			if err != nil {
				return err
			}
			note, err := rt.notes.Update(ctx, id, notes.Input{Title: title, Body: body, Tags: dict})
			if err != nil {
				return err
			}
			return rt.writeJSON(note)
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&body, "body", "", "Note body")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag as key=value, repeatable")
	return cmd
}

func newDeleteCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one note",
		Args:    cobra.ExactArgs(1),
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deleted, err := rt.notes.Delete(ctx, id)
			if err != nil {
				return err
			}
			return rt.writeJSON(idResult{ID: deleted})
		}),
	}
}

func newDeleteManyCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-many <id>...",
		Short: "Delete several notes without checking that they exist",
		Args:  cobra.MinimumNArgs(1),
		RunE: rt.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if err := rt.notes.DeleteMultiple(ctx, ids); err != nil {
				return err
			}
			return rt.writeJSON(idsResult{IDs: ids})
		}),
	}
}
