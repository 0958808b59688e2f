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
	"errors"
	"fmt"

	"github.com/tomoncle/entity"
	"github.com/tomoncle/entity/database"
	"github.com/tomoncle/entity/internal/notes"
)

const (
	ExitCodeSuccess  = 0
	ExitCodeGeneric  = 1
	ExitCodeUsage    = 2
	ExitCodeNotFound = 3
	ExitCodeConflict = 4
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitCodeUsage, Err: fmt.Errorf(format, args...)}
}

// mapCommandError attaches an exit code to errors coming out of the service.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	switch {
	case entity.IsNotFound(err):
		return &ExitError{Code: ExitCodeNotFound, Err: err}
	case errors.Is(err, notes.ErrEmptyTitle):
		return &ExitError{Code: ExitCodeUsage, Err: err}
	}
	if is, kind := database.IsSqlError(err); is {
		switch kind {
		case database.DuplicateKeyErr, database.NotNullViolationErr, database.CheckConstraintViolationErr:
			return &ExitError{Code: ExitCodeConflict, Err: fmt.Errorf("%s: %w", kind, err)}
		}
	}
	return &ExitError{Code: ExitCodeGeneric, Err: err}
}
