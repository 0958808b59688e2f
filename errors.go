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

package entity

import (
	"errors"
	"fmt"
)

// ErrEntityNotFound is the only error kind raised by the service layer.
var ErrEntityNotFound = errors.New("entity not found")

// NotFoundError reports the identity that was requested. It matches
// ErrEntityNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id=%d", ErrEntityNotFound, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrEntityNotFound }

// NewNotFoundError returns the not-found error for id.
func NewNotFoundError(id int64) error {
	return &NotFoundError{ID: id}
}

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
