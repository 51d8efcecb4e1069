/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schema

import (
	"fmt"
	"strings"
)

// Violation is one failed rule at a dotted path such as "channels.0.blockType".
// The document root is reported as "(root)".
type Violation struct {
	Path   string
	Reason string
}

func (v Violation) String() string { return v.Path + ": " + v.Reason }

// ValidationError reports that a document does not describe a valid canvas.
// Path and Reason mirror the first entry of Violations.
type ValidationError struct {
	Path       string
	Reason     string
	Violations []Violation
}

func newValidationError(vs []Violation) *ValidationError {
	return &ValidationError{Path: vs[0].Path, Reason: vs[0].Reason, Violations: vs}
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("schema mismatch at %s: %s", e.Path, e.Reason)
	if n := len(e.Violations) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Details lists every violation on its own line.
func (e *ValidationError) Details() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

// ParseError reports input that is not well-formed JSON.
type ParseError struct {
	Offset int64 // byte offset of the syntax error when known
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
