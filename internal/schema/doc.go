/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package schema validates untrusted canvas documents (imports, storage read-back)
// and turns them into domain.CanvasData.
//
// Structural checks come from the embedded JSON Schema (canvas.schema.json) and
// are evaluated with gojsonschema. Checks that JSON Schema cannot express across
// lists (an item filed under the wrong block, ids repeated in different blocks,
// whitespace-only text) run afterwards in Go.
//
// Absent blocks default to empty lists; keys outside the nine known blocks and
// unknown item fields are dropped.
package schema
