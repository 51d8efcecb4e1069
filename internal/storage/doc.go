/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists the canvas.
// A BlobStore is a small local key-value store (one file per key, an embedded SQLite database, or memory).
// Store layers the canvas contract on top of it: a single fixed key holding the JSON-encoded canvas,
// schema validation on every read, JSON export and import.
// Load, Save and Clear never report failures to callers; they log and fall back.
package storage
