/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"bmcanvas/internal/domain"
)

//go:embed canvas.schema.json
var schemaDoc []byte

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// Document returns the JSON Schema every canvas document is checked against.
func Document() []byte {
	out := make([]byte, len(schemaDoc))
	copy(out, schemaDoc)
	return out
}

func canvasSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDoc))
		if compileErr != nil {
			compileErr = fmt.Errorf("compile canvas schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateBytes parses raw JSON and validates it. Malformed input yields a
// *ParseError, a well-formed but invalid document a *ValidationError.
func ValidateBytes(raw []byte) (domain.CanvasData, error) {
	doc, err := parse(raw)
	if err != nil {
		return domain.CanvasData{}, err
	}
	return validateDoc(doc)
}

// Validate checks an already decoded value, e.g. a map[string]any produced by
// encoding/json, and returns the canvas it describes.
func Validate(doc any) (domain.CanvasData, error) {
	// Round-trip through JSON so every accepted Go shape (structs, typed slices)
	// reaches the checks as plain maps and slices.
	raw, err := json.Marshal(doc)
	if err != nil {
		return domain.CanvasData{}, newValidationError([]Violation{{Path: "(root)", Reason: err.Error()}})
	}
	return ValidateBytes(raw)
}

func parse(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		pe := &ParseError{Err: err}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			pe.Offset = se.Offset
		}
		return nil, pe
	}
	// Trailing content after the first value is not a single JSON document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
	}
	return doc, nil
}

func validateDoc(doc any) (domain.CanvasData, error) {
	s, err := canvasSchema()
	if err != nil {
		return domain.CanvasData{}, err
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return domain.CanvasData{}, fmt.Errorf("run canvas schema: %w", err)
	}
	if !res.Valid() {
		vs := make([]Violation, 0, len(res.Errors()))
		for _, re := range res.Errors() {
			vs = append(vs, Violation{Path: re.Field(), Reason: re.Description()})
		}
		return domain.CanvasData{}, newValidationError(vs)
	}

	// The schema guarantees an object whose known keys hold arrays of items with
	// string id/text and an enumerated blockType.
	obj := doc.(map[string]any)
	out := domain.EmptyCanvas()
	seen := make(map[string]string)
	var vs []Violation
	for _, bt := range domain.BlockTypes() {
		raw, ok := obj[string(bt)]
		if !ok {
			continue
		}
		list := raw.([]any)
		items := make([]domain.CanvasItem, 0, len(list))
		for i, el := range list {
			m := el.(map[string]any)
			it := domain.CanvasItem{
				ID:        m["id"].(string),
				Text:      m["text"].(string),
				BlockType: domain.BlockType(m["blockType"].(string)),
			}
			at := string(bt) + "." + strconv.Itoa(i)
			if strings.TrimSpace(it.Text) == "" {
				vs = append(vs, Violation{Path: at + ".text", Reason: "Item text is required"})
			}
			if it.BlockType != bt {
				vs = append(vs, Violation{Path: at + ".blockType", Reason: fmt.Sprintf("item of block %q listed under %q", it.BlockType, bt)})
			}
			if prev, dup := seen[it.ID]; dup {
				vs = append(vs, Violation{Path: at + ".id", Reason: fmt.Sprintf("duplicate id %q (first seen at %s)", it.ID, prev)})
			} else {
				seen[it.ID] = at
			}
			items = append(items, it)
		}
		out.SetItems(bt, items)
	}
	if len(vs) > 0 {
		return domain.CanvasData{}, newValidationError(vs)
	}
	return out, nil
}
