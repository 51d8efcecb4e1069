/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"
)

// PresetName represents a named page preset for printing.
type PresetName string

const (
	PresetA4     PresetName = "a4"
	PresetA3     PresetName = "a3"
	PresetLetter PresetName = "letter"
)

// pagePreset is a landscape page in millimetres plus the gofpdf size name.
type pagePreset struct {
	size          string
	width, height float64
}

var presets = map[PresetName]pagePreset{
	PresetA4:     {"A4", 297, 210},
	PresetA3:     {"A3", 420, 297},
	PresetLetter: {"Letter", 279.4, 215.9},
}

// Presets lists the known page presets.
func Presets() []PresetName { return []PresetName{PresetA4, PresetA3, PresetLetter} }

// ParsePreset resolves a case-insensitive preset name; empty means A4.
func ParsePreset(s string) (PresetName, error) {
	name := PresetName(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return PresetA4, nil
	}
	if _, ok := presets[name]; !ok {
		return "", fmt.Errorf("unknown page preset %q", s)
	}
	return name, nil
}

func presetFor(name PresetName) (pagePreset, error) {
	n, err := ParsePreset(string(name))
	if err != nil {
		return pagePreset{}, err
	}
	return presets[n], nil
}
