/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model of the Business Model Canvas: nine fixed
// blocks, each holding an ordered list of short text items.

import (
	"encoding/json"
	"strings"
)

// BlockType tags one of the nine fixed canvas categories.
type BlockType string

const (
	KeyPartners           BlockType = "key-partners"
	KeyActivities         BlockType = "key-activities"
	ValuePropositions     BlockType = "value-propositions"
	CustomerRelationships BlockType = "customer-relationships"
	CustomerSegments      BlockType = "customer-segments"
	KeyResources          BlockType = "key-resources"
	Channels              BlockType = "channels"
	CostStructure         BlockType = "cost-structure"
	RevenueStreams        BlockType = "revenue-streams"
)

// blockOrder is the canonical key order used for encoding and iteration.
var blockOrder = [...]BlockType{
	KeyPartners,
	KeyActivities,
	ValuePropositions,
	CustomerRelationships,
	CustomerSegments,
	KeyResources,
	Channels,
	CostStructure,
	RevenueStreams,
}

var blockTitles = map[BlockType]string{
	KeyPartners:           "Key Partners",
	KeyActivities:         "Key Activities",
	ValuePropositions:     "Value Propositions",
	CustomerRelationships: "Customer Relationships",
	CustomerSegments:      "Customer Segments",
	KeyResources:          "Key Resources",
	Channels:              "Channels",
	CostStructure:         "Cost Structure",
	RevenueStreams:        "Revenue Streams",
}

// BlockTypes returns the nine block tags in canonical order.
func BlockTypes() []BlockType {
	out := make([]BlockType, len(blockOrder))
	copy(out, blockOrder[:])
	return out
}

// Valid reports whether b is one of the nine known tags.
func (b BlockType) Valid() bool {
	_, ok := blockTitles[b]
	return ok
}

// Title returns the display title of the block, or the raw tag if unknown.
func (b BlockType) Title() string {
	if t, ok := blockTitles[b]; ok {
		return t
	}
	return string(b)
}

// ParseBlockType accepts a tag in any letter case, with underscores or spaces in
// place of dashes ("Key Partners", "key_partners").
func ParseBlockType(s string) (BlockType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	b := BlockType(norm)
	return b, b.Valid()
}

// CanvasItem is a single user-entered entry. Items are never edited in place.
type CanvasItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	BlockType BlockType `json:"blockType"`
}

// CanvasData holds every block of the canvas. All nine lists are always encoded,
// empty lists as [] rather than null.
type CanvasData struct {
	KeyPartners           []CanvasItem `json:"key-partners"`
	KeyActivities         []CanvasItem `json:"key-activities"`
	ValuePropositions     []CanvasItem `json:"value-propositions"`
	CustomerRelationships []CanvasItem `json:"customer-relationships"`
	CustomerSegments      []CanvasItem `json:"customer-segments"`
	KeyResources          []CanvasItem `json:"key-resources"`
	Channels              []CanvasItem `json:"channels"`
	CostStructure         []CanvasItem `json:"cost-structure"`
	RevenueStreams        []CanvasItem `json:"revenue-streams"`
}

// EmptyCanvas returns a canvas with all nine lists present and empty.
func EmptyCanvas() CanvasData {
	var d CanvasData
	for _, b := range blockOrder {
		*d.list(b) = []CanvasItem{}
	}
	return d
}

func (d *CanvasData) list(b BlockType) *[]CanvasItem {
	switch b {
	case KeyPartners:
		return &d.KeyPartners
	case KeyActivities:
		return &d.KeyActivities
	case ValuePropositions:
		return &d.ValuePropositions
	case CustomerRelationships:
		return &d.CustomerRelationships
	case CustomerSegments:
		return &d.CustomerSegments
	case KeyResources:
		return &d.KeyResources
	case Channels:
		return &d.Channels
	case CostStructure:
		return &d.CostStructure
	case RevenueStreams:
		return &d.RevenueStreams
	}
	return nil
}

// Items returns the list stored under b (nil for an unknown tag). The returned
// slice aliases the canvas; use Clone before handing it to another owner.
func (d CanvasData) Items(b BlockType) []CanvasItem {
	if l := d.list(b); l != nil {
		return *l
	}
	return nil
}

// SetItems replaces the list under b. Unknown tags are ignored.
func (d *CanvasData) SetItems(b BlockType, items []CanvasItem) {
	if l := d.list(b); l != nil {
		if items == nil {
			items = []CanvasItem{}
		}
		*l = items
	}
}

// Len returns the total number of items across all blocks.
func (d CanvasData) Len() int {
	n := 0
	for _, b := range blockOrder {
		n += len(d.Items(b))
	}
	return n
}

// Find returns the item with the given id from whichever block holds it.
func (d CanvasData) Find(id string) (CanvasItem, bool) {
	for _, b := range blockOrder {
		for _, it := range d.Items(b) {
			if it.ID == id {
				return it, true
			}
		}
	}
	return CanvasItem{}, false
}

// Clone returns a deep copy with no shared backing arrays.
func (d CanvasData) Clone() CanvasData {
	out := EmptyCanvas()
	for _, b := range blockOrder {
		src := d.Items(b)
		if len(src) == 0 {
			continue
		}
		dst := make([]CanvasItem, len(src))
		copy(dst, src)
		out.SetItems(b, dst)
	}
	return out
}

// MarshalJSON encodes the nine keys in canonical order with nil lists as [].
func (d CanvasData) MarshalJSON() ([]byte, error) {
	type plain CanvasData
	n := d
	for _, b := range blockOrder {
		if *n.list(b) == nil {
			*n.list(b) = []CanvasItem{}
		}
	}
	return json.Marshal(plain(n))
}
