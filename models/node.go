package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Vec2 is a 2D position. It encodes as a two-element JSON array.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

func (v *Vec2) UnmarshalJSON(data []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("position must be [x, y]: %w", err)
	}
	v.X, v.Y = arr[0], arr[1]
	return nil
}

// Kind names a node archetype.
type Kind string

const (
	KindGain    Kind = "Gain"
	KindSave    Kind = "Save"
	KindBlocker Kind = "Blocker"
)

// NodeType is the archetype of a node. Level applies to Gain and Save,
// IsBlocked (the manual toggle) to Blocker.
type NodeType struct {
	Kind      Kind
	Level     uint32
	IsBlocked bool
}

func Gain(level uint32) NodeType      { return NodeType{Kind: KindGain, Level: level} }
func SaveNode(level uint32) NodeType  { return NodeType{Kind: KindSave, Level: level} }
func Blocker(isBlocked bool) NodeType { return NodeType{Kind: KindBlocker, IsBlocked: isBlocked} }

type levelBody struct {
	Level uint32 `json:"level"`
}

type blockerBody struct {
	IsBlocked bool `json:"is_blocked"`
}

// MarshalJSON writes the externally tagged form, e.g. {"Gain":{"level":2}}.
func (t NodeType) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindGain, KindSave:
		return json.Marshal(map[Kind]levelBody{t.Kind: {Level: t.Level}})
	case KindBlocker:
		return json.Marshal(map[Kind]blockerBody{t.Kind: {IsBlocked: t.IsBlocked}})
	}
	return nil, fmt.Errorf("unknown node kind %q", t.Kind)
}

func (t *NodeType) UnmarshalJSON(data []byte) error {
	var tagged map[Kind]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return errors.New("node_type must have exactly one variant")
	}
	for kind, body := range tagged {
		switch kind {
		case KindGain, KindSave:
			var b levelBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			*t = NodeType{Kind: kind, Level: b.Level}
		case KindBlocker:
			var b blockerBody
			if err := json.Unmarshal(body, &b); err != nil {
				return err
			}
			*t = Blocker(b.IsBlocked)
		default:
			return fmt.Errorf("unknown node kind %q", kind)
		}
	}
	return nil
}

// SavedNode is one node of a save. Edge lists are indices into Save.Nodes.
type SavedNode struct {
	Pos                  Vec2     `json:"pos"`
	NodeType             NodeType `json:"node_type"`
	TimerSecondsDuration float64  `json:"timer_seconds_duration"`
	TimerSecondsLeft     float64  `json:"timer_seconds_left"`
	ToBlock              []int    `json:"to_block"`
	Blockers             []int    `json:"blockers"`
}

// Save is a full game state snapshot.
type Save struct {
	ID                    string      `json:"id,omitempty"`
	SavedAt               int64       `json:"saved_at,omitempty"` // unix timestamp in ms
	LastTickTimeSince2023 float64     `json:"last_tick_time_since2023"`
	Currency              int64       `json:"currency"`
	Nodes                 []SavedNode `json:"nodes"`
}
