package models

// EventType identifies what a tick emitted.
type EventType string

const (
	EventSpawnRequested   EventType = "SPAWN_REQUESTED"
	EventResetPropagation EventType = "RESET_PROPAGATION"
	EventNodeSpawned      EventType = "NODE_SPAWNED"
	EventNodeFinished     EventType = "NODE_FINISHED"
	EventSaveRequested    EventType = "SAVE_REQUESTED"
	EventBlockToggled     EventType = "BLOCK_TOGGLED"
)

// Event is emitted by the engine for collaborators (renderers, persistence).
type Event struct {
	Type     EventType `json:"type"`
	Node     int       `json:"node"`     // node the event is about
	Source   int       `json:"source"`   // spawning node, for NODE_SPAWNED
	Currency int64     `json:"currency"` // currency at emission
}

// NodeStatus is the read-only projection of one node.
type NodeStatus struct {
	Handle           int     `json:"handle"`
	Position         Vec2    `json:"position"`
	Kind             Kind    `json:"kind"`
	Level            uint32  `json:"level"`
	Finished         bool    `json:"finished"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	Progress         float64 `json:"progress"` // elapsed fraction in [0, 1]
	Blocked          bool    `json:"blocked"`
	SelfBlocked      bool    `json:"self_blocked"`
	InheritedBlocked bool    `json:"inherited_blocked"`
	ManualBlocked    bool    `json:"manual_blocked"`
	Ready            bool    `json:"ready"`
	Label            string  `json:"label"`
	ToBlock          []int   `json:"to_block"`
	Blockers         []int   `json:"blockers"`
}

// Snapshot is the status of every node plus the currency.
type Snapshot struct {
	Currency int64        `json:"currency"`
	Nodes    []NodeStatus `json:"nodes"`
}
