package dialog

import "context"

// QA is one collected questionnaire entry. Answer stays empty until the
// next inbound message arrives.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// State is the resumable cursor of one conversation thread. Node is the
// registry name of the node that owns the conversation; empty means the
// root node. Step is the index of the next step to run within that node.
//
// Questionnaire is scratch space owned by a questionnaire node and is
// cleared when that node completes. Departure and Arrival hold resolved
// IATA-style codes and are scoped to the thread, never shared between
// conversations.
type State struct {
	Node          string `json:"node,omitempty"`
	Step          int    `json:"step"`
	Questionnaire []QA   `json:"questionnaire,omitempty"`
	Departure     string `json:"departure,omitempty"`
	Arrival       string `json:"arrival,omitempty"`
}

// Store persists conversation state keyed by thread id. Implementations
// must be read-after-write consistent: a Save followed by a Get from the
// same goroutine observes the saved state.
type Store interface {
	Get(ctx context.Context, threadID string) (State, bool, error)
	Save(ctx context.Context, threadID string, st State) error
}
