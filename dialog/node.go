package dialog

import (
	"context"
	"errors"
	"fmt"
)

// maxJumpHops bounds synchronous re-dispatch of one event. A well-formed
// flow resolves in a handful of hops; hitting the cap means two nodes
// keep handing the event to each other.
const maxJumpHops = 10

// ErrFlowMisconfigured is returned when dispatching a single event
// exceeds maxJumpHops node transitions.
var ErrFlowMisconfigured = errors.New("dialog: jump limit exceeded, flow is misconfigured")

// Step handles one inbound event at one position in a node's sequence.
// Returning jump=true means the step wrote a new node/step position into
// the state and the same event must be re-dispatched there before the
// normal step advance happens.
type Step func(ctx context.Context, ev Event, st *State, env *Env) (jump bool, err error)

// Node is a configured unit of dialog behavior. The step slice is fixed
// at construction and never mutated.
type Node interface {
	Name() string
	Steps() []Step
}

// Engine owns the node registry, the conversation store and the shared
// step environment. Dispatch for a given thread must be serialized by the
// caller; the engine itself holds no locks.
type Engine struct {
	root  Node
	nodes map[string]Node
	store Store
	env   *Env
}

// NewEngine builds an engine rooted at root. All reachable nodes must be
// passed explicitly so that persisted node names resolve after restart.
func NewEngine(root Node, store Store, env *Env, nodes ...Node) (*Engine, error) {
	if root == nil {
		return nil, errors.New("dialog: root node is required")
	}
	if store == nil {
		return nil, errors.New("dialog: store is required")
	}
	if env == nil {
		env = &Env{}
	}
	registry := make(map[string]Node, len(nodes)+1)
	for _, n := range append([]Node{root}, nodes...) {
		name := n.Name()
		if name == "" {
			return nil, errors.New("dialog: node with empty name")
		}
		if prev, ok := registry[name]; ok && prev != n {
			return nil, fmt.Errorf("dialog: duplicate node name %q", name)
		}
		registry[name] = n
	}
	return &Engine{root: root, nodes: registry, store: store, env: env}, nil
}

// HandleEvent runs one inbound event to completion: look up the thread's
// persisted position, execute the current step, follow jumps
// synchronously, and persist after every hop. A store failure aborts the
// dispatch; the event is dropped and the caller logs it.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) error {
	st, _, err := e.store.Get(ctx, ev.Thread.ID)
	if err != nil {
		return fmt.Errorf("dialog: load state for thread %s: %w", ev.Thread.ID, err)
	}

	for hop := 0; ; hop++ {
		if hop >= maxJumpHops {
			return fmt.Errorf("%w (thread %s, node %q)", ErrFlowMisconfigured, ev.Thread.ID, st.Node)
		}
		node := e.resolve(st.Node)
		jump, err := runNode(ctx, node, ev, &st, e.env)
		if err != nil {
			return fmt.Errorf("dialog: node %q step %d: %w", node.Name(), st.Step, err)
		}
		if err := e.store.Save(ctx, ev.Thread.ID, st); err != nil {
			return fmt.Errorf("dialog: save state for thread %s: %w", ev.Thread.ID, err)
		}
		if !jump {
			return nil
		}
	}
}

// resolve maps a persisted node name to a live node. Unknown names fall
// back to the root: a stale cursor from an older flow config should
// restart the conversation, not wedge it.
func (e *Engine) resolve(name string) Node {
	if name == "" {
		return e.root
	}
	if n, ok := e.nodes[name]; ok {
		return n
	}
	return e.root
}

// runNode executes the node's current step and advances the cursor. On
// jump the state already points at the next position and the cursor is
// left untouched. When the incremented index reaches the end of the
// sequence the conversation returns to the root node.
func runNode(ctx context.Context, node Node, ev Event, st *State, env *Env) (bool, error) {
	steps := node.Steps()
	idx := st.Step
	if idx >= 0 && idx < len(steps) {
		jump, err := steps[idx](ctx, ev, st, env)
		if err != nil {
			return false, err
		}
		if jump {
			return true, nil
		}
	}

	idx++
	if idx >= len(steps) {
		st.Node = ""
		st.Step = 0
	} else {
		st.Node = node.Name()
		st.Step = idx
	}
	return false, nil
}
