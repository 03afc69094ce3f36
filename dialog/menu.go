package dialog

import (
	"context"
	"fmt"
	"strings"
)

// MenuTexts are the user-facing replies of the root menu.
type MenuTexts struct {
	// Header is the first-contact help message.
	Header string
	// Prompt asks for the next destination once a departure is known.
	Prompt string
	// NoGeotag is sent when a shared media item has no usable geotag.
	NoGeotag string
	// NoAirport is sent when no airport resolves near the geotag.
	NoAirport string
	// SamePlace is sent when departure and arrival resolve to the same code.
	SamePlace string
	// Result frames the search link; must contain one %s verb.
	Result string
}

// MenuNode is the root branching node. Its single step classifies the
// inbound event: geotagged media sets the arrival, the reset keyword
// re-enters departure collection, anything else gets the help text. Once
// an arrival is known the event jumps to the companion result node,
// which either delivers the search result or hands control to the
// departure questionnaire. An event that only earns a reply leaves the
// conversation parked at the root.
type MenuNode struct {
	name          string
	resultNode    string
	resetKeyword  string
	departureNode string
	texts         MenuTexts
}

// NewMenuNode wires the menu to the questionnaire node that collects the
// departure city. departureNode is the registry name of that node. The
// companion ResultNode must be registered alongside the menu.
func NewMenuNode(name, resetKeyword, departureNode string, texts MenuTexts) *MenuNode {
	return &MenuNode{
		name:          name,
		resultNode:    name + ".result",
		resetKeyword:  strings.TrimSpace(resetKeyword),
		departureNode: departureNode,
		texts:         texts,
	}
}

func (n *MenuNode) Name() string { return n.name }

func (n *MenuNode) Steps() []Step {
	return []Step{n.checkArrival}
}

// ResultNode returns the node that finishes a search once the menu has
// an arrival. It is reached only by jump, never by cursor advance.
func (n *MenuNode) ResultNode() Node {
	return &menuResultNode{menu: n}
}

type menuResultNode struct {
	menu *MenuNode
}

func (r *menuResultNode) Name() string { return r.menu.resultNode }

func (r *menuResultNode) Steps() []Step {
	return []Step{r.menu.checkDeparture}
}

func (n *MenuNode) checkArrival(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
	if st.Arrival != "" {
		st.Node = n.resultNode
		st.Step = 0
		return true, nil
	}

	if ev.Kind == KindText && strings.EqualFold(strings.TrimSpace(ev.Text), n.resetKeyword) {
		st.Node = n.departureNode
		st.Step = 0
		return true, nil
	}

	if ev.Kind == KindMediaShare {
		if ev.Location == nil {
			n.reply(ctx, ev, env, n.texts.NoGeotag)
			return false, nil
		}
		code, err := env.Resolver.GPSToCode(ctx, ev.Location.Lat, ev.Location.Lng)
		if err != nil {
			env.logger().Warn("gps_lookup_failed", "thread", ev.Thread.ID, "error", err.Error())
			code = ""
		}
		if code == "" {
			n.reply(ctx, ev, env, n.texts.NoAirport)
			return false, nil
		}
		st.Arrival = code
		st.Node = n.resultNode
		st.Step = 0
		return true, nil
	}

	if st.Departure == "" {
		n.reply(ctx, ev, env, n.texts.Header)
	} else {
		n.reply(ctx, ev, env, n.texts.Prompt)
	}
	return false, nil
}

func (n *MenuNode) checkDeparture(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
	if st.Arrival == "" {
		// Lost the arrival between steps; start over.
		st.Node = n.name
		st.Step = 0
		return true, nil
	}

	if st.Departure == "" {
		st.Node = n.departureNode
		st.Step = 0
		return true, nil
	}

	var answer string
	if st.Departure != st.Arrival {
		answer = fmt.Sprintf(n.texts.Result, SearchLink(st.Departure, st.Arrival))
	} else {
		answer = n.texts.SamePlace
	}
	if err := env.Deliverer.Deliver(ctx, ev.Sender.ID, answer); err != nil {
		env.logger().Error("result_delivery_failed", "thread", ev.Thread.ID, "error", err.Error())
	}
	// A search is one-shot: the arrival is cleared, the departure is kept
	// for the user's next shared media.
	st.Arrival = ""
	return false, nil
}

func (n *MenuNode) reply(ctx context.Context, ev Event, env *Env, text string) {
	if text == "" {
		return
	}
	if err := env.Messenger.SendText(ctx, ev.Sender.ID, text); err != nil {
		env.logger().Warn("menu_reply_failed", "thread", ev.Thread.ID, "error", err.Error())
	}
}
