package dialog

import (
	"context"
	"errors"
)

// DummyNode is an explicit do-nothing placeholder.
type DummyNode struct {
	name string
}

func NewDummyNode(name string) *DummyNode {
	return &DummyNode{name: name}
}

func (n *DummyNode) Name() string { return n.name }

func (n *DummyNode) Steps() []Step {
	return []Step{
		func(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
			return false, nil
		},
	}
}

// MessageNode sends a fixed text and/or a fixed image back to the sender.
type MessageNode struct {
	name  string
	text  string
	image string
}

// NewMessageNode requires at least one of text or image.
func NewMessageNode(name, text, image string) (*MessageNode, error) {
	if text == "" && image == "" {
		return nil, errors.New("dialog: message node needs text or image")
	}
	return &MessageNode{name: name, text: text, image: image}, nil
}

func (n *MessageNode) Name() string { return n.name }

func (n *MessageNode) Steps() []Step {
	return []Step{n.send}
}

func (n *MessageNode) send(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
	if n.image != "" {
		if err := env.Messenger.SendPhoto(ctx, ev.Sender.ID, n.image); err != nil {
			env.logger().Warn("message_node_photo_failed", "node", n.name, "error", err.Error())
		}
	}
	if n.text != "" {
		if err := env.Messenger.SendText(ctx, ev.Sender.ID, n.text); err != nil {
			env.logger().Warn("message_node_text_failed", "node", n.name, "error", err.Error())
		}
	}
	return false, nil
}

// NotifyAdminNode relays a notification to a configured admin account and
// always answers the original sender with a fixed text. A failed username
// lookup skips the relay silently.
type NotifyAdminNode struct {
	name         string
	text         string
	notification string
	admin        string
}

func NewNotifyAdminNode(name, text, notification, admin string) *NotifyAdminNode {
	return &NotifyAdminNode{name: name, text: text, notification: notification, admin: admin}
}

func (n *NotifyAdminNode) Name() string { return n.name }

func (n *NotifyAdminNode) Steps() []Step {
	return []Step{n.notify}
}

func (n *NotifyAdminNode) notify(ctx context.Context, ev Event, st *State, env *Env) (bool, error) {
	adminID, err := env.Messenger.ResolveUsername(ctx, n.admin)
	if err != nil {
		env.logger().Warn("notify_admin_resolve_failed", "admin", n.admin, "error", err.Error())
		adminID = ""
	}
	if adminID != "" {
		note := n.notification + "\n@" + ev.Sender.Username
		if err := env.Messenger.SendText(ctx, adminID, note); err != nil {
			env.logger().Warn("notify_admin_send_failed", "admin", n.admin, "error", err.Error())
		}
	}
	if err := env.Messenger.SendText(ctx, ev.Sender.ID, n.text); err != nil {
		env.logger().Warn("notify_admin_reply_failed", "node", n.name, "error", err.Error())
	}
	return false, nil
}
