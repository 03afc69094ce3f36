package dialog

import (
	"context"
	"testing"
)

func TestNewMessageNodeRequiresContent(t *testing.T) {
	t.Parallel()

	if _, err := NewMessageNode("greeting", "", ""); err == nil {
		t.Fatal("NewMessageNode() error = nil, want error for empty content")
	}
	if _, err := NewMessageNode("greeting", "hi", ""); err != nil {
		t.Fatalf("NewMessageNode(text) error = %v", err)
	}
	if _, err := NewMessageNode("greeting", "", "pic.jpg"); err != nil {
		t.Fatalf("NewMessageNode(image) error = %v", err)
	}
}

func TestMessageNodeSendsPhotoThenText(t *testing.T) {
	t.Parallel()

	node, err := NewMessageNode("greeting", "welcome", "pic.jpg")
	if err != nil {
		t.Fatalf("NewMessageNode() error = %v", err)
	}

	m := &fakeMessenger{}
	steps := node.Steps()
	jump, err := steps[0](context.Background(), textEvent("t1", "u1", "hi"), &State{}, testEnv(m, nil))
	if err != nil || jump {
		t.Fatalf("send step = %v, %v, want no jump", jump, err)
	}
	if len(m.sent) != 2 || m.sent[0].Photo != "pic.jpg" || m.sent[1].Text != "welcome" {
		t.Fatalf("sent = %v, want photo then text", m.sent)
	}
}

func TestNotifyAdminNodeRelaysAndReplies(t *testing.T) {
	t.Parallel()

	node := NewNotifyAdminNode("escalate", "we will be in touch", "new complaint", "operator")
	m := &fakeMessenger{usernames: map[string]string{"operator": "op-id"}}
	steps := node.Steps()
	if _, err := steps[0](context.Background(), textEvent("t1", "u1", "help"), &State{}, testEnv(m, nil)); err != nil {
		t.Fatalf("notify step error = %v", err)
	}

	if len(m.sent) != 2 {
		t.Fatalf("sent = %v, want relay and reply", m.sent)
	}
	if m.sent[0].UserID != "op-id" || m.sent[0].Text != "new complaint\n@user_u1" {
		t.Fatalf("relay = %v, want notification with sender handle", m.sent[0])
	}
	if m.sent[1].UserID != "u1" || m.sent[1].Text != "we will be in touch" {
		t.Fatalf("reply = %v, want the fixed answer", m.sent[1])
	}
}

func TestNotifyAdminNodeSkipsRelayOnUnknownAdmin(t *testing.T) {
	t.Parallel()

	node := NewNotifyAdminNode("escalate", "we will be in touch", "new complaint", "nobody")
	m := &fakeMessenger{}
	steps := node.Steps()
	if _, err := steps[0](context.Background(), textEvent("t1", "u1", "help"), &State{}, testEnv(m, nil)); err != nil {
		t.Fatalf("notify step error = %v", err)
	}
	if len(m.sent) != 1 || m.sent[0].UserID != "u1" {
		t.Fatalf("sent = %v, want reply to sender only", m.sent)
	}
}
