package ingest

import (
	"testing"

	"github.com/SelfMadeDev/pytaibot/dialog"
	"github.com/SelfMadeDev/pytaibot/internal/instagram"
)

func testInbox(threads ...instagram.Thread) *instagram.Inbox {
	return &instagram.Inbox{
		Viewer:  instagram.User{PK: 1, Username: "bot"},
		Threads: threads,
	}
}

func textItem(id string, userID, ts int64, text string) instagram.Item {
	return instagram.Item{
		ID:        id,
		UserID:    userID,
		Timestamp: ts,
		Type:      "text",
		Text:      text,
	}
}

func TestCollectYieldsNewItems(t *testing.T) {
	t.Parallel()

	g := New(100)
	inbox := testInbox(instagram.Thread{
		ID:    "t1",
		Type:  "private",
		Users: []instagram.User{{PK: 2, Username: "alice"}},
		Items: []instagram.Item{
			textItem("i1", 2, 150, "hello"),
			textItem("i2", 2, 200, "again"),
		},
	})

	events := g.Collect(inbox)
	if len(events) != 2 {
		t.Fatalf("len(Collect()) = %d, want 2", len(events))
	}
	if events[0].Text != "hello" || events[1].Text != "again" {
		t.Fatalf("events = %v, want inbox item order", events)
	}
	if events[0].Sender.Username != "alice" || events[0].Sender.ID != "2" {
		t.Fatalf("sender = %+v, want alice/2", events[0].Sender)
	}
}

func TestCollectIdempotentAcrossPolls(t *testing.T) {
	t.Parallel()

	g := New(0)
	inbox := testInbox(instagram.Thread{
		ID:    "t1",
		Items: []instagram.Item{textItem("i1", 2, 150, "hello")},
	})

	if events := g.Collect(inbox); len(events) != 1 {
		t.Fatalf("first poll yielded %d events, want 1", len(events))
	}
	// Same snapshot again: the watermark filters everything out.
	if events := g.Collect(inbox); len(events) != 0 {
		t.Fatalf("second poll yielded %d events, want 0", len(events))
	}
}

func TestCollectTiedTimestampNotReplayed(t *testing.T) {
	t.Parallel()

	g := New(0)
	first := testInbox(instagram.Thread{
		ID:    "t1",
		Items: []instagram.Item{textItem("i1", 2, 150, "hello")},
	})
	g.Collect(first)

	// A later snapshot carrying an item with exactly the watermark
	// timestamp is a duplicate, not news.
	second := testInbox(instagram.Thread{
		ID:    "t1",
		Items: []instagram.Item{textItem("i1", 2, 150, "hello"), textItem("i2", 2, 151, "new")},
	})
	events := g.Collect(second)
	if len(events) != 1 || events[0].ID != "i2" {
		t.Fatalf("Collect() = %v, want only the strictly newer item", events)
	}
}

func TestCollectSkipsGroupThreads(t *testing.T) {
	t.Parallel()

	g := New(0)
	inbox := testInbox(instagram.Thread{
		ID:      "g1",
		IsGroup: true,
		Items:   []instagram.Item{textItem("i1", 2, 150, "group chatter")},
	})
	if events := g.Collect(inbox); len(events) != 0 {
		t.Fatalf("Collect() = %v, want group threads skipped", events)
	}
}

func TestCollectHonorsProcessStart(t *testing.T) {
	t.Parallel()

	g := New(1_000)
	inbox := testInbox(instagram.Thread{
		ID: "t1",
		Items: []instagram.Item{
			textItem("old", 2, 500, "before start"),
			textItem("new", 2, 1_500, "after start"),
		},
	})
	events := g.Collect(inbox)
	if len(events) != 1 || events[0].ID != "new" {
		t.Fatalf("Collect() = %v, want only the post-start item", events)
	}
}

func TestCollectHonorsPlatformSeenMarker(t *testing.T) {
	t.Parallel()

	g := New(0)
	inbox := testInbox(instagram.Thread{
		ID: "t1",
		LastSeenAt: map[string]instagram.SeenMarker{
			"1": {Timestamp: "150"},
		},
		Items: []instagram.Item{
			textItem("seen", 2, 150, "already answered"),
			textItem("fresh", 2, 200, "unanswered"),
		},
	})
	events := g.Collect(inbox)
	if len(events) != 1 || events[0].ID != "fresh" {
		t.Fatalf("Collect() = %v, want only the item above the seen marker", events)
	}
}

func TestCollectMapsMediaShareGeotag(t *testing.T) {
	t.Parallel()

	lat, lng := 40.7, -74.0
	g := New(0)
	inbox := testInbox(instagram.Thread{
		ID: "t1",
		Items: []instagram.Item{
			{
				ID:         "m1",
				UserID:     2,
				Timestamp:  100,
				Type:       "media_share",
				MediaShare: &instagram.MediaShare{Location: &instagram.Location{Lat: &lat, Lng: &lng}},
			},
			{
				ID:         "m2",
				UserID:     2,
				Timestamp:  101,
				Type:       "media_share",
				MediaShare: &instagram.MediaShare{Location: &instagram.Location{Lat: &lat}},
			},
		},
	})
	events := g.Collect(inbox)
	if len(events) != 2 {
		t.Fatalf("len(Collect()) = %d, want 2", len(events))
	}
	if events[0].Kind != dialog.KindMediaShare || events[0].Location == nil {
		t.Fatalf("event = %+v, want media share with geotag", events[0])
	}
	if events[0].Location.Lat != lat || events[0].Location.Lng != lng {
		t.Fatalf("geotag = %+v, want %v/%v", events[0].Location, lat, lng)
	}
	// Half a coordinate pair is no geotag at all.
	if events[1].Location != nil {
		t.Fatalf("geotag = %+v, want nil for partial coordinates", events[1].Location)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		itemType string
		want     dialog.Kind
	}{
		{"text", dialog.KindText},
		{"link", dialog.KindText},
		{"media_share", dialog.KindMediaShare},
		{"like", dialog.KindOther},
		{"", dialog.KindOther},
	}
	for _, tc := range cases {
		if got := kindOf(tc.itemType); got != tc.want {
			t.Fatalf("kindOf(%q) = %v, want %v", tc.itemType, got, tc.want)
		}
	}
}
