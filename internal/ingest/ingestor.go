// Package ingest turns raw inbox snapshots into deduplicated inbound
// events. The dedup watermark lives in memory only: on restart the
// process-start timestamp plus the platform's own seen markers decide
// what is new.
package ingest

import (
	"strconv"

	"github.com/SelfMadeDev/pytaibot/dialog"
	"github.com/SelfMadeDev/pytaibot/internal/instagram"
)

// Ingestor extracts new events from inbox snapshots. Not safe for
// concurrent use; the polling loop is its only caller.
type Ingestor struct {
	processStart int64
	lastSeen     map[string]int64 // thread id -> newest processed timestamp
}

// New sets the process-start watermark, in microseconds. Items older than
// it are never yielded, whatever the platform's seen markers say.
func New(processStart int64) *Ingestor {
	return &Ingestor{
		processStart: processStart,
		lastSeen:     make(map[string]int64),
	}
}

// Collect walks the snapshot in thread order, then item order, and
// returns the events not yet processed this run. Group threads are
// skipped entirely. An item is new only when its timestamp is strictly
// above both the viewer's platform seen marker and the in-memory
// watermark; the watermark advances as events are yielded.
func (g *Ingestor) Collect(inbox *instagram.Inbox) []dialog.Event {
	if inbox == nil {
		return nil
	}
	viewerKey := strconv.FormatInt(inbox.Viewer.PK, 10)

	var events []dialog.Event
	for _, thread := range inbox.Threads {
		if thread.IsGroup {
			continue
		}

		floor := seenTimestamp(thread.LastSeenAt, viewerKey)
		if mem := g.lastSeen[thread.ID]; mem > floor {
			floor = mem
		}

		usernames := threadUsernames(thread, inbox.Viewer)
		for _, item := range thread.Items {
			if item.Timestamp < g.processStart {
				continue
			}
			if item.Timestamp <= floor {
				continue
			}
			g.lastSeen[thread.ID] = item.Timestamp
			events = append(events, eventFromItem(item, thread, usernames))
		}
	}
	return events
}

func seenTimestamp(markers map[string]instagram.SeenMarker, viewerKey string) int64 {
	marker, ok := markers[viewerKey]
	if !ok {
		return 0
	}
	ts, err := strconv.ParseInt(marker.Timestamp, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

func threadUsernames(thread instagram.Thread, viewer instagram.User) map[int64]string {
	usernames := make(map[int64]string, len(thread.Users)+1)
	for _, u := range thread.Users {
		usernames[u.PK] = u.Username
	}
	usernames[viewer.PK] = viewer.Username
	return usernames
}

func eventFromItem(item instagram.Item, thread instagram.Thread, usernames map[int64]string) dialog.Event {
	ev := dialog.Event{
		ID:        item.ID,
		Timestamp: item.Timestamp,
		Kind:      kindOf(item.Type),
		Text:      item.Text,
		Sender: dialog.Participant{
			ID:       strconv.FormatInt(item.UserID, 10),
			Username: usernames[item.UserID],
		},
		Thread: dialog.Thread{
			ID:    thread.ID,
			Title: thread.Title,
			Kind:  thread.Type,
		},
	}
	// A geotag counts only when both coordinates are present.
	if item.MediaShare != nil && item.MediaShare.Location != nil {
		loc := item.MediaShare.Location
		if loc.Lat != nil && loc.Lng != nil {
			ev.Location = &dialog.Geo{Lat: *loc.Lat, Lng: *loc.Lng}
		}
	}
	return ev
}

func kindOf(itemType string) dialog.Kind {
	switch itemType {
	case "text", "link":
		return dialog.KindText
	case "media_share":
		return dialog.KindMediaShare
	default:
		return dialog.KindOther
	}
}
