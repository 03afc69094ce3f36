package dialog

import (
	"context"
	"fmt"
)

// Shared fakes for the node and engine tests.

type sentItem struct {
	UserID string
	Text   string
	Photo  string
}

type fakeMessenger struct {
	sent      []sentItem
	usernames map[string]string
	sendErr   error
}

func (m *fakeMessenger) SendText(ctx context.Context, userID, text string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentItem{UserID: userID, Text: text})
	return nil
}

func (m *fakeMessenger) SendPhoto(ctx context.Context, userID, path string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentItem{UserID: userID, Photo: path})
	return nil
}

func (m *fakeMessenger) ResolveUsername(ctx context.Context, username string) (string, error) {
	if m.usernames == nil {
		return "", nil
	}
	return m.usernames[username], nil
}

func (m *fakeMessenger) texts() []string {
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		if s.Text != "" {
			out = append(out, s.Text)
		}
	}
	return out
}

type fakeResolver struct {
	cities map[string]string
	gps    map[string]string
}

func (r *fakeResolver) CityToCode(ctx context.Context, city string) (string, error) {
	return r.cities[city], nil
}

func (r *fakeResolver) GPSToCode(ctx context.Context, lat, lng float64) (string, error) {
	return r.gps[gpsKey(lat, lng)], nil
}

func gpsKey(lat, lng float64) string {
	return fmt.Sprintf("%.1f,%.1f", lat, lng)
}

// directDeliverer routes Deliver through the plain messenger, skipping
// retry concerns in node tests.
type directDeliverer struct {
	messenger *fakeMessenger
}

func (d *directDeliverer) Deliver(ctx context.Context, userID, text string) error {
	return d.messenger.SendText(ctx, userID, text)
}

func testEnv(m *fakeMessenger, r *fakeResolver) *Env {
	if r == nil {
		r = &fakeResolver{}
	}
	return &Env{
		Messenger: m,
		Deliverer: &directDeliverer{messenger: m},
		Resolver:  r,
	}
}

func textEvent(thread, sender, text string) Event {
	return Event{
		ID:        "item-" + text,
		Timestamp: 1,
		Kind:      KindText,
		Text:      text,
		Sender:    Participant{ID: sender, Username: "user_" + sender},
		Thread:    Thread{ID: thread, Kind: "private"},
	}
}

func mediaEvent(thread, sender string, geo *Geo) Event {
	return Event{
		ID:        "item-media",
		Timestamp: 1,
		Kind:      KindMediaShare,
		Location:  geo,
		Sender:    Participant{ID: sender, Username: "user_" + sender},
		Thread:    Thread{ID: thread, Kind: "private"},
	}
}
