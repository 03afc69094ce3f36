package instagram

// Inbox is the decoded snapshot returned by one inbox poll: every thread
// with its recent items and per-viewer seen markers.
type Inbox struct {
	Viewer  User     `json:"viewer"`
	Threads []Thread `json:"threads"`
}

type Thread struct {
	ID         string                `json:"thread_id"`
	Title      string                `json:"thread_title"`
	Type       string                `json:"thread_type"`
	IsGroup    bool                  `json:"is_group"`
	Users      []User                `json:"users"`
	Items      []Item                `json:"items"`
	LastSeenAt map[string]SeenMarker `json:"last_seen_at"`
}

// SeenMarker records when a participant last read the thread. The
// platform serializes the timestamp (microseconds) as a string.
type SeenMarker struct {
	Timestamp string `json:"timestamp"`
}

type User struct {
	PK       int64  `json:"pk"`
	Username string `json:"username"`
}

type Item struct {
	ID         string      `json:"item_id"`
	UserID     int64       `json:"user_id"`
	Timestamp  int64       `json:"timestamp"` // microseconds
	Type       string      `json:"item_type"`
	Text       string      `json:"text,omitempty"`
	MediaShare *MediaShare `json:"media_share,omitempty"`
}

type MediaShare struct {
	Location *Location `json:"location,omitempty"`
}

// Location may carry partial coordinates; either field can be absent.
type Location struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

type inboxResponse struct {
	Status string `json:"status"`
	Inbox  struct {
		Threads []Thread `json:"threads"`
	} `json:"inbox"`
	Viewer User `json:"viewer"`
}

type pendingInboxResponse struct {
	Status string `json:"status"`
	Inbox  struct {
		Threads []Thread `json:"threads"`
	} `json:"inbox"`
}

type searchUserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user,omitempty"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// statused lets the transport reject bodies whose application-level
// status is not "ok" even when HTTP succeeded.
type statused interface{ ok() bool }

func statusOK(s string) bool { return s == "" || s == "ok" }

func (r *inboxResponse) ok() bool        { return statusOK(r.Status) }
func (r *pendingInboxResponse) ok() bool { return statusOK(r.Status) }
func (r *searchUserResponse) ok() bool   { return statusOK(r.Status) }
func (r *statusResponse) ok() bool       { return statusOK(r.Status) }
