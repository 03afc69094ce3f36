package dialog

// Kind classifies an inbound direct-message item.
type Kind string

const (
	KindText       Kind = "text"
	KindMediaShare Kind = "media_share"
	KindOther      Kind = "other"
)

// Geo is a geotag attached to a shared media item. Both coordinates are
// always set; items with a partial or missing geotag carry a nil Geo.
type Geo struct {
	Lat float64
	Lng float64
}

// Participant identifies the account that authored an inbound item.
type Participant struct {
	ID       string
	Username string
}

// Thread identifies the direct-message conversation an item arrived in.
type Thread struct {
	ID    string
	Title string
	Kind  string
}

// Event is a single deduplicated inbound message. Immutable once built by
// the ingestor; steps read it but never modify it.
type Event struct {
	ID        string
	Timestamp int64 // microseconds
	Kind      Kind
	Text      string
	Location  *Geo
	Sender    Participant
	Thread    Thread
}
