package messages

// PeerJoined is sent to every room member when a peer is seated, and to the
// new peer once for each member already present.
type PeerJoined struct {
	PeerID string
}

// PeerLeft is sent to the remaining room members when a peer disconnects.
type PeerLeft struct {
	PeerID string
}
