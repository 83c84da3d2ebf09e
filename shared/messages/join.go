package messages

// JoinRoom is sent by a client after connecting to ask the relay for a seat
// in a room.
type JoinRoom struct {
	Version string
	Room    string
}

// RoomJoined is sent by the relay when a client has been seated. PeerID is
// the id other room members will address the client by.
type RoomJoined struct {
	PeerID   string
	Room     string
	Capacity int
}

// JoinRejected is sent by the relay when a client cannot be seated.
type JoinRejected struct {
	Reason string
}
