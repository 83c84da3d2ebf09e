// Package netconfig holds values shared between the client, the relay
// server and the master list. It must have zero dependencies on ebiten or
// any graphics library so the dedicated server binary stays headless.
package netconfig

import "time"

const (
	// DefaultRelayPort is the websocket port relays listen on.
	DefaultRelayPort = 7373
	// DefaultMasterURL is where relays register and clients browse.
	DefaultMasterURL = "http://localhost:8080"

	// RoomCapacity is the number of peers a room seats before it closes
	// ("next=2" in matchbox terms).
	RoomCapacity = 2
	// DefaultRoom is joined when the player does not pick one.
	DefaultRoom = "lobby"

	// MaxRelayPayload bounds a single relayed datagram.
	MaxRelayPayload = 4 << 10

	HeartbeatInterval = 30 * time.Second
)
