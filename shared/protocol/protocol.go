package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Version is checked by the relay on join. Peers running different
// simulation code would desync, so a mismatch is rejected outright.
const Version = "gridduel/1"

const maxRoomName = 32

var ErrEmptyRoom = errors.New("room name is empty")

// CheckVersion returns an error if a client's version cannot play with this
// build. An empty required version accepts any client.
func CheckVersion(required, client string) error {
	if required == "" || required == client {
		return nil
	}
	return fmt.Errorf("version mismatch: server requires %q, client has %q", required, client)
}

// NormalizeRoom lowercases and trims a room name and rejects names that
// cannot be typed back in.
func NormalizeRoom(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", ErrEmptyRoom
	}
	if len(name) > maxRoomName {
		return "", fmt.Errorf("room name longer than %d characters", maxRoomName)
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return "", fmt.Errorf("room name contains %q", r)
		}
	}
	return name, nil
}
