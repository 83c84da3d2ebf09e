package config

import (
	"fmt"

	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/netconfig"
	"github.com/automoto/gridduel/shared/protocol"
)

// NetworkConfig holds where the client looks for relays
type NetworkConfig struct {
	MasterServerURL string
	RelayAddress    string
	Room            string
	GameVersion     string
}

// Rollback tunes every session the client starts.
var Rollback rollback.Config
var Network NetworkConfig

func init() {
	Rollback = rollback.DefaultConfig()

	Network = NetworkConfig{
		MasterServerURL: netconfig.DefaultMasterURL,
		RelayAddress:    fmt.Sprintf("localhost:%d", netconfig.DefaultRelayPort),
		Room:            netconfig.DefaultRoom,
		GameVersion:     protocol.Version,
	}
}

// LoadRollbackINI applies the [Rollback] section of path on top of the
// current values.
func LoadRollbackINI(path string) error {
	c, err := rollback.LoadINI(path, Rollback)
	if err != nil {
		return err
	}
	Rollback = c
	return nil
}
