package rollback

import (
	"fmt"
	"time"

	"github.com/automoto/gridduel/shared/sim"
)

// Config tunes a session. Durations are converted to ticks of the fixed
// frame rate; a tick is one call to AdvanceFrame or Poll.
type Config struct {
	Players int
	// InputDelay is how many frames after sampling a local input takes effect.
	InputDelay int
	// MaxPrediction is how many frames may be simulated past the last frame
	// with every input confirmed.
	MaxPrediction int
	// CheckDistance is the spacing of checksum exchanges in P2P sessions and
	// the rollback length of the sync test. Zero disables both.
	CheckDistance int
	// DisconnectNotifyStart is the silence after which a peer is reported
	// interrupted; DisconnectTimeout the silence after which it is dropped.
	DisconnectNotifyStart time.Duration
	DisconnectTimeout     time.Duration
	FPS                   int
}

// DefaultConfig matches the values the game ships with.
func DefaultConfig() Config {
	return Config{
		Players:               sim.NumPlayers,
		InputDelay:            2,
		MaxPrediction:         8,
		CheckDistance:         7,
		DisconnectNotifyStart: time.Second,
		DisconnectTimeout:     3 * time.Second,
		FPS:                   sim.FPS,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.Players != sim.NumPlayers {
		return fmt.Errorf("players = %d, the simulation supports %d", c.Players, sim.NumPlayers)
	}
	if c.InputDelay < 0 || c.InputDelay >= queueSize/2 {
		return fmt.Errorf("input delay %d out of range", c.InputDelay)
	}
	if c.MaxPrediction < 1 || c.MaxPrediction >= queueSize/2 {
		return fmt.Errorf("max prediction %d out of range", c.MaxPrediction)
	}
	if c.CheckDistance < 0 {
		return fmt.Errorf("check distance %d is negative", c.CheckDistance)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps %d must be positive", c.FPS)
	}
	if c.DisconnectTimeout < c.DisconnectNotifyStart {
		return fmt.Errorf("disconnect timeout %v is shorter than notify start %v",
			c.DisconnectTimeout, c.DisconnectNotifyStart)
	}
	return nil
}

// ticks converts a duration to ticks, rounding down.
func (c Config) ticks(d time.Duration) int {
	return int(d * time.Duration(c.FPS) / time.Second)
}
