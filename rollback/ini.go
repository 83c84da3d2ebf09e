package rollback

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// iniSection is the [Rollback] section of a settings file. Durations are
// in milliseconds.
type iniSection struct {
	InputDelay            int `ini:"InputDelay"`
	MaxPrediction         int `ini:"MaxPrediction"`
	CheckDistance         int `ini:"CheckDistance"`
	DisconnectNotifyStart int `ini:"DisconnectNotifyStart"`
	DisconnectTimeout     int `ini:"DisconnectTimeout"`
}

// LoadINI overrides base with the keys present in the [Rollback] section
// of path. Keys that are absent keep base's values; a file without the
// section returns base unchanged.
func LoadINI(path string, base Config) (Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, path)
	if err != nil {
		return base, fmt.Errorf("read %s: %w", path, err)
	}
	if !file.HasSection("Rollback") {
		return base, nil
	}

	sec := iniSection{
		InputDelay:            base.InputDelay,
		MaxPrediction:         base.MaxPrediction,
		CheckDistance:         base.CheckDistance,
		DisconnectNotifyStart: int(base.DisconnectNotifyStart / time.Millisecond),
		DisconnectTimeout:     int(base.DisconnectTimeout / time.Millisecond),
	}
	if err := file.Section("Rollback").MapTo(&sec); err != nil {
		return base, fmt.Errorf("parse [Rollback] in %s: %w", path, err)
	}

	c := base
	c.InputDelay = sec.InputDelay
	c.MaxPrediction = sec.MaxPrediction
	c.CheckDistance = sec.CheckDistance
	c.DisconnectNotifyStart = time.Duration(sec.DisconnectNotifyStart) * time.Millisecond
	c.DisconnectTimeout = time.Duration(sec.DisconnectTimeout) * time.Millisecond
	if err := c.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
