package rollback

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeINI(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridduel.ini")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadINIOverridesPresentKeys(t *testing.T) {
	path := writeINI(t, `
[Video]
Width = 1280

[Rollback]
InputDelay = 3
DisconnectTimeout = 5000
`)
	base := DefaultConfig()
	c, err := LoadINI(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if c.InputDelay != 3 || c.DisconnectTimeout != 5*time.Second {
		t.Errorf("config = %+v", c)
	}
	if c.MaxPrediction != base.MaxPrediction || c.DisconnectNotifyStart != base.DisconnectNotifyStart {
		t.Errorf("absent keys changed: %+v", c)
	}
}

func TestLoadINIRejectsInvalidValues(t *testing.T) {
	base := DefaultConfig()
	c, err := LoadINI(writeINI(t, "[Rollback]\nMaxPrediction = 0\n"), base)
	if err == nil {
		t.Fatal("zero prediction window accepted")
	}
	if c != base {
		t.Errorf("invalid file returned %+v", c)
	}
}

func TestLoadINIWithoutSection(t *testing.T) {
	base := DefaultConfig()
	c, err := LoadINI(writeINI(t, "[Video]\nWidth = 640\n"), base)
	if err != nil {
		t.Fatal(err)
	}
	if c != base {
		t.Error("file without a [Rollback] section changed the config")
	}
	if _, err := LoadINI(filepath.Join(t.TempDir(), "missing.ini"), base); err == nil {
		t.Error("missing file accepted")
	}
}
