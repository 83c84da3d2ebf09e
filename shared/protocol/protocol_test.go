package protocol

import (
	"errors"
	"testing"
)

func TestCheckVersion(t *testing.T) {
	if err := CheckVersion("", "anything"); err != nil {
		t.Errorf("empty requirement: %v", err)
	}
	if err := CheckVersion(Version, Version); err != nil {
		t.Errorf("same version: %v", err)
	}
	if err := CheckVersion(Version, "gridduel/0"); err == nil {
		t.Error("mismatched version accepted")
	}
}

func TestNormalizeRoom(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"lobby", "lobby", false},
		{"  Friday-Night_2 ", "friday-night_2", false},
		{"", "", true},
		{"   ", "", true},
		{"has space", "", true},
		{"slash/room", "", true},
		{"abcdefghijklmnopqrstuvwxyz0123456789", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeRoom(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeRoom(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeRoom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := NormalizeRoom(""); !errors.Is(err, ErrEmptyRoom) {
		t.Errorf("empty room error = %v, want ErrEmptyRoom", err)
	}
}
