package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
)

// roomSize is how many peers a relay seats per room. A capped relay must
// have room for at least one full match.
const roomSize = 2

const (
	maxRequestBody = 1 << 16 // 64 KB
	maxNameLen     = 48
	maxVersionLen  = 32
)

type relayAnnouncement struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

// validate checks what the browser relies on: a dialable host:port, a
// listable name, and a seat count that fits the relay's capacity.
// MaxPlayers 0 means uncapped and an empty Version accepts every client.
func (a relayAnnouncement) validate() error {
	if a.Name == "" || len(a.Name) > maxNameLen {
		return fmt.Errorf("name must be 1-%d bytes", maxNameLen)
	}
	host, port, err := net.SplitHostPort(a.Address)
	if err != nil || host == "" {
		return errors.New("address must be host:port")
	}
	if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		return errors.New("address port out of range")
	}
	if len(a.Version) > maxVersionLen {
		return fmt.Errorf("version longer than %d bytes", maxVersionLen)
	}
	switch {
	case a.Players < 0 || a.MaxPlayers < 0:
		return errors.New("negative player count")
	case a.MaxPlayers > 0 && a.MaxPlayers < roomSize:
		return fmt.Errorf("capacity below one room of %d", roomSize)
	case a.MaxPlayers > 0 && a.Players > a.MaxPlayers:
		return errOverCapacity
	}
	return nil
}

type registeredRelay struct {
	ID string `json:"id"`
}

type relayHeartbeat struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[master] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid json")
	}
	return nil
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// ListRelays answers GET /servers. The optional version query hides relays
// that would reject the client.
func ListRelays(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)
		writeJSON(w, http.StatusOK, reg.List(r.URL.Query().Get("version")))
	}
}

func RegisterRelay(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		var a relayAnnouncement
		if err := decodeBody(w, r, &a); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := a.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		id := reg.Register(RelayInfo{
			Name:       a.Name,
			Address:    a.Address,
			Players:    a.Players,
			MaxPlayers: a.MaxPlayers,
			Version:    a.Version,
			Region:     a.Region,
		})
		log.Printf("[master] registered relay %q at %s (id=%s, version=%q, capacity=%d)",
			a.Name, a.Address, id, a.Version, a.MaxPlayers)
		writeJSON(w, http.StatusCreated, registeredRelay{ID: id})
	}
}

// Heartbeat answers POST /servers/heartbeat. Unknown relays get 404 so they
// re-register; a seat count over capacity is a 400 and does not refresh.
func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		var hb relayHeartbeat
		if err := decodeBody(w, r, &hb); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if hb.Players < 0 {
			writeError(w, http.StatusBadRequest, errors.New("negative player count"))
			return
		}

		switch err := reg.Heartbeat(hb.ID, hb.Players); {
		case errors.Is(err, errUnknownRelay):
			writeError(w, http.StatusNotFound, err)
		case err != nil:
			writeError(w, http.StatusBadRequest, err)
		default:
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		}
	}
}

// DeregisterRelay answers DELETE /servers/{id}, sent by relays shutting down.
func DeregisterRelay(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)

		id := r.PathValue("id")
		if !reg.Deregister(id) {
			writeError(w, http.StatusNotFound, errUnknownRelay)
			return
		}
		log.Printf("[master] deregistered relay (id=%s)", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		setHeaders(w)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
