package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type fixedCount int

func (n fixedCount) PlayerCount() int { return int(n) }

type fakeMaster struct {
	registers  atomic.Int32
	heartbeats atomic.Int32
	deletes    atomic.Int32
	lostOnce   atomic.Bool
	players    atomic.Int32
}

func (m *fakeMaster) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /servers/register", func(w http.ResponseWriter, r *http.Request) {
		m.registers.Add(1)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "relay-1"})
	})
	mux.HandleFunc("POST /servers/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		var req heartbeatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		m.players.Store(int32(req.Players))
		if m.lostOnce.CompareAndSwap(true, false) {
			http.Error(w, "unknown", http.StatusNotFound)
			return
		}
		m.heartbeats.Add(1)
	})
	mux.HandleFunc("DELETE /servers/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "relay-1" {
			http.NotFound(w, r)
			return
		}
		m.deletes.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRegistrationLifecycle(t *testing.T) {
	master := &fakeMaster{}
	ts := httptest.NewServer(master.handler())
	defer ts.Close()

	reg := NewRegistration(ts.URL+"/", "relay", "localhost:7373", "v", "eu", 16, fixedCount(3))
	reg.interval = 10 * time.Millisecond
	reg.Start()

	if reg.ID() != "relay-1" {
		t.Fatalf("id = %q after start", reg.ID())
	}
	waitFor(t, "a heartbeat", func() bool { return master.heartbeats.Load() > 0 })
	if master.players.Load() != 3 {
		t.Errorf("heartbeat reported %d players, want 3", master.players.Load())
	}

	reg.Stop()
	if master.deletes.Load() != 1 {
		t.Errorf("deletes = %d, want 1", master.deletes.Load())
	}
	if reg.ID() != "" {
		t.Errorf("id = %q after stop", reg.ID())
	}
}

func TestRegistrationReregistersWhenForgotten(t *testing.T) {
	master := &fakeMaster{}
	master.lostOnce.Store(true)
	ts := httptest.NewServer(master.handler())
	defer ts.Close()

	reg := NewRegistration(ts.URL, "relay", "localhost:7373", "", "", 16, fixedCount(0))
	reg.interval = 10 * time.Millisecond
	reg.Start()
	defer reg.Stop()

	waitFor(t, "re-registration", func() bool { return master.registers.Load() >= 2 })
}
