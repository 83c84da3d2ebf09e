package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRelayLifecycleOverHTTP(t *testing.T) {
	reg := NewRegistry(time.Minute)
	mux := newMux(reg)

	rec := do(t, mux, http.MethodPost, "/servers/register",
		`{"name":"eu-1","address":"relay.example:7373","maxPlayers":64,"version":"gridduel/1","region":"eu"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}
	var created registeredRelay
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil || created.ID == "" {
		t.Fatalf("register response: %v %+v", err, created)
	}

	rec = do(t, mux, http.MethodPost, "/servers/heartbeat", `{"id":"`+created.ID+`","players":3}`)
	if rec.Code != http.StatusOK {
		t.Errorf("heartbeat status = %d", rec.Code)
	}

	rec = do(t, mux, http.MethodGet, "/servers?version=gridduel/1", "")
	var list []RelayInfo
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Players != 3 || list[0].Region != "eu" {
		t.Errorf("list = %+v", list)
	}

	if rec = do(t, mux, http.MethodDelete, "/servers/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec = do(t, mux, http.MethodDelete, "/servers/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
	if rec = do(t, mux, http.MethodPost, "/servers/heartbeat", `{"id":"`+created.ID+`"}`); rec.Code != http.StatusNotFound {
		t.Errorf("heartbeat after delete status = %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	mux := newMux(NewRegistry(time.Minute))
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing address", `{"name":"x"}`},
		{"missing name", `{"address":"x:1"}`},
		{"address without port", `{"name":"x","address":"relay.example"}`},
		{"address without host", `{"name":"x","address":":7373"}`},
		{"port out of range", `{"name":"x","address":"x:70000"}`},
		{"negative players", `{"name":"x","address":"x:1","players":-1}`},
		{"capacity below a room", `{"name":"x","address":"x:1","maxPlayers":1}`},
		{"players over capacity", `{"name":"x","address":"x:1","players":5,"maxPlayers":4}`},
		{"version too long", `{"name":"x","address":"x:1","version":"` + strings.Repeat("v", maxVersionLen+1) + `"}`},
		{"name too long", `{"name":"` + strings.Repeat("n", maxNameLen+1) + `","address":"x:1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, mux, http.MethodPost, "/servers/register", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRegisterAcceptsUncappedAnyVersionRelay(t *testing.T) {
	reg := NewRegistry(time.Minute)
	rec := do(t, newMux(reg), http.MethodPost, "/servers/register", `{"name":"lan","address":"10.0.0.5:7373","players":9}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if list := reg.List("gridduel/1"); len(list) != 1 || list[0].MaxPlayers != 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestHeartbeatValidation(t *testing.T) {
	reg := NewRegistry(time.Minute)
	mux := newMux(reg)
	id := reg.Register(RelayInfo{Name: "x", Address: "x:1", MaxPlayers: 4})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"negative players", `{"id":"` + id + `","players":-1}`, http.StatusBadRequest},
		{"over capacity", `{"id":"` + id + `","players":6}`, http.StatusBadRequest},
		{"unknown relay", `{"id":"nope","players":1}`, http.StatusNotFound},
		{"full room", `{"id":"` + id + `","players":4}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/servers/heartbeat", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Errorf("response is not json: %v", err)
			}
		})
	}
	if list := reg.List(""); list[0].Players != 4 {
		t.Errorf("players = %d, want 4", list[0].Players)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newMux(NewRegistry(time.Minute)), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}
}
