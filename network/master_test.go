package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchRelays(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/servers" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("version")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","name":"eu-1","address":"relay.example:7373","players":1,"maxPlayers":2,"version":"gridduel/1","region":"eu"}]`))
	}))
	defer srv.Close()

	relays, err := FetchRelays(context.Background(), srv.Client(), srv.URL+"/", "gridduel/1")
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "gridduel/1" {
		t.Errorf("version query = %q", gotQuery)
	}
	if len(relays) != 1 || relays[0].Address != "relay.example:7373" {
		t.Fatalf("relays = %+v", relays)
	}
	if got, want := relays[0].Label(), "eu-1  1/2  eu"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}

func TestFetchRelaysStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := FetchRelays(context.Background(), srv.Client(), srv.URL, ""); err == nil {
		t.Error("non-200 answer accepted")
	}
}

func TestRelayEntryLabelFallsBackToAddress(t *testing.T) {
	r := RelayEntry{Address: "10.0.0.2:7373", MaxPlayers: 2}
	if got := r.Label(); got != "10.0.0.2:7373  0/2" {
		t.Errorf("Label = %q", got)
	}
}
