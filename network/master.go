package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// RelayEntry is one relay as listed by the master server.
type RelayEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

// Label is the text shown for the relay in the browser.
func (r RelayEntry) Label() string {
	name := r.Name
	if name == "" {
		name = r.Address
	}
	label := fmt.Sprintf("%s  %d/%d", name, r.Players, r.MaxPlayers)
	if r.Region != "" {
		label += "  " + r.Region
	}
	return label
}

// FetchRelays asks the master server at baseURL for the relays that accept
// version.
func FetchRelays(ctx context.Context, client *http.Client, baseURL, version string) ([]RelayEntry, error) {
	u := strings.TrimSuffix(baseURL, "/") + "/servers"
	if version != "" {
		u += "?version=" + url.QueryEscape(version)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query master server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("master server returned status %d", resp.StatusCode)
	}

	var relays []RelayEntry
	if err := json.NewDecoder(resp.Body).Decode(&relays); err != nil {
		return nil, fmt.Errorf("decode relay list: %w", err)
	}
	return relays, nil
}
