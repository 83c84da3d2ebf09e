package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"sync"
	"time"

	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/network"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/automoto/gridduel/systems"
	"github.com/automoto/gridduel/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// BrowserScene lists relays, joins a room and waits there until the
// matchmaker has found an opponent.
type BrowserScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	browserUI    *ui.RelayBrowserUI
	once         sync.Once
	shouldGoBack bool

	relay      *network.RelayClient
	room       string
	matchmaker *rollback.Matchmaker

	mu            sync.Mutex
	fetchedRelays []network.RelayEntry
	fetchErr      error
	fetchDone     bool
	httpClient    *http.Client
}

func NewBrowserScene(sc SceneChanger) *BrowserScene {
	return &BrowserScene{
		sceneChanger: sc,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *BrowserScene) Update() {
	s.once.Do(s.configure)

	s.ecsWorld.Update()
	s.browserUI.Update()

	// Apply fetch results on the main goroutine
	s.mu.Lock()
	if s.fetchDone {
		relays, err := s.fetchedRelays, s.fetchErr
		s.fetchDone = false
		s.fetchedRelays = nil
		s.fetchErr = nil
		s.mu.Unlock()

		s.browserUI.SetRefreshing(false)
		if err != nil {
			s.browserUI.SetBrowseStatus(err.Error())
		} else {
			s.browserUI.SetRelayList(relays)
			s.browserUI.SetBrowseStatus("")
		}
	} else {
		s.mu.Unlock()
	}

	if s.shouldGoBack {
		s.dropRelay()
		systems.FadeOutMusic(s.ecsWorld)
		s.sceneChanger.ChangeScene(NewMenuScene(s.sceneChanger))
		return
	}

	if s.relay == nil {
		return
	}
	switch s.relay.State() {
	case network.StateConnecting:
		s.browserUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.browserUI.SetStatus("Connected, joining room...")

	case network.StateInRoom:
		if s.matchmaker == nil {
			s.matchmaker = rollback.NewMatchmaker(s.relay, sim.NumPlayers)
		}
		match, ok := s.matchmaker.Poll()
		if !ok {
			s.browserUI.SetStatus(fmt.Sprintf("Waiting in room %q (%d/%d)",
				s.room, s.matchmaker.Waiting()+1, sim.NumPlayers))
			return
		}
		log.Printf("[browser] match found in %q: handle %d of %d", s.room, match.LocalHandle, len(match.Players))
		relay := s.relay
		s.relay = nil
		s.matchmaker = nil
		systems.FadeOutMusic(s.ecsWorld)
		s.sceneChanger.ChangeScene(NewMatchScene(s.sceneChanger, relay, match, s.room))

	case network.StateError:
		msg := "Connection failed"
		if err := s.relay.LastError(); err != nil {
			msg = err.Error()
		}
		s.browserUI.SetStatus(msg)
		s.dropRelay()

	case network.StateDisconnected:
		s.browserUI.SetStatus("Disconnected")
		s.dropRelay()
	}
}

func (s *BrowserScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	if s.ecsWorld == nil {
		return
	}
	s.browserUI.UI.Draw(screen)
}

func (s *BrowserScene) configure() {
	s.ecsWorld = ecs.NewECS(donburi.NewWorld())
	s.ecsWorld.AddSystem(systems.UpdateAudio)

	s.browserUI = ui.NewRelayBrowserUI(
		cfg.Network.RelayAddress,
		cfg.Network.Room,
		s.onConnect,
		func() { s.shouldGoBack = true },
		s.fetchRelays,
	)

	systems.PlayMusic(s.ecsWorld, systems.MusicMenu)

	// Auto-fetch relay list on scene entry
	s.fetchRelays()
}

func (s *BrowserScene) onConnect(address, room string) {
	s.dropRelay()

	cfg.Network.RelayAddress = address
	cfg.Network.Room = room
	systems.SaveCurrentSettings()

	s.browserUI.SetStatus("Connecting...")
	s.browserUI.SetConnecting(true)

	s.room = room
	s.relay = network.NewRelayClient()
	s.relay.Connect(address, room)
}

func (s *BrowserScene) dropRelay() {
	if s.relay != nil {
		s.relay.Disconnect()
		s.relay = nil
	}
	s.matchmaker = nil
	s.browserUI.SetConnecting(false)
}

func (s *BrowserScene) fetchRelays() {
	s.browserUI.SetBrowseStatus("Fetching relays...")
	s.browserUI.SetRefreshing(true)

	go s.queryMasterServer()
}

func (s *BrowserScene) queryMasterServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	relays, err := network.FetchRelays(ctx, s.httpClient, cfg.Network.MasterServerURL, cfg.Network.GameVersion)
	if err != nil {
		log.Printf("[browser] %v", err)
	}

	s.mu.Lock()
	s.fetchedRelays = relays
	s.fetchErr = err
	s.fetchDone = true
	s.mu.Unlock()
}
