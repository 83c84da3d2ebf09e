package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"slices"
	"sync"

	"github.com/automoto/gridduel/assets"
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/network"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/automoto/gridduel/systems"
	"github.com/automoto/gridduel/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// disconnectLinger is how long the match stays on screen after the
// opponent has dropped.
const disconnectLinger = 3 * sim.FPS

// MatchScene plays an online duel over a relay room.
type MatchScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	once         sync.Once

	relay   *network.RelayClient
	match   rollback.Match
	room    string
	session *rollback.P2PSession

	skipFrames  int
	lingerTimer int
	leaving     bool
}

func NewMatchScene(sc SceneChanger, relay *network.RelayClient, match rollback.Match, room string) *MatchScene {
	return &MatchScene{
		sceneChanger: sc,
		relay:        relay,
		match:        match,
		room:         room,
	}
}

func (ms *MatchScene) Update() {
	ms.once.Do(ms.configure)
	if ms.leaving {
		return
	}
	ms.ecs.Update()
}

func (ms *MatchScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ms.ecs == nil {
		return
	}
	ms.ecs.Draw(screen)
}

func (ms *MatchScene) configure() {
	ms.ecs = ecs.NewECS(donburi.NewWorld())

	game := assets.SimForRoom(ms.room)
	arenaName := assets.GeneratedArena
	if slices.Contains(assets.ArenaNames(), ms.room) {
		arenaName = ms.room
	}
	factory.CreateLevel(ms.ecs, arenaName, game.Arena())
	factory.CreateCamera(ms.ecs)
	systems.GetOrCreateAudio(ms.ecs)

	session, err := rollback.NewP2PSession(cfg.Rollback, ms.relay, ms.match, game, systems.NewMatchObserver(ms.ecs))
	if err != nil {
		log.Printf("[match] %v", err)
		ms.leave()
		return
	}
	ms.session = session
	factory.CreateMatch(ms.ecs, components.MatchData{
		State:       session.State(),
		Arena:       arenaName,
		LocalHandle: session.LocalHandle(),
	})

	ms.ecs.AddSystem(systems.UpdateInput)
	ms.ecs.AddSystem(systems.NewUpdatePause(ms.leave))
	ms.ecs.AddSystem(ms.tick)
	ms.ecs.AddSystem(systems.UpdateCamera)
	ms.ecs.AddSystem(systems.UpdateEffects)
	ms.ecs.AddSystem(systems.UpdateToasts)
	ms.ecs.AddSystem(systems.UpdateAudio)
	ms.ecs.AddSystem(systems.NewNetStatsUpdater(ms.statsLines))

	ms.ecs.AddRenderer(cfg.LayerWorld, systems.DrawArena)
	ms.ecs.AddRenderer(cfg.LayerWorld, systems.DrawEntities)
	ms.ecs.AddRenderer(cfg.LayerEffects, systems.DrawEffects)
	ms.ecs.AddRenderer(cfg.LayerHUD, systems.DrawHUD)
	ms.ecs.AddRenderer(cfg.LayerHUD, systems.DrawToasts)
	ms.ecs.AddRenderer(cfg.LayerHUD, systems.DrawNetStats)
	ms.ecs.AddRenderer(cfg.LayerHUD, systems.DrawPause)

	systems.PlayMusic(ms.ecs, systems.MusicMatch)
}

// tick advances the session by one frame. The pause menu only hides the
// match; the opponent keeps playing, so local input is blanked instead.
func (ms *MatchScene) tick(e *ecs.ECS) {
	if ms.leaving {
		return
	}
	switch ms.relay.State() {
	case network.StateError, network.StateDisconnected:
		systems.PushToast(e, "lost connection to relay", true)
		ms.leave()
		return
	}

	var err error
	if ms.skipFrames > 0 {
		ms.skipFrames--
		err = ms.session.Poll()
	} else {
		local := systems.LocalInput(e)
		if systems.IsPaused(e) {
			local = input.Blank
		}
		err = ms.session.AdvanceFrame(local)
	}
	switch {
	case err == nil,
		errors.Is(err, rollback.ErrNotSynchronized),
		errors.Is(err, rollback.ErrPredictionThreshold):
	case rollback.IsFatal(err):
		log.Printf("[match] session ended: %v", err)
		ms.leave()
		return
	default:
		log.Printf("[match] %v", err)
	}

	for _, ev := range ms.session.Events() {
		if msg, warn, ok := systems.ToastForEvent(ev); ok {
			systems.PushToast(e, msg, warn)
		}
		switch ev.Kind {
		case rollback.EventTimeSync:
			ms.skipFrames = max(ms.skipFrames, ev.FramesAhead)
		case rollback.EventDisconnected:
			ms.lingerTimer = disconnectLinger
		case rollback.EventDesync:
			log.Printf("[match] %v", ev)
		}
	}

	if ms.lingerTimer > 0 {
		ms.lingerTimer--
		if ms.lingerTimer == 0 {
			ms.leave()
			return
		}
	}

	if entry, ok := components.Match.First(e.World); ok {
		match := components.Match.Get(entry)
		match.State = ms.session.State()
		match.Running = ms.session.Running()
	}
}

func (ms *MatchScene) statsLines() []string {
	count, frames := ms.session.Rollbacks()
	lines := []string{
		fmt.Sprintf("frame %d  confirmed %d", ms.session.CurrentFrame(), ms.session.ConfirmedFrame()),
		fmt.Sprintf("rollbacks %d (%d frames)", count, frames),
		fmt.Sprintf("relay dropped %d", ms.relay.Dropped()),
	}
	for handle := range ms.match.Players {
		if handle == ms.session.LocalHandle() {
			continue
		}
		stats, err := ms.session.NetworkStats(handle)
		if err != nil {
			continue
		}
		lines = append(lines, systems.NetStatsLines(handle, stats)...)
	}
	return lines
}

// leave closes the relay connection and returns to the relay browser.
func (ms *MatchScene) leave() {
	if ms.leaving {
		return
	}
	ms.leaving = true
	ms.relay.Disconnect()
	systems.StopSoundEffects(ms.ecs)
	systems.FadeOutMusic(ms.ecs)
	ms.sceneChanger.ChangeScene(NewBrowserScene(ms.sceneChanger))
}
