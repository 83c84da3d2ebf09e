package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/automoto/gridduel/assets"
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/automoto/gridduel/systems"
	"github.com/automoto/gridduel/systems/factory"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const botHandle = 1

// PracticeScene plays against a local bot. Every frame runs through a
// sync test session, so a nondeterministic step shows up here first.
type PracticeScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	once         sync.Once
	arena        string

	session *rollback.SyncTestSession
	leaving bool
}

func NewPracticeScene(sc SceneChanger, arena string) *PracticeScene {
	return &PracticeScene{sceneChanger: sc, arena: arena}
}

func (ps *PracticeScene) Update() {
	ps.once.Do(ps.configure)
	if ps.leaving {
		return
	}
	ps.ecs.Update()
}

func (ps *PracticeScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	if ps.ecs == nil {
		return
	}
	ps.ecs.Draw(screen)
}

func (ps *PracticeScene) configure() {
	ps.ecs = ecs.NewECS(donburi.NewWorld())

	m, err := assets.Arena(ps.arena)
	if err != nil {
		log.Printf("[practice] %v, using %s", err, assets.GeneratedArena)
		ps.arena = assets.GeneratedArena
		m, _ = assets.Arena(ps.arena)
	}
	if ps.arena == "" {
		ps.arena = assets.GeneratedArena
	}
	game := sim.New(m)

	factory.CreateLevel(ps.ecs, ps.arena, m)
	factory.CreateCamera(ps.ecs)
	factory.CreateBot(ps.ecs, botHandle)
	systems.GetOrCreateAudio(ps.ecs)

	session, err := rollback.NewSyncTestSession(cfg.Rollback, game, rand.Uint64(), systems.NewMatchObserver(ps.ecs))
	if err != nil {
		log.Printf("[practice] %v", err)
		ps.leave()
		return
	}
	ps.session = session
	factory.CreateMatch(ps.ecs, components.MatchData{
		State:       session.State(),
		Arena:       ps.arena,
		LocalHandle: 1 - botHandle,
		Running:     true,
		Practice:    true,
	})

	ps.ecs.AddSystem(systems.UpdateInput)
	ps.ecs.AddSystem(systems.NewUpdatePause(ps.leave))
	ps.ecs.AddSystem(ps.tick)
	ps.ecs.AddSystem(systems.UpdateCamera)
	ps.ecs.AddSystem(systems.UpdateEffects)
	ps.ecs.AddSystem(systems.UpdateToasts)
	ps.ecs.AddSystem(systems.UpdateAudio)
	ps.ecs.AddSystem(systems.NewNetStatsUpdater(ps.statsLines))

	ps.ecs.AddRenderer(cfg.LayerWorld, systems.DrawArena)
	ps.ecs.AddRenderer(cfg.LayerWorld, systems.DrawEntities)
	ps.ecs.AddRenderer(cfg.LayerEffects, systems.DrawEffects)
	ps.ecs.AddRenderer(cfg.LayerEffects, systems.DrawDebug)
	ps.ecs.AddRenderer(cfg.LayerHUD, systems.DrawHUD)
	ps.ecs.AddRenderer(cfg.LayerHUD, systems.DrawToasts)
	ps.ecs.AddRenderer(cfg.LayerHUD, systems.DrawNetStats)
	ps.ecs.AddRenderer(cfg.LayerHUD, systems.DrawPause)

	systems.PlayMusic(ps.ecs, systems.MusicMatch)
}

// tick steps the simulation unless the pause menu is open.
func (ps *PracticeScene) tick(e *ecs.ECS) {
	if ps.leaving || systems.IsPaused(e) {
		return
	}

	var inputs [sim.NumPlayers]input.Bits
	inputs[1-botHandle] = systems.LocalInput(e)
	inputs[botHandle] = systems.BotInput(e)

	if err := ps.session.AdvanceFrame(inputs); err != nil {
		log.Printf("[practice] sync test failed: %v", err)
		if rollback.IsFatal(err) {
			ps.leave()
			return
		}
		systems.PushToast(e, "sync test error", true)
	}

	if entry, ok := components.Match.First(e.World); ok {
		components.Match.Get(entry).State = ps.session.State()
	}
}

func (ps *PracticeScene) statsLines() []string {
	st := ps.session.State()
	started, late, dropped := systems.GetOrCreateAudio(ps.ecs).Syncer.Stats()
	return []string{
		fmt.Sprintf("frame %d  checksum %016x", ps.session.CurrentFrame(), st.Checksum()),
		fmt.Sprintf("round %v  bullets %d", st.Round, st.LiveBullets()),
		fmt.Sprintf("sounds started %d late %d dropped %d", started, late, dropped),
		fmt.Sprintf("check distance %d", cfg.Rollback.CheckDistance),
	}
}

// leave returns to the main menu.
func (ps *PracticeScene) leave() {
	if ps.leaving {
		return
	}
	ps.leaving = true
	systems.StopSoundEffects(ps.ecs)
	systems.FadeOutMusic(ps.ecs)
	ps.sceneChanger.ChangeScene(NewMenuScene(ps.sceneChanger))
}
