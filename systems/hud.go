package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/fonts"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

// DrawHUD renders the scores, the respawn banner and the waiting notice.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.Match.First(e.World)
	if !ok {
		return
	}
	match := components.Match.Get(entry)

	if !match.Running || match.State == nil {
		drawCentred(screen, cfg.HUD.WaitingText, fonts.Bold.Get(), cfg.C.Height/2, cfg.White)
		return
	}
	st := match.State

	face := fonts.Bold.Get()
	margin := int(cfg.HUD.Margin)
	for h, score := range st.Scores {
		label := fmt.Sprintf("P%d  %d", h+1, score)
		if h == match.LocalHandle && !match.Practice {
			label += "  (you)"
		}
		bounds := text.BoundString(face, label)
		x := margin
		if h == 1 {
			x = cfg.C.Width - margin - bounds.Dx()
		}
		text.Draw(screen, label, face, x, margin+bounds.Dy(), cfg.Arena.PlayerColors[h]) //nolint:staticcheck
	}

	local := st.Players[match.LocalHandle]
	if st.Round == sim.RoundEnd || local.Marked {
		drawCentred(screen, cfg.HUD.BannerText, fonts.Title.Get(), cfg.C.Height/3, cfg.HUD.BannerColor)
	}
	if match.Practice {
		drawCentred(screen, "practice: "+match.Arena, fonts.Small.Get(), cfg.C.Height-margin, cfg.White)
	}
}

func drawCentred(screen *ebiten.Image, s string, face font.Face, y int, clr color.Color) {
	bounds := text.BoundString(face, s) //nolint:staticcheck
	x := (cfg.C.Width - bounds.Dx()) / 2
	text.Draw(screen, s, face, x, y, clr) //nolint:staticcheck
}

// NetStatsLines formats the link to one remote player for the overlay.
func NetStatsLines(handle int, s rollback.NetworkStats) []string {
	status := "connected"
	if s.Disconnected {
		status = "disconnected"
	}
	return []string{
		fmt.Sprintf("player %d: %s", handle+1, status),
		fmt.Sprintf("  ping %v  queue %d", s.Ping, s.SendQueueLen),
		fmt.Sprintf("  behind local %d remote %d", s.LocalFramesBehind, s.RemoteFramesBehind),
		fmt.Sprintf("  sent %d packets / %d bytes", s.PacketsSent, s.BytesSent),
	}
}

// NewNetStatsUpdater toggles the network overlay and refreshes its lines
// from source every few frames.
func NewNetStatsUpdater(source func() []string) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		stats := getOrCreateNetStats(e)
		if GetAction(getOrCreateInput(e), cfg.ActionToggleStats).JustPressed {
			stats.Visible = !stats.Visible
			stats.Timer = 0
		}
		if !stats.Visible {
			return
		}
		stats.Timer--
		if stats.Timer > 0 {
			return
		}
		stats.Timer = cfg.HUD.StatsRefresh
		stats.Lines = source()
	}
}

// DrawNetStats renders the overlay in the bottom-left corner.
func DrawNetStats(e *ecs.ECS, screen *ebiten.Image) {
	stats := getOrCreateNetStats(e)
	if !stats.Visible || len(stats.Lines) == 0 {
		return
	}
	face := fonts.Mono.Get()
	lineHeight := face.Metrics().Height.Ceil()
	margin := float32(cfg.HUD.Margin)
	h := float32(lineHeight*len(stats.Lines)) + margin
	y := float32(cfg.C.Height) - margin - h

	vector.FillRect(screen, margin, y, 260, h, cfg.HUD.StatsBgColor, false)
	for i, line := range stats.Lines {
		text.Draw(screen, line, face, int(margin)+4, int(y)+lineHeight*(i+1), cfg.HUD.StatsColor) //nolint:staticcheck
	}
}

func getOrCreateNetStats(e *ecs.ECS) *components.NetStatsData {
	entry, ok := components.NetStats.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.NetStats))
		components.NetStats.SetValue(entry, components.NetStatsData{Visible: cfg.Debug.ShowNetStats})
	}
	return components.NetStats.Get(entry)
}
