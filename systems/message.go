package systems

import (
	"fmt"
	"sort"

	"github.com/automoto/gridduel/archetypes"
	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/fonts"
	"github.com/automoto/gridduel/rollback"
	"github.com/automoto/gridduel/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var toastSeq int

// PushToast shows text at the top of the screen for a few seconds.
func PushToast(e *ecs.ECS, msg string, warn bool) {
	toastSeq++
	entry := archetypes.Toast.Spawn(e)
	components.Toast.SetValue(entry, components.ToastData{
		Text:  msg,
		Warn:  warn,
		Timer: cfg.Message.DisplayDuration,
		Seq:   toastSeq,
	})
}

// ToastForEvent returns the notice shown for a session event. Events that
// are handled silently return ok == false.
func ToastForEvent(ev rollback.Event) (msg string, warn, ok bool) {
	switch ev.Kind {
	case rollback.EventSynchronized:
		return "connected", false, true
	case rollback.EventInterrupted:
		return fmt.Sprintf("connection to player %d interrupted", ev.Handle+1), true, true
	case rollback.EventResumed:
		return fmt.Sprintf("player %d is back", ev.Handle+1), false, true
	case rollback.EventDisconnected:
		return fmt.Sprintf("player %d disconnected", ev.Handle+1), true, true
	case rollback.EventDesync:
		return fmt.Sprintf("desync at frame %d", ev.Frame), true, true
	}
	return "", false, false
}

// UpdateToasts counts down and removes expired toasts.
func UpdateToasts(e *ecs.ECS) {
	var expired []*donburi.Entry
	tags.Toast.Each(e.World, func(entry *donburi.Entry) {
		t := components.Toast.Get(entry)
		t.Timer--
		if t.Timer <= 0 {
			expired = append(expired, entry)
		}
	})
	for _, entry := range expired {
		e.World.Remove(entry.Entity())
	}
}

// DrawToasts renders the newest toasts, stacked down from the top centre.
func DrawToasts(e *ecs.ECS, screen *ebiten.Image) {
	var toasts []*components.ToastData
	tags.Toast.Each(e.World, func(entry *donburi.Entry) {
		toasts = append(toasts, components.Toast.Get(entry))
	})
	if len(toasts) == 0 {
		return
	}
	sort.Slice(toasts, func(i, j int) bool { return toasts[i].Seq > toasts[j].Seq })
	if len(toasts) > cfg.Message.MaxVisible {
		toasts = toasts[:cfg.Message.MaxVisible]
	}

	face := fonts.Bold.Get()
	padding := float32(cfg.Message.BoxPadding)
	y := float32(cfg.Message.TopMargin)
	screenWidth := float32(screen.Bounds().Dx())

	for _, t := range toasts {
		bounds := text.BoundString(face, t.Text) //nolint:staticcheck // TODO: migrate to text/v2
		w := float32(bounds.Dx()) + padding*2
		h := float32(bounds.Dy()) + padding*2
		x := (screenWidth - w) / 2

		vector.FillRect(screen, x, y, w, h, cfg.Message.BoxColor, false)
		clr := cfg.Message.TextColor
		if t.Warn {
			clr = cfg.Message.WarnColor
		}
		text.Draw(screen, t.Text, face, int(x+padding), int(y+padding)+bounds.Dy(), clr) //nolint:staticcheck
		y += h + float32(cfg.Message.LineGap)
	}
}
