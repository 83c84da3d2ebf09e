package systems

import (
	"math"

	"github.com/automoto/gridduel/components"
	cfg "github.com/automoto/gridduel/config"
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
	"github.com/automoto/gridduel/shared/sim"
	"github.com/automoto/gridduel/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi/ecs"
)

// BotInput returns the bot's input for the next simulation frame. The bot
// re-decides every ReactionDelay frames and only presses fire on the first
// frame of a decision so the shot re-arms in between.
func BotInput(e *ecs.ECS) input.Bits {
	entry, ok := components.Bot.First(e.World)
	if !ok {
		return input.Blank
	}
	bot := components.Bot.Get(entry)

	matchEntry, ok := components.Match.First(e.World)
	if !ok {
		return input.Blank
	}
	st := components.Match.Get(matchEntry).State
	if st == nil || st.Round != sim.InRound {
		bot.Timer = 0
		return input.Blank
	}

	var space *resolv.Space
	if spaceEntry, ok := components.Space.First(e.World); ok {
		space = components.Space.Get(spaceEntry)
	}

	if bot.Timer > 0 {
		bot.Timer--
		return bot.Decision &^ input.Fire
	}

	difficulty := cfg.Bot.Difficulties[cfg.Bot.Difficulty]
	bot.Timer = difficulty.ReactionDelay
	bot.Strafe = !bot.Strafe
	bot.Decision = decide(st, bot, space, difficulty)
	return bot.Decision
}

func decide(st *sim.State, bot *components.BotData, space *resolv.Space, d cfg.BotDifficultyConfig) input.Bits {
	me := st.Players[bot.Handle]
	if !me.Alive || me.Marked {
		return input.Blank
	}
	opp := st.Players[(bot.Handle+1)%sim.NumPlayers]
	if !opp.Alive || opp.Marked {
		return wander(&st.Map, me, bot.Strafe)
	}

	delta := opp.Pos.Sub(me.Pos)
	dx, dy := float64(delta.X), float64(delta.Y)
	tol := d.AimTolerance

	// Lined up on an axis with a clear shot: face the target and fire.
	if hasLineOfSight(space, me.Pos, opp.Pos) {
		if math.Abs(dy) <= tol {
			return towardX(dx) | input.Fire
		}
		if math.Abs(dx) <= tol {
			return towardY(dy) | input.Fire
		}
	}

	// Close the smaller gap to line up, backing off along the other axis
	// when too close.
	var move input.Bits
	if math.Abs(dx) < math.Abs(dy) {
		move = towardX(dx)
		if math.Abs(dy) < d.KeepDistance {
			move |= towardY(-dy)
		}
	} else {
		move = towardY(dy)
		if math.Abs(dx) < d.KeepDistance {
			move |= towardX(-dx)
		}
	}
	if blockedAhead(&st.Map, me.Pos, move) {
		return wander(&st.Map, me, bot.Strafe)
	}
	return move
}

func towardX(dx float64) input.Bits {
	if dx < 0 {
		return input.Left
	}
	return input.Right
}

func towardY(dy float64) input.Bits {
	if dy < 0 {
		return input.Down
	}
	return input.Up
}

// wander sidesteps across the current facing, alternating sides.
func wander(m *gridmap.Map, me sim.Player, strafe bool) input.Bits {
	var candidates []input.Bits
	if me.Dir.X != 0 {
		candidates = []input.Bits{input.Up, input.Down, input.Right, input.Left}
	} else {
		candidates = []input.Bits{input.Left, input.Right, input.Up, input.Down}
	}
	if strafe {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}
	for _, b := range candidates {
		if !blockedAhead(m, me.Pos, b) {
			return b
		}
	}
	return input.Blank
}

func blockedAhead(m *gridmap.Map, pos gamemath.Vec2, b input.Bits) bool {
	dir := b.Direction()
	if dir.IsZero() {
		return false
	}
	return sim.Blocked(m, pos.Add(dir.Scale(0.5)))
}

// hasLineOfSight samples the segment between two world points against the
// wall boxes in space.
func hasLineOfSight(space *resolv.Space, from, to gamemath.Vec2) bool {
	if space == nil {
		return true // Assume clear if no space available
	}

	// the space is in world units shifted so the arena starts at 0
	x1, y1 := float64(from.X+gridmap.HalfExtent), float64(from.Y+gridmap.HalfExtent)
	x2, y2 := float64(to.X+gridmap.HalfExtent), float64(to.Y+gridmap.HalfExtent)

	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return true
	}
	dx /= dist
	dy /= dist

	step := cfg.Bot.LOSStep
	size := cfg.Bot.LOSCheckSize

	for d := step; d < dist-step; d += step {
		checkX := x1 + dx*d
		checkY := y1 + dy*d

		for _, obj := range space.Objects() {
			if !obj.HasTags(tags.ResolvSolid) {
				continue
			}
			if checkX+size > obj.X && checkX-size < obj.X+obj.W &&
				checkY+size > obj.Y && checkY-size < obj.Y+obj.H {
				return false
			}
		}
	}
	return true
}
