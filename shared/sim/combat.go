package sim

import (
	"github.com/automoto/gridduel/shared/gamemath"
	"github.com/automoto/gridduel/shared/gridmap"
	"github.com/automoto/gridduel/shared/input"
)

// reloadBullets re-arms every player not holding fire this frame.
func reloadBullets(st *State, inputs [NumPlayers]input.Bits) {
	for h := range st.Players {
		p := &st.Players[h]
		if p.Alive && !inputs[h].Fire() {
			p.BulletReady = true
		}
	}
}

func fireBullets(st *State, inputs [NumPlayers]input.Bits) {
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive || p.Marked || !p.BulletReady || !inputs[h].Fire() {
			continue
		}
		p.BulletReady = false
		muzzle := p.Pos.Add(p.Dir.Scale(PlayerRadius + BulletRadius))
		spawnBullet(st, h, muzzle, p.Dir)
		st.addSound(ClipLaser, h, p.Pos)
	}
}

// spawnBullet uses the first free slot. With every slot in flight the shot
// is lost.
func spawnBullet(st *State, owner int, pos, dir gamemath.Vec2) {
	for i := range st.Bullets {
		if st.Bullets[i].Alive {
			continue
		}
		st.Bullets[i] = Bullet{Alive: true, Owner: uint8(owner), Pos: pos, Dir: dir}
		return
	}
}

// moveBullets advances bullets and removes the ones that left the arena or
// entered a wall cell.
func moveBullets(st *State) {
	for i := range st.Bullets {
		b := &st.Bullets[i]
		if !b.Alive {
			continue
		}
		b.Pos = b.Pos.Add(b.Dir.Scale(BulletSpeed))
		x, y, ok := gridmap.WorldToGrid(b.Pos)
		if !ok || st.Map.IsWall(x, y) {
			*b = Bullet{}
		}
	}
}

// killPlayers marks every unmarked player touching a bullet. The player stays
// in the arena until the mark is confirmed so a hit undone by a rollback
// never shows up as a score change.
func killPlayers(st *State, obs Observer) {
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive || p.Marked {
			continue
		}
		for i := range st.Bullets {
			b := &st.Bullets[i]
			if !b.Alive || p.Pos.DistanceSquared(b.Pos) >= hitDistanceSquared {
				continue
			}
			p.Marked = true
			p.DeathTimer = DeathMarkFrames
			*b = Bullet{}
			obs.Explosion(Explosion{Frame: st.Frame, Handle: h, Pos: p.Pos})
			st.addSound(ClipDeath, h, p.Pos)
			break
		}
	}
}

// processDeaths ticks death marks and reports whether one has elapsed.
func processDeaths(st *State) bool {
	over := false
	for h := range st.Players {
		p := &st.Players[h]
		if !p.Alive || !p.Marked {
			continue
		}
		if p.DeathTimer > 0 {
			p.DeathTimer--
		}
		if p.DeathTimer == 0 {
			over = true
		}
	}
	return over
}
