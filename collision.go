package main

// CheckCollision reports whether a squared distance is strictly inside the
// combined radius. Touching is not a hit.
func CheckCollision(distSq, radSum float64) bool {
	return distSq < radSum*radSum
}

// CollisionResolver runs the per-tick hit passes. It keeps its grid and
// query buffer between ticks.
type CollisionResolver struct {
	grid *SpatialGrid
	buf  []EntityRef
}

// NewCollisionResolver sizes the broad-phase grid to the culling box
func NewCollisionResolver(b Bounds) *CollisionResolver {
	return &CollisionResolver{
		grid: NewSpatialGrid(b.HalfX, b.HalfZ),
		buf:  make([]EntityRef, 0, 16),
	}
}

// Resolve runs all three passes against the same post-integration state:
// enemy shots vs player, player body vs actors, player shots vs actors.
func (r *CollisionResolver) Resolve(cfg *Config, p *Player, roster []*Actor, enemyShots, playerShots *ProjectilePool, events *EventQueue) {
	if p.Active {
		r.enemyShotsVsPlayer(cfg, p, enemyShots, events)
	}
	if p.Active {
		r.bodiesVsPlayer(cfg, p, roster, events)
	}
	r.playerShotsVsActors(cfg, roster, playerShots, events)
}

func (r *CollisionResolver) enemyShotsVsPlayer(cfg *Config, p *Player, shots *ProjectilePool, events *EventQueue) {
	rad := cfg.Player.HitRadius + cfg.Pools.EnemyShotRadius
	shots.Each(func(i int, pos Vec3) {
		if !p.Active {
			return
		}
		if CheckCollision(pos.DistSq(p.Pos), rad) {
			shots.Deactivate(i)
			p.Hit(cfg, events)
		}
	})
}

func (r *CollisionResolver) bodiesVsPlayer(cfg *Config, p *Player, roster []*Actor, events *EventQueue) {
	for _, a := range roster {
		if !a.Active || !p.Active {
			continue
		}
		if CheckCollision(a.Pos.DistSq(p.Pos), cfg.Player.BodyRadius+a.BodyRadius(cfg)) {
			p.Hit(cfg, events)
		}
	}
}

func (r *CollisionResolver) playerShotsVsActors(cfg *Config, roster []*Actor, shots *ProjectilePool, events *EventQueue) {
	if shots.ActiveCount() == 0 || len(roster) == 0 {
		return
	}
	r.grid.Clear()
	inserted := false
	for i, a := range roster {
		if a.Active {
			r.grid.InsertCircle(a.Pos.X, a.Pos.Z, a.ShotRadius(cfg), EntityRef{Idx: i})
			inserted = true
		}
	}
	if !inserted {
		return
	}

	shots.Each(func(i int, pos Vec3) {
		r.buf = r.grid.QueryBuf(pos.X, pos.Z, 0, r.buf[:0])
		hit := -1
		for _, ref := range r.buf {
			if hit >= 0 && ref.Idx >= hit {
				continue
			}
			a := roster[ref.Idx]
			if !a.Active {
				continue
			}
			rad := a.ShotRadius(cfg)
			if CheckCollision(pos.DistSqXZ(a.Pos), rad) {
				hit = ref.Idx
			}
		}
		if hit < 0 {
			return
		}
		shots.Deactivate(i)
		roster[hit].TakeDamage(1, events)
	})
}
