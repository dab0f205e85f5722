package main

// Bounds is the culling box around the stage. Anything outside is retired.
type Bounds struct {
	HalfX, HalfZ float64
	MinY, MaxY   float64
}

// Contains reports whether (x,y,z) lies inside the box
func (b Bounds) Contains(x, y, z float64) bool {
	return x >= -b.HalfX && x <= b.HalfX &&
		z >= -b.HalfZ && z <= b.HalfZ &&
		y >= b.MinY && y <= b.MaxY
}

// Spawner accepts new projectiles. Returns false when the shot was dropped.
type Spawner interface {
	Spawn(pos, vel Vec3) bool
}

// ProjectilePool is a fixed-capacity arena of projectiles stored as parallel
// arrays. A slot index is only meaningful during one active lifetime: once
// deactivated it may be handed to an unrelated projectile.
type ProjectilePool struct {
	capacity  int
	positions []float64 // x,y,z per slot
	velocity  []float64
	active    []bool
	count     int
	freeHint  int // every slot below this index is active
	dirty     bool
	bounds    Bounds
}

// NewProjectilePool allocates a pool with all slots inactive
func NewProjectilePool(capacity int, bounds Bounds) *ProjectilePool {
	if capacity < 0 {
		capacity = 0
	}
	return &ProjectilePool{
		capacity:  capacity,
		positions: make([]float64, capacity*3),
		velocity:  make([]float64, capacity*3),
		active:    make([]bool, capacity),
		bounds:    bounds,
	}
}

// Spawn claims the first inactive slot. A full pool drops the shot silently.
func (p *ProjectilePool) Spawn(pos, vel Vec3) bool {
	idx := -1
	for i := p.freeHint; i < p.capacity; i++ {
		if !p.active[i] {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.freeHint = p.capacity
		return false
	}

	p.active[idx] = true
	p.count++
	p.freeHint = idx + 1

	j := idx * 3
	p.positions[j] = pos.X
	p.positions[j+1] = pos.Y
	p.positions[j+2] = pos.Z
	p.velocity[j] = vel.X
	p.velocity[j+1] = vel.Y
	p.velocity[j+2] = vel.Z
	p.dirty = true
	return true
}

// Tick integrates every active slot in index order and retires the ones that
// left the bounds
func (p *ProjectilePool) Tick(dt float64) {
	if p.count == 0 {
		return
	}
	for i := 0; i < p.capacity; i++ {
		if !p.active[i] {
			continue
		}
		j := i * 3
		p.positions[j] += p.velocity[j] * dt
		p.positions[j+1] += p.velocity[j+1] * dt
		p.positions[j+2] += p.velocity[j+2] * dt

		if !p.bounds.Contains(p.positions[j], p.positions[j+1], p.positions[j+2]) {
			p.deactivate(i)
		}
	}
	p.dirty = true
}

// Deactivate retires slot i. Safe to call on inactive or out-of-range slots.
func (p *ProjectilePool) Deactivate(i int) {
	if i < 0 || i >= p.capacity || !p.active[i] {
		return
	}
	p.deactivate(i)
	p.dirty = true
}

func (p *ProjectilePool) deactivate(i int) {
	p.active[i] = false
	p.count--
	if i < p.freeHint {
		p.freeHint = i
	}
}

// Clear retires every slot
func (p *ProjectilePool) Clear() {
	for i := range p.active {
		p.active[i] = false
	}
	p.count = 0
	p.freeHint = 0
	p.dirty = true
}

// Capacity returns the fixed number of slots
func (p *ProjectilePool) Capacity() int { return p.capacity }

// ActiveCount returns the number of live projectiles
func (p *ProjectilePool) ActiveCount() int { return p.count }

// Active reports whether slot i holds a live projectile
func (p *ProjectilePool) Active(i int) bool {
	return i >= 0 && i < p.capacity && p.active[i]
}

// Position returns the position stored at slot i, zero for an index
// outside the pool
func (p *ProjectilePool) Position(i int) Vec3 {
	if i < 0 || i >= p.capacity {
		return Vec3{}
	}
	j := i * 3
	return Vec3{p.positions[j], p.positions[j+1], p.positions[j+2]}
}

// Velocity returns the velocity stored at slot i, zero for an index
// outside the pool
func (p *ProjectilePool) Velocity(i int) Vec3 {
	if i < 0 || i >= p.capacity {
		return Vec3{}
	}
	j := i * 3
	return Vec3{p.velocity[j], p.velocity[j+1], p.velocity[j+2]}
}

// Each calls fn for every active slot in index order
func (p *ProjectilePool) Each(fn func(i int, pos Vec3)) {
	if p.count == 0 {
		return
	}
	for i := 0; i < p.capacity; i++ {
		if p.active[i] {
			fn(i, p.Position(i))
		}
	}
}

// Dirty reports whether the pool changed since the last MarkClean. The
// renderer uses it to decide when to re-upload instance transforms.
func (p *ProjectilePool) Dirty() bool { return p.dirty }

// MarkClean acknowledges the current contents
func (p *ProjectilePool) MarkClean() { p.dirty = false }

// SetBounds replaces the culling box
func (p *ProjectilePool) SetBounds(b Bounds) { p.bounds = b }
