package main

import "math"

const (
	AimedSpeed  = 12.0
	SpiralCount = 3
	SpiralSpeed = 8.0
	NWaySpeed   = 10.0
	WaveSpeed   = 8.0
	OmniSpeed   = 8.0

	FlowerSpeedBase = 6.0
	FlowerAmplitude = 2.0
	FlowerPetals    = 5
)

// Shot is one spawn request produced by a pattern
type Shot struct {
	Pos Vec3
	Vel Vec3
}

// headingVel turns an angle measured from +Z into a flat velocity:
// sin gives the horizontal component, cos the depth component.
func headingVel(angle, speed float64) Vec3 {
	return Vec3{X: math.Sin(angle), Z: math.Cos(angle)}.Scale(speed)
}

// aimVel is the flat unit vector from origin to target scaled by speed.
// Coincident points fall back to straight forward.
func aimVel(origin, target Vec3, speed float64) Vec3 {
	dx := target.X - origin.X
	dz := target.Z - origin.Z
	l := math.Sqrt(dx*dx + dz*dz)
	if l == 0 {
		return Vec3{Z: speed}
	}
	return Vec3{X: dx / l, Z: dz / l}.Scale(speed)
}

// AppendAimed adds one shot flying at target
func AppendAimed(buf []Shot, origin, target Vec3, speed float64) []Shot {
	return append(buf, Shot{Pos: origin, Vel: aimVel(origin, target, speed)})
}

// AppendSpiral adds count shots rotating with time
func AppendSpiral(buf []Shot, origin Vec3, t float64, count int, speed float64) []Shot {
	base := t * 2
	for i := 0; i < count; i++ {
		a := base + 2*math.Pi*float64(i)/float64(count)
		buf = append(buf, Shot{Pos: origin, Vel: headingVel(a, speed)})
	}
	return buf
}

// AppendNWay adds a fan of count shots spread evenly over spread radians,
// centred on the aim angle to target. A single shot is a plain aimed shot.
func AppendNWay(buf []Shot, origin, target Vec3, count int, spread, speed float64) []Shot {
	if count <= 0 {
		return buf
	}
	v := aimVel(origin, target, speed)
	if count == 1 {
		return append(buf, Shot{Pos: origin, Vel: v})
	}
	base := math.Atan2(v.X, v.Z)
	start := base - spread/2
	step := spread / float64(count-1)
	for i := 0; i < count; i++ {
		buf = append(buf, Shot{Pos: origin, Vel: headingVel(start+step*float64(i), speed)})
	}
	return buf
}

// AppendWave adds a single shot whose heading oscillates with time.
// It is one bullet per call, not a sweeping line.
func AppendWave(buf []Shot, origin Vec3, t, speed float64) []Shot {
	a := math.Sin(t*3) * 0.5
	return append(buf, Shot{Pos: origin, Vel: headingVel(a, speed)})
}

// AppendOmni adds count shots evenly spaced over the full circle
func AppendOmni(buf []Shot, origin Vec3, count int, speed float64) []Shot {
	for i := 0; i < count; i++ {
		a := 2 * math.Pi * float64(i) / float64(count)
		buf = append(buf, Shot{Pos: origin, Vel: headingVel(a, speed)})
	}
	return buf
}

// AppendFlower adds count shots on a rotating ring whose speed is modulated
// by a petal wave
func AppendFlower(buf []Shot, origin Vec3, count int, t float64) []Shot {
	for i := 0; i < count; i++ {
		a := 2*math.Pi*float64(i)/float64(count) + t*0.5
		speed := FlowerSpeedBase + math.Sin(a*FlowerPetals)*FlowerAmplitude
		buf = append(buf, Shot{Pos: origin, Vel: headingVel(a, speed)})
	}
	return buf
}

// Emit spawns every shot into s and reports how many were accepted
func Emit(s Spawner, shots []Shot) int {
	n := 0
	for _, sh := range shots {
		if s.Spawn(sh.Pos, sh.Vel) {
			n++
		}
	}
	return n
}

// Patterns fires patterns into a pool through a reusable buffer so the
// per-frame path does not allocate.
type Patterns struct {
	out Spawner
	buf []Shot
}

// NewPatterns binds a pattern generator to its output pool
func NewPatterns(out Spawner) *Patterns {
	return &Patterns{out: out, buf: make([]Shot, 0, 32)}
}

func (p *Patterns) flush() {
	Emit(p.out, p.buf)
	p.buf = p.buf[:0]
}

// FireAimed shoots one bullet at target
func (p *Patterns) FireAimed(origin, target Vec3) {
	p.buf = AppendAimed(p.buf, origin, target, AimedSpeed)
	p.flush()
}

// FireSpiral shoots the rotating three-way spiral
func (p *Patterns) FireSpiral(origin Vec3, t float64) {
	p.buf = AppendSpiral(p.buf, origin, t, SpiralCount, SpiralSpeed)
	p.flush()
}

// FireNWay shoots a fan aimed at target
func (p *Patterns) FireNWay(origin, target Vec3, count int, spread float64) {
	p.buf = AppendNWay(p.buf, origin, target, count, spread, NWaySpeed)
	p.flush()
}

// FireWave shoots one oscillating bullet
func (p *Patterns) FireWave(origin Vec3, t float64) {
	p.buf = AppendWave(p.buf, origin, t, WaveSpeed)
	p.flush()
}

// FireFlower shoots the petal ring
func (p *Patterns) FireFlower(origin Vec3, count int, t float64) {
	p.buf = AppendFlower(p.buf, origin, count, t)
	p.flush()
}
