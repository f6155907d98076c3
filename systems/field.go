// Package systems implements the adaptive particle field: seeding, the wave
// and pointer update, connection building and tier rebuilds.
package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/components"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
)

// ErrEmptyBudget is returned when a tier's particle budget is zero.
var ErrEmptyBudget = errors.New("particle budget is empty")

// Phase names reported to a PhaseTimer during Update.
const (
	PhaseWave        = "wave"
	PhaseConnections = "connections"
)

// PhaseTimer receives phase boundaries for per-phase timing.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Seed holds the immutable per-particle parameters chosen at construction.
type Seed struct {
	Origin    r3.Vec  `json:"origin"`
	Phase     float64 `json:"phase"`
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Palette   int     `json:"palette"`
}

// ParticleView is a read-only copy of one particle.
type ParticleView struct {
	Seed
	Position r3.Vec
}

// ParticleField owns the particles of one tier and the backend buffers they
// are drawn from. All methods must be called from a single goroutine.
type ParticleField struct {
	opts    Options
	backend renderer.Backend
	rng     *rand.Rand
	tier    quality.Tier

	world  *ecs.World
	mapper *ecs.Map4[components.Anchor, components.Oscillator, components.Tint, components.Position]
	filter *ecs.Filter4[components.Anchor, components.Oscillator, components.Tint, components.Position]
	count  int

	points *renderer.PointBuffer
	lines  *renderer.LineBuffer

	positions []r3.Vec // Current positions by index, reused for connections
	conns     []Connection

	elapsed   float64 // Accumulated field time in milliseconds
	influence float64
	timer     PhaseTimer
	disposed  bool
}

// NewParticleField creates a field with the tier's particle budget, seeding
// every particle from rng.
func NewParticleField(backend renderer.Backend, opts Options, tier quality.Tier, rng *rand.Rand) (*ParticleField, error) {
	budget := opts.ParticleCountForTier(tier)
	if budget <= 0 {
		return nil, fmt.Errorf("tier %s: %w", tier, ErrEmptyBudget)
	}

	f := &ParticleField{
		opts:      opts,
		backend:   backend,
		rng:       rng,
		tier:      tier,
		influence: 1,
	}
	if err := f.build(tier, GenerateSeeds(rng, opts, budget)); err != nil {
		return nil, err
	}
	return f, nil
}

// NewParticleFieldFromSeeds creates a field from explicit seeds, used to
// restore snapshots. The particle count is len(seeds). Later rebuilds draw
// seeds from a generator seeded by the count unless UseRand is called.
func NewParticleFieldFromSeeds(backend renderer.Backend, opts Options, tier quality.Tier, seeds []Seed) (*ParticleField, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("tier %s: %w", tier, ErrEmptyBudget)
	}
	f := &ParticleField{
		opts:      opts,
		backend:   backend,
		rng:       rand.New(rand.NewSource(int64(len(seeds)))),
		tier:      tier,
		influence: 1,
	}
	if err := f.build(tier, seeds); err != nil {
		return nil, err
	}
	return f, nil
}

// GenerateSeeds draws n particle seeds: origins uniform in the bounds, phase
// in [0, 2π), amplitude and frequency uniform in their configured ranges.
func GenerateSeeds(rng *rand.Rand, opts Options, n int) []Seed {
	b := opts.Bounds
	size := r3.Sub(b.Max, b.Min)
	seeds := make([]Seed, n)
	for i := range seeds {
		s := &seeds[i]
		s.Origin = r3.Vec{
			X: b.Min.X + rng.Float64()*size.X,
			Y: b.Min.Y + rng.Float64()*size.Y,
			Z: b.Min.Z + rng.Float64()*size.Z,
		}
		s.Phase = rng.Float64() * 2 * math.Pi
		s.Amplitude = opts.AmplitudeMin + rng.Float64()*(opts.AmplitudeMax-opts.AmplitudeMin)
		s.Frequency = opts.FrequencyMin + rng.Float64()*(opts.FrequencyMax-opts.FrequencyMin)
		if len(opts.Palette) > 0 {
			s.Palette = rng.Intn(len(opts.Palette))
		}
	}
	return seeds
}

// UseRand replaces the generator used for future rebuilds.
func (f *ParticleField) UseRand(rng *rand.Rand) {
	f.rng = rng
}

// SetPhaseTimer installs a timer notified at each update phase. nil disables it.
func (f *ParticleField) SetPhaseTimer(t PhaseTimer) {
	f.timer = t
}

// build allocates buffers for the tier and seeds a new ECS world. The
// current buffers are released only once the new ones are allocated, so a
// failed allocation leaves the field as it was.
func (f *ParticleField) build(tier quality.Tier, seeds []Seed) error {
	n := len(seeds)

	points, err := f.backend.AllocatePoints(n)
	if err != nil {
		return fmt.Errorf("allocating %d points: %w", n, err)
	}
	var lines *renderer.LineBuffer
	if m := f.opts.lineCapacity(tier); m > 0 {
		lines, err = f.backend.AllocateLines(m)
		if err != nil {
			points.Dispose()
			return fmt.Errorf("allocating %d lines: %w", m, err)
		}
	}

	releaseErr := f.release()
	f.tier = tier
	f.world = ecs.NewWorld()
	f.mapper = ecs.NewMap4[components.Anchor, components.Oscillator, components.Tint, components.Position](f.world)
	f.filter = ecs.NewFilter4[components.Anchor, components.Oscillator, components.Tint, components.Position](f.world)
	f.points = points
	f.lines = lines
	f.count = n
	f.positions = make([]r3.Vec, n)
	f.conns = make([]Connection, 0, max(f.opts.lineCapacity(f.tier), 0))

	for i, s := range seeds {
		anchor := components.Anchor{Origin: s.Origin, Index: i}
		osc := components.Oscillator{Phase: s.Phase, Amplitude: s.Amplitude, Frequency: s.Frequency}
		tint := f.tint(s.Palette)
		pos := components.Position{Vec: s.Origin}
		f.mapper.NewEntity(&anchor, &osc, &tint, &pos)

		points.Colors[i*3+0] = tint.R
		points.Colors[i*3+1] = tint.G
		points.Colors[i*3+2] = tint.B
	}

	// Fill the buffers so a render before the first update shows the field
	f.step(NoPointer)
	if releaseErr != nil {
		return fmt.Errorf("releasing previous buffers: %w", releaseErr)
	}
	return nil
}

func (f *ParticleField) tint(palette int) components.Tint {
	if palette < 0 || palette >= len(f.opts.Palette) {
		return components.Tint{Palette: palette, R: 1, G: 1, B: 1}
	}
	c := f.opts.Palette[palette]
	return components.Tint{Palette: palette, R: c[0], G: c[1], B: c[2]}
}

// Update advances the field clock by delta milliseconds and recomputes
// every particle, then the connection lines when the tier draws them.
// Non-finite or negative deltas advance nothing.
func (f *ParticleField) Update(deltaMS float64, pointer Pointer) {
	if f.disposed || f.points == nil {
		return
	}
	if deltaMS > 0 && !math.IsInf(deltaMS, 1) {
		f.elapsed += deltaMS
	}
	f.step(pointer)
}

// step evaluates positions at the current clock.
func (f *ParticleField) step(pointer Pointer) {
	if f.timer != nil {
		f.timer.StartPhase(PhaseWave)
	}

	t := f.elapsed
	g := t * f.opts.GlobalPhaseRate
	speed := f.opts.Speed
	bounds := f.opts.Bounds
	m, hasPointer := pointer.world(bounds)
	strength := f.opts.PushStrength * f.influence
	size := f.opts.PointSize * f.opts.Tiers[f.tier].PointScale

	pts := f.points
	query := f.filter.Query()
	for query.Next() {
		anchor, osc, _, pos := query.Get()

		p := r3.Add(anchor.Origin, waveOffset(t, speed, g, *osc))
		if hasPointer {
			p = push(p, m, f.opts.MouseRadius, strength)
		}
		p = wrapBox(p, bounds)
		pos.Vec = p

		i := anchor.Index
		f.positions[i] = p
		pts.Positions[i*3+0] = float32(p.X)
		pts.Positions[i*3+1] = float32(p.Y)
		pts.Positions[i*3+2] = float32(p.Z)
		pts.Sizes[i] = float32(size * twinkle(t, *osc))
	}

	if f.lines == nil {
		f.conns = f.conns[:0]
		return
	}
	if f.timer != nil {
		f.timer.StartPhase(PhaseConnections)
	}
	f.conns = BuildConnections(f.positions, f.opts.ConnectionDistance, f.lines.Cap(), f.conns)
	writeLines(f.lines, f.conns, f.positions, pts.Colors)
}

// Rebuild discards every particle and buffer and seeds a new field at the
// tier's budget. The clock keeps running. On ErrEmptyBudget or an allocation
// failure the field is left unchanged.
func (f *ParticleField) Rebuild(tier quality.Tier) error {
	if f.disposed {
		return renderer.ErrReleased
	}
	budget := f.opts.ParticleCountForTier(tier)
	if budget <= 0 {
		return fmt.Errorf("tier %s: %w", tier, ErrEmptyBudget)
	}

	return f.build(tier, GenerateSeeds(f.rng, f.opts, budget))
}

// release disposes the current buffers.
func (f *ParticleField) release() error {
	var errs []error
	if f.lines != nil {
		errs = append(errs, f.lines.Dispose())
		f.lines = nil
	}
	if f.points != nil {
		errs = append(errs, f.points.Dispose())
		f.points = nil
	}
	f.world, f.mapper, f.filter = nil, nil, nil
	f.count = 0
	f.conns = f.conns[:0]
	return errors.Join(errs...)
}

// Render submits the current buffers to the backend.
func (f *ParticleField) Render() {
	if f.disposed || f.points == nil {
		return
	}
	f.backend.Submit(f.points, f.lines)
}

// SetInfluence scales the pointer push. Non-finite or negative values are ignored.
func (f *ParticleField) SetInfluence(v float64) {
	if !finite(v) || v < 0 {
		return
	}
	f.influence = v
}

// Influence returns the pointer push scale.
func (f *ParticleField) Influence() float64 {
	return f.influence
}

// Dispose releases the buffers. Later updates and renders do nothing.
func (f *ParticleField) Dispose() error {
	if f.disposed {
		return renderer.ErrReleased
	}
	f.disposed = true
	return f.release()
}

// Tier returns the current tier.
func (f *ParticleField) Tier() quality.Tier {
	return f.tier
}

// Len returns the number of particles.
func (f *ParticleField) Len() int {
	return f.count
}

// Elapsed returns the accumulated field time in milliseconds.
func (f *ParticleField) Elapsed() float64 {
	return f.elapsed
}

// SetElapsed sets the field clock, used when restoring a snapshot.
func (f *ParticleField) SetElapsed(ms float64) {
	if finite(ms) && ms >= 0 {
		f.elapsed = ms
		if !f.disposed && f.points != nil {
			f.step(NoPointer)
		}
	}
}

// Connections returns the connections computed by the last update. The slice
// is reused by the next update.
func (f *ParticleField) Connections() []Connection {
	return f.conns
}

// Particles returns a copy of every particle ordered by index.
func (f *ParticleField) Particles() []ParticleView {
	if f.filter == nil {
		return nil
	}
	views := make([]ParticleView, f.count)
	query := f.filter.Query()
	for query.Next() {
		anchor, osc, tint, pos := query.Get()
		views[anchor.Index] = ParticleView{
			Seed: Seed{
				Origin:    anchor.Origin,
				Phase:     osc.Phase,
				Amplitude: osc.Amplitude,
				Frequency: osc.Frequency,
				Palette:   tint.Palette,
			},
			Position: pos.Vec,
		}
	}
	return views
}

// Seeds returns the seeds of every particle ordered by index.
func (f *ParticleField) Seeds() []Seed {
	views := f.Particles()
	seeds := make([]Seed, len(views))
	for i, v := range views {
		seeds[i] = v.Seed
	}
	return seeds
}
