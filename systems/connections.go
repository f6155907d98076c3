package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/renderer"
)

// Connection is a line segment between two particles closer than the
// connection distance. Blend is 1 - d/distance, in (0, 1].
type Connection struct {
	A, B  int
	Blend float32
}

// BuildConnections appends up to limit connections to dst and returns it.
// Pairs are scanned in index order (i < j) and the scan stops as soon as the
// limit is reached, so the result favours low indices rather than the
// globally nearest pairs. A non-positive distance or limit yields none.
func BuildConnections(positions []r3.Vec, distance float64, limit int, dst []Connection) []Connection {
	dst = dst[:0]
	if !(distance > 0) || limit <= 0 {
		return dst
	}
	distSq := distance * distance
	n := len(positions)

	for i := 0; i < n; i++ {
		pi := positions[i]
		for j := i + 1; j < n; j++ {
			// Squared check first avoids a sqrt for the common far case
			d := r3.Sub(pi, positions[j])
			dsq := r3.Dot(d, d)
			if dsq >= distSq {
				continue
			}
			dst = append(dst, Connection{
				A:     i,
				B:     j,
				Blend: float32(1 - math.Sqrt(dsq)/distance),
			})
			if len(dst) == limit {
				return dst
			}
		}
	}
	return dst
}

// writeLines fills the line buffer from the connection list. Endpoint colours
// are the particle colours scaled by the blend; slots past the last
// connection are zeroed.
func writeLines(lines *renderer.LineBuffer, conns []Connection, positions []r3.Vec, colors []float32) {
	n := min(len(conns), lines.Cap())
	for k := 0; k < n; k++ {
		c := conns[k]
		a, b := positions[c.A], positions[c.B]
		o := k * 6
		lines.Positions[o+0] = float32(a.X)
		lines.Positions[o+1] = float32(a.Y)
		lines.Positions[o+2] = float32(a.Z)
		lines.Positions[o+3] = float32(b.X)
		lines.Positions[o+4] = float32(b.Y)
		lines.Positions[o+5] = float32(b.Z)

		ca, cb := colors[c.A*3:c.A*3+3], colors[c.B*3:c.B*3+3]
		lines.Colors[o+0] = ca[0] * c.Blend
		lines.Colors[o+1] = ca[1] * c.Blend
		lines.Colors[o+2] = ca[2] * c.Blend
		lines.Colors[o+3] = cb[0] * c.Blend
		lines.Colors[o+4] = cb[1] * c.Blend
		lines.Colors[o+5] = cb[2] * c.Blend
	}

	// Only clear what the previous frame may have written
	prev := lines.Count
	if prev > n {
		clear(lines.Positions[n*6 : prev*6])
		clear(lines.Colors[n*6 : prev*6])
	}
	lines.Count = n
}
