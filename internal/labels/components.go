package labels

// Connectivity selects which grid neighbors count as touching.
type Connectivity int

const (
	// Conn4 uses orthogonal neighbors: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 adds the four diagonals.
	Conn8
)

var (
	offsets4 = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	offsets8 = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

// Offsets returns the (dx, dy) neighbor offsets for c.
func (c Connectivity) Offsets() [][2]int {
	if c == Conn8 {
		return offsets8
	}
	return offsets4
}

// Mask is a binary raster restricted to a bounding box. Cells outside the
// box are implicitly false.
type Mask struct {
	MinX, MinY    int
	Width, Height int
	bits          []bool
}

// NewMask builds the tightest mask covering points.
func NewMask(points []Point) *Mask {
	if len(points) == 0 {
		return &Mask{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	m := &Mask{
		MinX:   minX,
		MinY:   minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}
	m.bits = make([]bool, m.Width*m.Height)
	for _, p := range points {
		m.bits[(p.Y-minY)*m.Width+(p.X-minX)] = true
	}
	return m
}

// Has reports whether the absolute coordinate (x, y) is set.
func (m *Mask) Has(x, y int) bool {
	lx, ly := x-m.MinX, y-m.MinY
	if lx < 0 || lx >= m.Width || ly < 0 || ly >= m.Height {
		return false
	}
	return m.bits[ly*m.Width+lx]
}

// Components finds the connected components of the mask.
//
// Components are returned in the order their first pixel is met in a raster
// scan, and each component lists its pixels (absolute coordinates) in BFS
// order from that first pixel.
//
// Time: O(W×H×d) over the mask's bounding box, d = 4 or 8.
func (m *Mask) Components(conn Connectivity) [][]Point {
	seen := make([]bool, len(m.bits))
	offsets := conn.Offsets()
	var comps [][]Point

	for ly := 0; ly < m.Height; ly++ {
		for lx := 0; lx < m.Width; lx++ {
			i0 := ly*m.Width + lx
			if !m.bits[i0] || seen[i0] {
				continue
			}
			seen[i0] = true
			queue := []Point{{X: lx, Y: ly}}
			var comp []Point

			for qi := 0; qi < len(queue); qi++ {
				u := queue[qi]
				comp = append(comp, Point{X: u.X + m.MinX, Y: u.Y + m.MinY})
				for _, d := range offsets {
					vx, vy := u.X+d[0], u.Y+d[1]
					if vx < 0 || vx >= m.Width || vy < 0 || vy >= m.Height {
						continue
					}
					vi := vy*m.Width + vx
					if m.bits[vi] && !seen[vi] {
						seen[vi] = true
						queue = append(queue, Point{X: vx, Y: vy})
					}
				}
			}
			comps = append(comps, comp)
		}
	}
	return comps
}
