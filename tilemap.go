package server

// Tilemap is the static per-tile walkability grid for one world region. The
// world-loader builds it once; the simulation only ever reads it.
type Tilemap struct {
	Width  int
	Height int

	collision []bool
}

// NewTilemap wraps an externally loaded collision grid. collision must have
// width*height entries in row-major order; true marks a blocked tile.
func NewTilemap(width, height int, collision []bool) *Tilemap {
	if len(collision) != width*height {
		grid := make([]bool, width*height)
		copy(grid, collision)
		collision = grid
	}
	return &Tilemap{Width: width, Height: height, collision: collision}
}

// NewTestTilemap generates the deterministic development map: water along the
// border plus scattered rocks. Clients generate the identical grid, so the
// pattern must not change without a protocol version bump.
func NewTestTilemap(width, height int) *Tilemap {
	collision := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				collision[idx] = true
			}
			if (x+y*3)%17 == 0 && x > 2 && y > 2 && x < width-3 && y < height-3 {
				collision[idx] = true
			}
		}
	}
	return &Tilemap{Width: width, Height: height, collision: collision}
}

// IsTileWalkable reports whether an actor may stand on the tile. Out-of-bounds
// tiles are never walkable.
func (m *Tilemap) IsTileWalkable(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return !m.collision[y*m.Width+x]
}

// HasLineOfSight rasterizes the segment between two tiles with Bresenham's
// algorithm and reports whether every tile past the origin is walkable. The
// origin is skipped (the attacker stands there); the destination is checked.
// Only static terrain blocks sight, never other actors.
func (m *Tilemap) HasLineOfSight(x0, y0, x1, y1 int) bool {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && !m.IsTileWalkable(x, y) {
			return false
		}
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			if x == x1 {
				return true
			}
			err += dy
			x += sx
		}
		if e2 <= dx {
			if y == y1 {
				return true
			}
			err += dx
			y += sy
		}
	}
}

// SafeSpawn finds a walkable tile near the map center, spiraling outward when
// the center itself is blocked.
func (m *Tilemap) SafeSpawn() (int, int) {
	centerX := m.Width / 2
	centerY := m.Height / 2
	if m.IsTileWalkable(centerX, centerY) {
		return centerX, centerY
	}
	for radius := 1; radius < 10; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				x := centerX + dx
				y := centerY + dy
				if m.IsTileWalkable(x, y) {
					return x, y
				}
			}
		}
	}
	return centerX, centerY
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
