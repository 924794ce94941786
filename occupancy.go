package server

// tileKey indexes the occupancy table by tile coordinate.
type tileKey struct {
	X int
	Y int
}

// OccupancyMap tracks which tiles are held by living actors. At most one
// actor holds a tile at a time. All mutation happens on the simulation
// goroutine, which serializes claims in intent order; the map itself carries
// no locking.
type OccupancyMap struct {
	grid  *Tilemap
	tiles map[tileKey]string
}

func NewOccupancyMap(grid *Tilemap) *OccupancyMap {
	return &OccupancyMap{
		grid:  grid,
		tiles: make(map[tileKey]string),
	}
}

// TryClaim records actorID as the occupant of the tile iff the tile is
// walkable and currently free. Re-claiming a tile already held by the same
// actor succeeds and is a no-op.
func (o *OccupancyMap) TryClaim(x, y int, actorID string) bool {
	if !o.grid.IsTileWalkable(x, y) {
		return false
	}
	key := tileKey{X: x, Y: y}
	if holder, ok := o.tiles[key]; ok {
		return holder == actorID
	}
	o.tiles[key] = actorID
	return true
}

// Release removes the claim iff the tile is currently held by actorID.
// Releasing a tile held by someone else, or an unclaimed tile, is a no-op.
func (o *OccupancyMap) Release(x, y int, actorID string) {
	key := tileKey{X: x, Y: y}
	if o.tiles[key] == actorID {
		delete(o.tiles, key)
	}
}

// IsFree reports whether the tile is walkable and has no occupant.
func (o *OccupancyMap) IsFree(x, y int) bool {
	if !o.grid.IsTileWalkable(x, y) {
		return false
	}
	_, ok := o.tiles[tileKey{X: x, Y: y}]
	return !ok
}

// OccupantAt returns the ID of the actor holding the tile, if any.
func (o *OccupancyMap) OccupantAt(x, y int) (string, bool) {
	id, ok := o.tiles[tileKey{X: x, Y: y}]
	return id, ok
}

// Len returns the number of claimed tiles.
func (o *OccupancyMap) Len() int {
	return len(o.tiles)
}
