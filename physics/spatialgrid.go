package physics

import (
	"math"
	"sort"

	"github.com/akmonengine/dock/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey - Coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - Container of collider indices in a cell
type Cell struct {
	colliderIndices []int
}

// Pair - Two overlapping colliders, at least one of them a trigger
type Pair struct {
	ColliderA *actor.Collider
	ColliderB *actor.Collider
}

// SpatialGrid - Uniform spatial grid with hashing for the broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid - Creates a new spatial grid
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].colliderIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Rounds up to the next power of 2
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Inserts a collider in every cell its bounds cover
func (sg *SpatialGrid) Insert(colliderIndex int, bounds actor.AABB) {
	sg.visit(bounds, func(cellIdx int) {
		sg.cells[cellIdx].colliderIndices = append(sg.cells[cellIdx].colliderIndices, colliderIndex)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].colliderIndices = sg.cells[i].colliderIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].colliderIndices) > 1 {
			sort.Ints(sg.cells[i].colliderIndices)
		}
	}
}

// FindPairs - Returns every overlapping pair involving a trigger, each pair once
func (sg *SpatialGrid) FindPairs(colliders []*actor.Collider) []Pair {
	pairs := make([]Pair, 0, len(colliders)/2)
	seen := make([]bool, len(colliders))

	for colliderIdx, colliderA := range colliders {
		if !colliderA.Enabled {
			continue
		}
		clear(seen)

		sg.visit(colliderA.Bounds(), func(cellIdx int) {
			for _, otherIdx := range sg.cells[cellIdx].colliderIndices {
				// Deterministic order, avoids (A,B) and (B,A)
				if otherIdx <= colliderIdx || seen[otherIdx] {
					continue
				}
				seen[otherIdx] = true

				colliderB := colliders[otherIdx]
				if !colliderB.Enabled {
					continue
				}
				if !colliderA.IsTrigger && !colliderB.IsTrigger {
					continue
				}
				if sameBody(colliderA, colliderB) {
					continue
				}

				if colliderA.Bounds().Overlaps(colliderB.Bounds()) {
					pairs = append(pairs, Pair{ColliderA: colliderA, ColliderB: colliderB})
				}
			}
		})
	}

	return pairs
}

func (sg *SpatialGrid) visit(bounds actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(bounds.Min)
	maxCell := sg.worldToCell(bounds.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// worldToCell - Converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hashes a cell to an index in the array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

func sameBody(colliderA, colliderB *actor.Collider) bool {
	if colliderA.Object() == colliderB.Object() {
		return true
	}
	bodyA, bodyB := colliderA.Body(), colliderB.Body()
	return bodyA != nil && bodyA == bodyB
}
