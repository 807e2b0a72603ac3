package sim

import (
	"encoding/json"
	"fmt"
)

// Vec2 is a tile coordinate on the board. It serializes as a two-element
// array to match the client's [x, y] convention.
type Vec2 struct {
	X int
	Y int
}

func (v Vec2) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{v.X, v.Y})
}

func (v *Vec2) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coordinate pair: %w", err)
	}
	v.X = pair[0]
	v.Y = pair[1]
	return nil
}

// TileKeyFor renders the canonical "x,y" key used for tile maps on the wire.
func TileKeyFor(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// Key returns the wire key for the tile the vector points at.
func (v Vec2) Key() string {
	return TileKeyFor(v.X, v.Y)
}

// manhattanDistance is the attack range metric: |dx| + |dy|.
func manhattanDistance(a, b Vec2) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// stepToward computes the next tile on the way to dest, resolving the x axis
// fully before the y axis. The second return is false when current == dest.
func stepToward(current, dest Vec2) (Vec2, bool) {
	if current.X != dest.X {
		if current.X < dest.X {
			return Vec2{X: current.X + 1, Y: current.Y}, true
		}
		return Vec2{X: current.X - 1, Y: current.Y}, true
	}
	if current.Y != dest.Y {
		if current.Y < dest.Y {
			return Vec2{X: current.X, Y: current.Y + 1}, true
		}
		return Vec2{X: current.X, Y: current.Y - 1}, true
	}
	return current, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
