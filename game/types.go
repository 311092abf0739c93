// Package game defines the shared vocabulary for the warehouse
// simulation: tile coordinates, the drive move set, and the per-tick
// sensor snapshot exchanged with the simulator.
//
// Coordinates follow field conventions: (0,0) is bottom-left, +x is
// right, +y is up. All position comparisons are exact integer matches.
package game

import "fmt"

// Point is a tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Move is the single action a drive emits each tick.
type Move int

const (
	MoveNone Move = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight

	// Advanced mode only.
	MoveLiftPod
	MoveDropPod
)

var moveNames = [...]string{"NONE", "UP", "DOWN", "LEFT", "RIGHT", "LIFT_POD", "DROP_POD"}

func (m Move) String() string {
	if m < 0 || int(m) >= len(moveNames) {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// Delta returns the tile offset a movement move produces. Non-movement
// moves (MoveNone, MoveLiftPod, MoveDropPod) return the zero offset.
func (m Move) Delta() Point {
	switch m {
	case MoveUp:
		return Point{X: 0, Y: 1}
	case MoveDown:
		return Point{X: 0, Y: -1}
	case MoveLeft:
		return Point{X: -1, Y: 0}
	case MoveRight:
		return Point{X: 1, Y: 0}
	}
	return Point{}
}

// IsMovement reports whether the move changes the drive's tile.
func (m Move) IsMovement() bool {
	return m == MoveUp || m == MoveDown || m == MoveLeft || m == MoveRight
}
