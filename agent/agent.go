// Package agent implements the per-tick decision logic for a warehouse
// drive. Each tick the drive receives a sensor snapshot and emits
// exactly one move: it lifts its designated pod first in advanced mode,
// then greedily walks toward the nearest goal, gating every candidate
// step on tile occupancy and sidestepping when boxed in.
//
// The agent does no pathfinding and keeps no memory of past ticks
// beyond whether the target pod has been lifted. When every candidate
// tile is blocked it holds position (MoveNone) and recomputes from
// scratch next tick.
package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/wang-owen/AR-Day-2024/game"
)

// ErrInvalidInput reports a sensor snapshot missing a field the
// decision logic needs.
var ErrInvalidInput = errors.New("invalid sensor input")

// Config is fixed for the drive's lifetime.
type Config struct {
	// GameID is simulator bookkeeping. It is carried for the caller's
	// benefit and never consulted by the decision logic.
	GameID string

	// Advanced selects advanced mode: the drive must locate and lift
	// its target pod before goal-seeking, and pods block movement.
	Advanced bool
}

// Drive decides one move per tick. The only state carried across ticks
// is whether the target pod has been lifted yet; everything else is a
// pure function of the current snapshot.
type Drive struct {
	cfg Config

	needsTargetPod bool
	podAcquired    bool
}

func New(cfg Config) *Drive {
	return &Drive{cfg: cfg, needsTargetPod: cfg.Advanced}
}

// GameID returns the passthrough identifier given at construction.
func (d *Drive) GameID() string { return d.cfg.GameID }

// PodAcquired reports whether the target pod has been lifted. The flag
// transitions false to true at most once and never reverts.
func (d *Drive) PodAcquired() bool { return d.podAcquired }

// NextMove returns the drive's move for this tick.
//
// In advanced mode, until the target pod is lifted, the drive steps
// toward the pod (x axis then y axis) and emits MoveLiftPod on arrival.
// A pod approach blocked on both axes falls through into goal-seeking
// for the same tick. That interaction is long-standing simulator-facing
// behavior and is deliberately kept; see TestNextMove_PodApproachBlocked_FallsThroughToGoal.
func (d *Drive) NextMove(s *game.Sensors) (game.Move, error) {
	if s == nil || s.Player == nil {
		return game.MoveNone, fmt.Errorf("%w: missing player location", ErrInvalidInput)
	}
	pos := *s.Player

	if d.needsTargetPod && !d.podAcquired {
		if s.TargetPod == nil {
			return game.MoveNone, fmt.Errorf("%w: advanced mode without target pod location", ErrInvalidInput)
		}
		dx := s.TargetPod.X - pos.X
		dy := s.TargetPod.Y - pos.Y

		if dx == 0 && dy == 0 {
			d.podAcquired = true
			return game.MoveLiftPod, nil
		}

		// Only drives gate the approach. The destination tile holds the
		// target pod itself, so pods must not count as obstacles here.
		if dx > 0 && !occupied(s.Drives, game.Point{X: pos.X + 1, Y: pos.Y}) {
			return game.MoveRight, nil
		} else if dx < 0 && !occupied(s.Drives, game.Point{X: pos.X - 1, Y: pos.Y}) {
			return game.MoveLeft, nil
		}
		if dy > 0 && !occupied(s.Drives, game.Point{X: pos.X, Y: pos.Y + 1}) {
			return game.MoveUp, nil
		} else if dy < 0 && !occupied(s.Drives, game.Point{X: pos.X, Y: pos.Y - 1}) {
			return game.MoveDown, nil
		}
		// Blocked on both axes: fall through to goal-seeking below.
	}

	gx, gy, err := nearestGoalOffset(pos, s.Goals)
	if err != nil {
		return game.MoveNone, err
	}

	// Walk the dominant axis first; on an exact tie the y axis wins.
	if abs(gx) > abs(gy) {
		if m, ok := d.stepX(s, pos, gx); ok {
			return m, nil
		}
		if m, ok := d.stepY(s, pos, gy); ok {
			return m, nil
		}
	} else {
		if m, ok := d.stepY(s, pos, gy); ok {
			return m, nil
		}
		if m, ok := d.stepX(s, pos, gx); ok {
			return m, nil
		}
	}

	// Both axes blocked: try to step off the blocking line,
	// perpendicular to whichever axis still has distance to cover.
	if gx != 0 {
		if !d.obstacleAt(s, game.Point{X: pos.X, Y: pos.Y + 1}) {
			return game.MoveUp, nil
		}
		if !d.obstacleAt(s, game.Point{X: pos.X, Y: pos.Y - 1}) {
			return game.MoveDown, nil
		}
	} else if gy != 0 {
		if !d.obstacleAt(s, game.Point{X: pos.X + 1, Y: pos.Y}) {
			return game.MoveRight, nil
		}
		if !d.obstacleAt(s, game.Point{X: pos.X - 1, Y: pos.Y}) {
			return game.MoveLeft, nil
		}
	}

	// Boxed in (or already at the goal). Hold position.
	return game.MoveNone, nil
}

// nearestGoalOffset returns the (dx, dy) offset to the goal with the
// smallest Euclidean distance. The comparison is strict, so equal
// distances keep the earliest goal in input order.
func nearestGoalOffset(pos game.Point, goals []game.Point) (int, int, error) {
	if len(goals) == 0 {
		return 0, 0, fmt.Errorf("%w: no goal locations", ErrInvalidInput)
	}

	best := -1.0
	var gx, gy int
	for _, g := range goals {
		dx := g.X - pos.X
		dy := g.Y - pos.Y
		dist := math.Hypot(float64(dx), float64(dy))
		if best < 0 || dist < best {
			best = dist
			gx, gy = dx, dy
		}
	}
	return gx, gy, nil
}

// stepX attempts the single x-axis move that reduces dx. A zero offset
// or an obstructed destination yields no candidate.
func (d *Drive) stepX(s *game.Sensors, pos game.Point, dx int) (game.Move, bool) {
	if dx > 0 && !d.obstacleAt(s, game.Point{X: pos.X + 1, Y: pos.Y}) {
		return game.MoveRight, true
	}
	if dx < 0 && !d.obstacleAt(s, game.Point{X: pos.X - 1, Y: pos.Y}) {
		return game.MoveLeft, true
	}
	return game.MoveNone, false
}

// stepY attempts the single y-axis move that reduces dy.
func (d *Drive) stepY(s *game.Sensors, pos game.Point, dy int) (game.Move, bool) {
	if dy > 0 && !d.obstacleAt(s, game.Point{X: pos.X, Y: pos.Y + 1}) {
		return game.MoveUp, true
	}
	if dy < 0 && !d.obstacleAt(s, game.Point{X: pos.X, Y: pos.Y - 1}) {
		return game.MoveDown, true
	}
	return game.MoveNone, false
}

// obstacleAt reports whether p is occupied by a drive, or by a pod
// while advanced mode is active. In basic mode pods are background
// items the drive may pass over.
func (d *Drive) obstacleAt(s *game.Sensors, p game.Point) bool {
	if occupied(s.Drives, p) {
		return true
	}
	return d.cfg.Advanced && occupied(s.Pods, p)
}

// occupied is an exact-match linear scan. Snapshot sizes are small
// enough that a set keyed by coordinate has never been worth it.
func occupied(list []game.Point, p game.Point) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
