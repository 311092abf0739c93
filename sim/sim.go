// Package sim is a small warehouse simulator: it applies one drive
// move per tick, tracks lifted pods, and serves the sensor snapshots
// the decision logic consumes. It exists so episodes can run end to end
// without a remote engine.
package sim

import (
	"fmt"

	"github.com/wang-owen/AR-Day-2024/game"
)

// Outcome classifies a finished episode.
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeDelivered Outcome = "delivered"
	OutcomeTimeout   Outcome = "timeout"
)

// Sim holds the mutable episode state for one scenario run.
type Sim struct {
	sc         *Scenario
	boundaries []game.Point

	tick   int
	player game.Point
	drives []game.Point // peers, excluding the player
	pods   []game.Point

	target int // index into pods, -1 in basic mode
	lifted int // pod index the player carries, -1 if none
}

// New builds a Sim from a validated scenario.
func New(sc *Scenario) (*Sim, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	s := &Sim{
		sc:         sc,
		boundaries: sc.boundaries(),
		player:     sc.Player.point(),
		target:     -1,
		lifted:     -1,
	}
	for _, d := range sc.Drives {
		s.drives = append(s.drives, d.point())
	}
	for i, p := range sc.Pods {
		s.pods = append(s.pods, p.point())
		if sc.Advanced && p == *sc.TargetPod {
			s.target = i
		}
	}
	return s, nil
}

// Tick returns the number of moves applied so far.
func (s *Sim) Tick() int { return s.tick }

// Player returns the player drive's current tile.
func (s *Sim) Player() game.Point { return s.player }

// Carrying reports whether the player holds a pod.
func (s *Sim) Carrying() bool { return s.lifted >= 0 }

// Sensors builds the snapshot for the current tick. Drive locations
// include the player, matching what the engine reports to every drive.
func (s *Sim) Sensors() *game.Sensors {
	player := s.player
	out := &game.Sensors{
		FieldBoundaries: s.boundaries,
		Drives:          append([]game.Point{player}, s.drives...),
		Pods:            append([]game.Point(nil), s.pods...),
		Player:          &player,
		Goals:           make([]game.Point, 0, len(s.sc.Goals)),
	}
	for _, g := range s.sc.Goals {
		out.Goals = append(out.Goals, g.point())
	}
	if len(out.Goals) > 0 {
		legacy := out.Goals[0]
		out.Goal = &legacy
	}
	if s.target >= 0 {
		t := s.pods[s.target]
		out.TargetPod = &t
		if s.lifted >= 0 {
			out.LiftedPairs = []game.LiftedPair{{DriveID: 0, PodID: s.lifted}}
		}
	}
	return out
}

// Apply advances one tick with the player's move. Movement onto an
// out-of-field tile or an occupied tile is rejected and the drive holds
// position; the tick is consumed either way. It reports whether the
// move had its intended effect.
func (s *Sim) Apply(m game.Move) bool {
	s.tick++

	switch {
	case m.IsMovement():
		delta := m.Delta()
		dest := game.Point{X: s.player.X + delta.X, Y: s.player.Y + delta.Y}
		if !s.canEnter(dest) {
			return false
		}
		s.player = dest
		if s.lifted >= 0 {
			s.pods[s.lifted] = dest
		}
		return true

	case m == game.MoveLiftPod:
		if !s.sc.Advanced || s.lifted >= 0 {
			return false
		}
		if i := s.podAt(s.player); i >= 0 {
			s.lifted = i
			return true
		}
		return false

	case m == game.MoveDropPod:
		if s.lifted < 0 {
			return false
		}
		s.lifted = -1
		return true
	}

	// MoveNone consumes the tick.
	return m == game.MoveNone
}

func (s *Sim) canEnter(p game.Point) bool {
	if !s.sc.inField(p) {
		return false
	}
	for _, d := range s.drives {
		if d == p {
			return false
		}
	}
	// A carrying drive cannot enter a tile that already holds a pod.
	if s.lifted >= 0 {
		if i := s.podAt(p); i >= 0 && i != s.lifted {
			return false
		}
	}
	return true
}

func (s *Sim) podAt(p game.Point) int {
	// Prefer the target pod when pods share a tile.
	if s.target >= 0 && s.pods[s.target] == p {
		return s.target
	}
	for i, q := range s.pods {
		if q == p {
			return i
		}
	}
	return -1
}

// Outcome reports the episode's status. In advanced mode delivery means
// standing on a goal while carrying the target pod; in basic mode,
// reaching any goal tile.
func (s *Sim) Outcome() Outcome {
	delivered := false
	for _, g := range s.sc.Goals {
		if g.point() == s.player {
			delivered = true
			break
		}
	}
	if s.sc.Advanced {
		delivered = delivered && s.lifted == s.target
	}
	if delivered {
		return OutcomeDelivered
	}

	limit := s.sc.TickLimit
	if limit <= 0 {
		limit = DefaultTickLimit
	}
	if s.tick >= limit {
		return OutcomeTimeout
	}
	return OutcomeRunning
}

// Done reports whether the episode has finished.
func (s *Sim) Done() bool { return s.Outcome() != OutcomeRunning }

func (s *Sim) String() string {
	return fmt.Sprintf("tick=%d player=%v carrying=%v", s.tick, s.player, s.Carrying())
}
