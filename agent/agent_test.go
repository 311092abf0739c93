package agent

import (
	"errors"
	"strings"
	"testing"

	"github.com/wang-owen/AR-Day-2024/game"
)

// dumpGrid is a test helper to visualize a snapshot on a small grid.
// P=player, D=drive, o=pod, T=target pod, G=goal.
func dumpGrid(s *game.Sensors, w, h int) string {
	grid := make([][]byte, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]byte, w)
		for x := 0; x < w; x++ {
			grid[y][x] = '.'
		}
	}
	put := func(p game.Point, c byte) {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			grid[p.Y][p.X] = c
		}
	}
	for _, g := range s.Goals {
		put(g, 'G')
	}
	for _, p := range s.Pods {
		put(p, 'o')
	}
	if s.TargetPod != nil {
		put(*s.TargetPod, 'T')
	}
	for _, d := range s.Drives {
		put(d, 'D')
	}
	if s.Player != nil {
		put(*s.Player, 'P')
	}
	var sb strings.Builder
	for y := h - 1; y >= 0; y-- {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func mustMove(t *testing.T, d *Drive, s *game.Sensors) game.Move {
	t.Helper()
	m, err := d.NextMove(s)
	if err != nil {
		t.Fatalf("NextMove error: %v\n%s", err, dumpGrid(s, 10, 10))
	}
	return m
}

func pt(x, y int) game.Point { return game.Point{X: x, Y: y} }

func basicSensors(player game.Point, goals ...game.Point) *game.Sensors {
	p := player
	return &game.Sensors{Player: &p, Goals: goals}
}

func TestNextMove_NearestGoalByEuclideanDistance(t *testing.T) {
	// Goals at offsets (3,0) and (1,1): sqrt(2) < 3, so (1,1) wins and
	// the tied axes mean the vertical move goes first.
	s := basicSensors(pt(2, 2), pt(5, 2), pt(3, 3))
	d := New(Config{GameID: "g1"})

	got := mustMove(t, d, s)
	if got != game.MoveUp {
		t.Fatalf("move=%v want=%v\n%s", got, game.MoveUp, dumpGrid(s, 8, 8))
	}
}

func TestNextMove_EqualDistanceKeepsFirstGoal(t *testing.T) {
	// Both goals are exactly 2 tiles away. The first in input order
	// wins, so the drive moves right, not up.
	s := basicSensors(pt(2, 2), pt(4, 2), pt(2, 4))
	d := New(Config{})

	got := mustMove(t, d, s)
	if got != game.MoveRight {
		t.Fatalf("move=%v want=%v\n%s", got, game.MoveRight, dumpGrid(s, 8, 8))
	}
}

func TestNextMove_DominantAxisFirst(t *testing.T) {
	cases := []struct {
		name string
		goal game.Point
		want game.Move
	}{
		{"x dominant", pt(7, 3), game.MoveRight}, // offset (5,1)
		{"y dominant", pt(3, 7), game.MoveUp},    // offset (1,5)
		{"exact tie prefers y", pt(5, 5), game.MoveUp}, // offset (3,3)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := basicSensors(pt(2, 2), tc.goal)
			got := mustMove(t, New(Config{}), s)
			if got != tc.want {
				t.Fatalf("move=%v want=%v\n%s", got, tc.want, dumpGrid(s, 9, 9))
			}
		})
	}
}

func TestNextMove_ObstacleGating(t *testing.T) {
	// Goal offset is (5,1): x is dominant. Progressively wall the drive
	// in and watch it degrade from axis moves to sidestep to no-op.
	goal := pt(7, 3)

	t.Run("dominant blocked falls back to secondary axis", func(t *testing.T) {
		s := basicSensors(pt(2, 2), goal)
		s.Drives = []game.Point{pt(3, 2)}
		if got := mustMove(t, New(Config{}), s); got != game.MoveUp {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveUp, dumpGrid(s, 9, 9))
		}
	})

	t.Run("both axes blocked sidesteps perpendicular", func(t *testing.T) {
		s := basicSensors(pt(2, 2), goal)
		s.Drives = []game.Point{pt(3, 2), pt(2, 3)}
		// x offset nonzero: vertical sidestep, up is blocked, down free.
		if got := mustMove(t, New(Config{}), s); got != game.MoveDown {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveDown, dumpGrid(s, 9, 9))
		}
	})

	t.Run("all candidates blocked holds position", func(t *testing.T) {
		s := basicSensors(pt(2, 2), goal)
		s.Drives = []game.Point{pt(3, 2), pt(2, 3), pt(2, 1)}
		if got := mustMove(t, New(Config{}), s); got != game.MoveNone {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveNone, dumpGrid(s, 9, 9))
		}
	})

	t.Run("horizontal sidestep when only y offset remains", func(t *testing.T) {
		s := basicSensors(pt(2, 2), pt(2, 6))
		s.Drives = []game.Point{pt(2, 3)}
		// gx == 0 and the single axis candidate is blocked: step right.
		if got := mustMove(t, New(Config{}), s); got != game.MoveRight {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveRight, dumpGrid(s, 9, 9))
		}
	})
}

func TestNextMove_NoOpIsDeterministic(t *testing.T) {
	s := basicSensors(pt(2, 2), pt(7, 3))
	s.Drives = []game.Point{pt(3, 2), pt(2, 3), pt(2, 1)}
	d := New(Config{})

	first := mustMove(t, d, s)
	second := mustMove(t, d, s)
	if first != game.MoveNone || second != game.MoveNone {
		t.Fatalf("moves=%v,%v want both %v", first, second, game.MoveNone)
	}
}

func TestNextMove_PodsBlockOnlyInAdvancedMode(t *testing.T) {
	target := pt(2, 2) // advanced drive starts on its pod so it lifts immediately

	t.Run("basic mode passes through pods", func(t *testing.T) {
		s := basicSensors(pt(2, 2), pt(6, 2))
		s.Pods = []game.Point{pt(3, 2)}
		if got := mustMove(t, New(Config{}), s); got != game.MoveRight {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveRight, dumpGrid(s, 8, 8))
		}
	})

	t.Run("advanced mode treats pods as obstacles", func(t *testing.T) {
		d := New(Config{Advanced: true})
		s := basicSensors(pt(2, 2), pt(6, 2))
		s.TargetPod = &target
		s.Pods = []game.Point{pt(3, 2)}

		if got := mustMove(t, d, s); got != game.MoveLiftPod {
			t.Fatalf("first move=%v want=%v", got, game.MoveLiftPod)
		}
		// Goal is due right but the pod at (3,2) now blocks: the drive
		// sidesteps vertically instead.
		if got := mustMove(t, d, s); got != game.MoveUp {
			t.Fatalf("move=%v want=%v\n%s", got, game.MoveUp, dumpGrid(s, 8, 8))
		}
	})
}

func TestNextMove_TargetPodLiftedExactlyOnce(t *testing.T) {
	d := New(Config{GameID: "g7", Advanced: true})
	target := pt(3, 3)
	s := basicSensors(pt(3, 3), pt(6, 3))
	s.TargetPod = &target

	if d.PodAcquired() {
		t.Fatal("pod acquired before any move")
	}
	if got := mustMove(t, d, s); got != game.MoveLiftPod {
		t.Fatalf("move=%v want=%v", got, game.MoveLiftPod)
	}
	if !d.PodAcquired() {
		t.Fatal("pod not acquired after lift")
	}

	// The lifted pod rides with the drive; subsequent ticks go straight
	// to goal-seeking and never re-lift.
	for i := 0; i < 3; i++ {
		if got := mustMove(t, d, s); got != game.MoveRight {
			t.Fatalf("tick %d move=%v want=%v", i, got, game.MoveRight)
		}
	}
	if !d.PodAcquired() {
		t.Fatal("acquired flag reverted")
	}
}

func TestNextMove_ApproachesTargetPodBeforeGoals(t *testing.T) {
	d := New(Config{Advanced: true})
	target := pt(5, 2)
	s := basicSensors(pt(2, 2), pt(2, 6)) // nearest goal is straight up
	s.TargetPod = &target

	// The pod is due right; goal-seeking would go up. Pod wins.
	if got := mustMove(t, d, s); got != game.MoveRight {
		t.Fatalf("move=%v want=%v\n%s", got, game.MoveRight, dumpGrid(s, 8, 8))
	}
}

// Pins long-standing behavior: a pod approach blocked on both axes
// falls through into goal-seeking within the same tick, so the drive
// can emit a goal-directed move while it still has no pod.
func TestNextMove_PodApproachBlocked_FallsThroughToGoal(t *testing.T) {
	d := New(Config{Advanced: true})
	target := pt(4, 2)
	s := basicSensors(pt(2, 2), pt(2, 5))
	s.TargetPod = &target
	s.Drives = []game.Point{pt(3, 2)} // blocks the approach; dy is zero

	got := mustMove(t, d, s)
	if got != game.MoveUp {
		t.Fatalf("move=%v want=%v (goal-directed)\n%s", got, game.MoveUp, dumpGrid(s, 8, 8))
	}
	if d.PodAcquired() {
		t.Fatal("fallthrough must not mark the pod acquired")
	}
}

func TestNextMove_InvalidInput(t *testing.T) {
	t.Run("missing player location", func(t *testing.T) {
		d := New(Config{})
		if _, err := d.NextMove(&game.Sensors{Goals: []game.Point{pt(1, 1)}}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err=%v want ErrInvalidInput", err)
		}
	})
	t.Run("empty goal list", func(t *testing.T) {
		d := New(Config{})
		if _, err := d.NextMove(basicSensors(pt(0, 0))); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err=%v want ErrInvalidInput", err)
		}
	})
	t.Run("advanced mode missing target pod", func(t *testing.T) {
		d := New(Config{Advanced: true})
		if _, err := d.NextMove(basicSensors(pt(0, 0), pt(3, 3))); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err=%v want ErrInvalidInput", err)
		}
	})
}

// On an obstacle-free field the drive must strictly close the distance
// to the nearest goal every tick until it arrives.
func TestNextMove_ReachesGoalOnOpenField(t *testing.T) {
	d := New(Config{})
	pos := pt(0, 0)
	goal := pt(6, 3)

	manhattan := func(a, b game.Point) int { return abs(b.X-a.X) + abs(b.Y-a.Y) }

	prev := manhattan(pos, goal)
	for tick := 0; tick < 50; tick++ {
		if pos == goal {
			return
		}
		s := basicSensors(pos, goal)
		m := mustMove(t, d, s)
		delta := m.Delta()
		pos = pt(pos.X+delta.X, pos.Y+delta.Y)

		dist := manhattan(pos, goal)
		if dist >= prev {
			t.Fatalf("tick %d: distance %d did not decrease from %d (move=%v)", tick, dist, prev, m)
		}
		prev = dist
	}
	t.Fatalf("goal not reached, stuck at %v", pos)
}

func TestNextMove_HoldsAtGoal(t *testing.T) {
	d := New(Config{})
	s := basicSensors(pt(4, 4), pt(4, 4))
	if got := mustMove(t, d, s); got != game.MoveNone {
		t.Fatalf("move=%v want=%v", got, game.MoveNone)
	}
}
