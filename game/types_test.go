package game

import "testing"

func TestMoveDelta(t *testing.T) {
	cases := []struct {
		move Move
		want Point
	}{
		{MoveUp, Point{0, 1}},
		{MoveDown, Point{0, -1}},
		{MoveLeft, Point{-1, 0}},
		{MoveRight, Point{1, 0}},
		{MoveNone, Point{}},
		{MoveLiftPod, Point{}},
		{MoveDropPod, Point{}},
	}
	for _, tc := range cases {
		if got := tc.move.Delta(); got != tc.want {
			t.Errorf("%v.Delta()=%v want=%v", tc.move, got, tc.want)
		}
	}
}

func TestMoveString(t *testing.T) {
	if got := MoveLiftPod.String(); got != "LIFT_POD" {
		t.Errorf("String()=%q want LIFT_POD", got)
	}
	if got := Move(99).String(); got != "Move(99)" {
		t.Errorf("String()=%q want Move(99)", got)
	}
}

func TestSensorsClone(t *testing.T) {
	player := Point{X: 1, Y: 2}
	target := Point{X: 4, Y: 4}
	s := &Sensors{
		Drives:      []Point{{2, 2}},
		Pods:        []Point{{3, 3}},
		Player:      &player,
		Goals:       []Point{{5, 5}},
		TargetPod:   &target,
		LiftedPairs: []LiftedPair{{DriveID: 1, PodID: 0}},
	}

	c := s.Clone()
	c.Drives[0] = Point{9, 9}
	c.Player.X = 9
	c.TargetPod.Y = 9

	if s.Drives[0] != (Point{2, 2}) || s.Player.X != 1 || s.TargetPod.Y != 4 {
		t.Fatalf("clone shares memory with original: %+v", s)
	}
}
