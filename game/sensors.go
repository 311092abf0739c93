package game

// LiftedPair associates a drive with the pod it is currently carrying.
type LiftedPair struct {
	DriveID int `json:"drive_id"`
	PodID   int `json:"pod_id"`
}

// Sensors is the read-only world snapshot the simulator supplies each
// tick. The snapshot is complete state; nothing is carried between
// ticks by the simulator on the drive's behalf.
//
// FieldBoundaries, Goal and LiftedPairs are part of the wire contract
// but are not consulted by the decision core: boundaries only matter to
// the simulator, Goal is the legacy single-goal field kept for
// compatibility, and LiftedPairs only reports what other drives carry.
type Sensors struct {
	FieldBoundaries []Point `json:"field_boundaries"`
	Drives          []Point `json:"drive_locations"`
	Pods            []Point `json:"pod_locations"`
	Player          *Point  `json:"player_location"`
	Goals           []Point `json:"goal_locations"`
	Goal            *Point  `json:"goal_location,omitempty"`

	// Advanced mode only.
	TargetPod   *Point       `json:"target_pod_location,omitempty"`
	LiftedPairs []LiftedPair `json:"drive_lifted_pod_pairs,omitempty"`
}

// Clone performs a deep copy of the snapshot.
func (s *Sensors) Clone() *Sensors {
	if s == nil {
		return nil
	}

	out := &Sensors{
		FieldBoundaries: clonePoints(s.FieldBoundaries),
		Drives:          clonePoints(s.Drives),
		Pods:            clonePoints(s.Pods),
		Goals:           clonePoints(s.Goals),
	}
	if s.Player != nil {
		p := *s.Player
		out.Player = &p
	}
	if s.Goal != nil {
		g := *s.Goal
		out.Goal = &g
	}
	if s.TargetPod != nil {
		t := *s.TargetPod
		out.TargetPod = &t
	}
	if len(s.LiftedPairs) > 0 {
		out.LiftedPairs = make([]LiftedPair, len(s.LiftedPairs))
		copy(out.LiftedPairs, s.LiftedPairs)
	}
	return out
}

func clonePoints(in []Point) []Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]Point, len(in))
	copy(out, in)
	return out
}
