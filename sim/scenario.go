package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wang-owen/AR-Day-2024/game"
)

// Tile is a scenario-file coordinate.
type Tile struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (t Tile) point() game.Point { return game.Point{X: t.X, Y: t.Y} }

// Scenario describes one warehouse field layout. Drives are the
// player's peers and stay parked for the whole episode; the simulated
// contention comes from their placement, not their motion.
type Scenario struct {
	Name      string `yaml:"name"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Advanced  bool   `yaml:"advanced"`
	TickLimit int    `yaml:"tick_limit"`

	Player    Tile   `yaml:"player"`
	Drives    []Tile `yaml:"drives"`
	Pods      []Tile `yaml:"pods"`
	Goals     []Tile `yaml:"goals"`
	TargetPod *Tile  `yaml:"target_pod"`
}

// DefaultTickLimit bounds episodes whose scenario does not set one.
const DefaultTickLimit = 500

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("field must be positive, got %dx%d", sc.Width, sc.Height)
	}
	if len(sc.Goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	if !sc.inField(sc.Player.point()) {
		return fmt.Errorf("player start %v outside field", sc.Player.point())
	}
	for _, d := range sc.Drives {
		if !sc.inField(d.point()) {
			return fmt.Errorf("drive %v outside field", d.point())
		}
		if d == sc.Player {
			return fmt.Errorf("drive %v overlaps player start", d.point())
		}
	}
	if sc.Advanced {
		if sc.TargetPod == nil {
			return fmt.Errorf("advanced scenario requires a target pod")
		}
		found := false
		for _, p := range sc.Pods {
			if p == *sc.TargetPod {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("target pod %v is not in the pod list", sc.TargetPod.point())
		}
	}
	return nil
}

func (sc *Scenario) inField(p game.Point) bool {
	return p.X >= 0 && p.X < sc.Width && p.Y >= 0 && p.Y < sc.Height
}

// boundaries returns the ring of tiles immediately outside the field,
// as the sensor wire contract reports them.
func (sc *Scenario) boundaries() []game.Point {
	out := make([]game.Point, 0, 2*(sc.Width+sc.Height)+4)
	for x := -1; x <= sc.Width; x++ {
		out = append(out, game.Point{X: x, Y: -1}, game.Point{X: x, Y: sc.Height})
	}
	for y := 0; y < sc.Height; y++ {
		out = append(out, game.Point{X: -1, Y: y}, game.Point{X: sc.Width, Y: y})
	}
	return out
}
