package sim

import (
	"fmt"

	"github.com/wang-owen/AR-Day-2024/game"
)

// Mover is the decision side of an episode: one move per snapshot.
type Mover interface {
	NextMove(*game.Sensors) (game.Move, error)
}

// TickRecord describes one applied tick for observers and recorders.
type TickRecord struct {
	Tick     int
	Move     game.Move
	Moved    bool
	Player   game.Point
	Carrying bool
	Sensors  *game.Sensors // snapshot the move was decided from
}

// EpisodeResult summarizes a finished episode.
type EpisodeResult struct {
	Outcome Outcome
	Ticks   int
}

// RunEpisode drives one full episode: snapshot, decide, apply, repeat
// until the scenario resolves. onTick, when non-nil, observes every
// applied tick in order.
func RunEpisode(sc *Scenario, mover Mover, onTick func(TickRecord)) (EpisodeResult, error) {
	s, err := New(sc)
	if err != nil {
		return EpisodeResult{}, err
	}

	for !s.Done() {
		sensors := s.Sensors()
		move, err := mover.NextMove(sensors)
		if err != nil {
			return EpisodeResult{}, fmt.Errorf("tick %d: %w", s.Tick(), err)
		}
		moved := s.Apply(move)

		if onTick != nil {
			onTick(TickRecord{
				Tick:     s.Tick(),
				Move:     move,
				Moved:    moved,
				Player:   s.Player(),
				Carrying: s.Carrying(),
				Sensors:  sensors,
			})
		}
	}

	return EpisodeResult{Outcome: s.Outcome(), Ticks: s.Tick()}, nil
}
