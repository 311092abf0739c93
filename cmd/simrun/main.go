// Command simrun plays warehouse episodes against the local simulator.
//
// With -n 1 (the default) it runs the scenario once, logs every tick,
// and writes the episode to a parquet file. With -n > 1 it fans
// episodes out over a worker pool, randomizing the player start tile
// per episode, records outcomes in a sqlite results index, and shows a
// live progress view.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/wang-owen/AR-Day-2024/agent"
	"github.com/wang-owen/AR-Day-2024/logging"
	"github.com/wang-owen/AR-Day-2024/sim"
	"github.com/wang-owen/AR-Day-2024/store"
)

func main() {
	scenarioPath := flag.String("scenario", "scenarios/basic.yaml", "Scenario YAML file")
	outDir := flag.String("out-dir", "data/episodes", "Output directory for episode parquet files")
	dbPath := flag.String("db", "data/results.db", "SQLite results index (batch mode)")
	n := flag.Int("n", 1, "Number of episodes")
	workers := flag.Int("workers", 8, "Worker pool size (batch mode)")
	seed := flag.Int64("seed", 1, "Seed for randomized player starts (batch mode)")
	verbose := flag.Bool("v", false, "Debug logging (single mode)")
	flag.Parse()

	sc, err := sim.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	if *n <= 1 {
		runSingle(sc, *outDir, *verbose)
		return
	}
	runBatch(sc, *dbPath, *n, *workers, *seed)
}

func runSingle(sc *sim.Scenario, outDir string, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewHandler(os.Stdout, level))

	episodeID := uuid.NewString()
	drive := agent.New(agent.Config{GameID: episodeID, Advanced: sc.Advanced})

	rows := make([]store.TickRow, 0, 256)
	res, err := sim.RunEpisode(sc, drive, func(r sim.TickRecord) {
		rows = append(rows, store.NewTickRow(episodeID, sc.Name, r))
		logger.Debug("tick",
			"tick", r.Tick,
			"move", r.Move.String(),
			"moved", r.Moved,
			"player", fmt.Sprintf("(%d,%d)", r.Player.X, r.Player.Y),
			"carrying", r.Carrying,
		)
	})
	if err != nil {
		logger.Error("episode failed", "episode_id", episodeID, "err", err)
		os.Exit(1)
	}

	path, err := store.WriteEpisodeParquet(outDir, episodeID, rows)
	if err != nil {
		logger.Error("episode write failed", "episode_id", episodeID, "err", err)
		os.Exit(1)
	}

	logger.Info("episode finished",
		"episode_id", episodeID,
		"scenario", sc.Name,
		"outcome", string(res.Outcome),
		"ticks", res.Ticks,
		"parquet", path,
	)
}

// EpisodeUpdate feeds the live view as workers finish episodes.
type EpisodeUpdate struct {
	WorkerID int
	Outcome  sim.Outcome
	Ticks    int
}

func runBatch(sc *sim.Scenario, dbPath string, n, workers int, seed int64) {
	results, err := store.OpenResults(dbPath)
	if err != nil {
		log.Fatalf("Failed to open results db: %v", err)
	}
	defer results.Close()

	updates := make(chan EpisodeUpdate, workers)
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(seed + int64(i)*7919))
				episode := *sc
				episode.Player = randomFreeStart(&episode, rng)

				episodeID := uuid.NewString()
				drive := agent.New(agent.Config{GameID: episodeID, Advanced: episode.Advanced})

				res, err := sim.RunEpisode(&episode, drive, nil)
				if err != nil {
					log.Printf("[Worker %d] Episode %s failed: %v", workerID, episodeID, err)
					continue
				}

				if err := results.InsertEpisode(store.Episode{
					ID:       episodeID,
					Scenario: episode.Name,
					Advanced: episode.Advanced,
					Ticks:    res.Ticks,
					Outcome:  string(res.Outcome),
				}); err != nil {
					log.Printf("[Worker %d] Failed to record %s: %v", workerID, episodeID, err)
				}

				updates <- EpisodeUpdate{WorkerID: workerID, Outcome: res.Outcome, Ticks: res.Ticks}
			}
		}(w)
	}

	p := tea.NewProgram(initialModel(n, updates))
	go func() {
		wg.Wait()
		p.Send(batchDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}

	counts, err := results.OutcomeCounts()
	if err != nil {
		log.Fatalf("Failed to read results: %v", err)
	}
	fmt.Printf("\nResults in %s:\n", dbPath)
	for outcome, count := range counts {
		fmt.Printf("  %-10s %d\n", outcome, count)
	}
}

// randomFreeStart picks a start tile not occupied by a drive or pod.
// Falls back to the scenario's own start if the field is crowded.
func randomFreeStart(sc *sim.Scenario, rng *rand.Rand) sim.Tile {
	for attempt := 0; attempt < 100; attempt++ {
		t := sim.Tile{X: rng.Intn(sc.Width), Y: rng.Intn(sc.Height)}
		free := true
		for _, d := range sc.Drives {
			if d == t {
				free = false
				break
			}
		}
		for _, p := range sc.Pods {
			if p == t {
				free = false
				break
			}
		}
		if free {
			return t
		}
	}
	return sc.Player
}

// Live batch view.

type batchDoneMsg struct{}

type tickMsg time.Time

type model struct {
	total     int
	finished  int
	delivered int
	timeouts  int
	sumTicks  int
	startTime time.Time
	recent    []string
	updates   chan EpisodeUpdate
	done      bool
}

func initialModel(total int, updates chan EpisodeUpdate) model {
	return model{total: total, startTime: time.Now(), updates: updates}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates chan EpisodeUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, tickCmd()
	case batchDoneMsg:
		m.done = true
		return m, tea.Quit
	case EpisodeUpdate:
		m.finished++
		m.sumTicks += msg.Ticks
		switch msg.Outcome {
		case sim.OutcomeDelivered:
			m.delivered++
		case sim.OutcomeTimeout:
			m.timeouts++
		}
		line := fmt.Sprintf("Worker %d: %s in %d ticks", msg.WorkerID, msg.Outcome, msg.Ticks)
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > 10 {
			m.recent = m.recent[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	perSec := 0.0
	avgTicks := 0.0
	if duration.Seconds() >= 1 {
		perSec = float64(m.finished) / duration.Seconds()
	}
	if m.finished > 0 {
		avgTicks = float64(m.sumTicks) / float64(m.finished)
	}

	s := fmt.Sprintf("Episodes:   %d / %d\n", m.finished, m.total)
	s += fmt.Sprintf("Delivered:  %d\n", m.delivered)
	s += fmt.Sprintf("Timeouts:   %d\n", m.timeouts)
	s += fmt.Sprintf("Avg Ticks:  %.1f\n", avgTicks)
	s += fmt.Sprintf("Duration:   %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Eps/Sec:    %.2f\n\n", perSec)

	s += "Recent Episodes:\n"
	for _, line := range m.recent {
		s += line + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}
