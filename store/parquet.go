// Package store persists finished episodes: one parquet file of tick
// rows per episode for replay/analysis, and a small sqlite index of
// episode outcomes for batch runs.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/wang-owen/AR-Day-2024/game"
	"github.com/wang-owen/AR-Day-2024/sim"
)

// TickRow is one applied tick of an episode.
//
// World state is flattened into parallel coordinate arrays so rows
// compress well and need no nested schema. Move is the wire name of the
// emitted move; Moved records whether the simulator accepted it.
type TickRow struct {
	EpisodeID string `parquet:"episode_id,dict"`
	Scenario  string `parquet:"scenario,dict"`
	Tick      int32  `parquet:"tick"`

	Move  string `parquet:"move,dict"`
	Moved bool   `parquet:"moved"`

	PlayerX  int32 `parquet:"player_x"`
	PlayerY  int32 `parquet:"player_y"`
	Carrying bool  `parquet:"carrying"`

	DriveX []int32 `parquet:"drive_x"`
	DriveY []int32 `parquet:"drive_y"`
	PodX   []int32 `parquet:"pod_x"`
	PodY   []int32 `parquet:"pod_y"`
	GoalX  []int32 `parquet:"goal_x"`
	GoalY  []int32 `parquet:"goal_y"`
}

// NewTickRow flattens a sim tick record into a storable row.
func NewTickRow(episodeID, scenario string, r sim.TickRecord) TickRow {
	row := TickRow{
		EpisodeID: episodeID,
		Scenario:  scenario,
		Tick:      int32(r.Tick),
		Move:      r.Move.String(),
		Moved:     r.Moved,
		PlayerX:   int32(r.Player.X),
		PlayerY:   int32(r.Player.Y),
		Carrying:  r.Carrying,
	}
	row.DriveX, row.DriveY = splitCoords(r.Sensors.Drives)
	row.PodX, row.PodY = splitCoords(r.Sensors.Pods)
	row.GoalX, row.GoalY = splitCoords(r.Sensors.Goals)
	return row
}

func splitCoords(pts []game.Point) ([]int32, []int32) {
	if len(pts) == 0 {
		return nil, nil
	}
	xs := make([]int32, len(pts))
	ys := make([]int32, len(pts))
	for i, p := range pts {
		xs[i] = int32(p.X)
		ys[i] = int32(p.Y)
	}
	return xs, ys
}

// WriteEpisodeParquet writes one episode's rows to
// <outDir>/episode_<id>_<timestamp>.parquet and returns the path.
// The file is written to a temp path and renamed atomically.
func WriteEpisodeParquet(outDir, episodeID string, rows []TickRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no rows for episode %s", episodeID)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("episode_%s_%s.parquet", episodeID, time.Now().UTC().Format("20060102T150405"))
	outPath := filepath.Join(outDir, name)
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "episode_tick_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return outPath, nil
}
