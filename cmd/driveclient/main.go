// Command driveclient connects the drive agent to a remote simulator
// engine over websocket and plays one game.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wang-owen/AR-Day-2024/agent"
	"github.com/wang-owen/AR-Day-2024/logging"
	"github.com/wang-owen/AR-Day-2024/simclient"
)

func main() {
	engineURL := flag.String("engine", getEnvOrDefault("ENGINE_URL", "ws://localhost:8080/games/%s/socket"), "Engine websocket URL template (one %s for the game id)")
	gameID := flag.String("game", "", "Game id to join (required)")
	advanced := flag.Bool("advanced", false, "Play in advanced mode (target pod pickup)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "Max time to wait for an engine event")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	if *gameID == "" {
		log.Fatal("missing required -game flag")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(logging.NewHandler(os.Stdout, level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := simclient.DefaultConfig()
	cfg.EngineURL = *engineURL
	cfg.ReadTimeout = *readTimeout

	drive := agent.New(agent.Config{GameID: *gameID, Advanced: *advanced})
	client := simclient.New(cfg, logger)

	res, err := client.Play(ctx, *gameID, drive)
	if err != nil {
		logger.Error("game failed", "game_id", *gameID, "err", err)
		os.Exit(1)
	}

	logger.Info("game finished",
		"game_id", *gameID,
		"outcome", res.Outcome,
		"ticks", res.Ticks,
		"pod_acquired", drive.PodAcquired(),
	)
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
