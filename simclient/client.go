// Package simclient connects a drive to a remote simulator engine over
// a websocket event stream: the engine pushes one tick event per
// simulation step, the client answers with the drive's move, and the
// session ends on a result event or a normal close.
package simclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wang-owen/AR-Day-2024/game"
)

// Config holds engine connection settings.
type Config struct {
	// EngineURL is a template with one %s for the game id,
	// e.g. "ws://localhost:8080/games/%s/socket".
	EngineURL      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultConfig returns sensible defaults for a local engine.
func DefaultConfig() Config {
	return Config{
		EngineURL:      "ws://localhost:8080/games/%s/socket",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

// Mover decides one move per snapshot (satisfied by agent.Drive).
type Mover interface {
	NextMove(*game.Sensors) (game.Move, error)
}

// Event is the engine's stream framing.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Result is the engine's terminal event payload.
type Result struct {
	Outcome string `json:"outcome"`
	Ticks   int    `json:"ticks"`
}

type moveMsg struct {
	Move string `json:"move"`
}

// Client plays games against a remote engine.
type Client struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, log: log}
}

// Play connects to the engine for gameID and answers tick events with
// mover's decisions until the engine reports a result or closes the
// connection. A context cancellation between ticks aborts the session.
func (c *Client) Play(ctx context.Context, gameID string, mover Mover) (Result, error) {
	url := fmt.Sprintf(c.cfg.EngineURL, gameID)

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("connect to engine: %w", err)
	}
	defer conn.Close()

	c.log.Info("connected to engine", "url", url, "game_id", gameID)

	ticks := 0
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if c.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// Engine hung up without a result event.
				return Result{Outcome: "closed", Ticks: ticks}, nil
			}
			return Result{}, fmt.Errorf("read event: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(message, &ev); err != nil {
			c.log.Warn("skipping malformed event", "err", err)
			continue
		}

		switch ev.Type {
		case "tick":
			var sensors game.Sensors
			if err := json.Unmarshal(ev.Data, &sensors); err != nil {
				return Result{}, fmt.Errorf("decode sensors: %w", err)
			}

			move, err := mover.NextMove(&sensors)
			if err != nil {
				return Result{}, fmt.Errorf("tick %d: %w", ticks, err)
			}
			ticks++

			if err := writeEvent(conn, "move", moveMsg{Move: move.String()}); err != nil {
				return Result{}, fmt.Errorf("send move: %w", err)
			}
			c.log.Debug("tick answered", "tick", ticks, "move", move.String())

		case "result":
			var res Result
			if err := json.Unmarshal(ev.Data, &res); err != nil {
				return Result{}, fmt.Errorf("decode result: %w", err)
			}
			if res.Ticks == 0 {
				res.Ticks = ticks
			}
			return res, nil

		default:
			// Engines may add event types; ignore what we don't know.
			c.log.Debug("ignoring event", "type", ev.Type)
		}
	}
}

func writeEvent(conn *websocket.Conn, typ string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(Event{Type: typ, Data: raw})
}
