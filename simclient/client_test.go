package simclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wang-owen/AR-Day-2024/agent"
	"github.com/wang-owen/AR-Day-2024/game"
)

// fakeEngine serves a fixed number of tick events, checks each move
// reply, then sends a result event.
func fakeEngine(t *testing.T, ticks int, wantMove string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		player := game.Point{X: 0, Y: 0}
		sensors := game.Sensors{
			Player: &player,
			Goals:  []game.Point{{X: 3, Y: 0}},
		}

		for i := 0; i < ticks; i++ {
			raw, _ := json.Marshal(sensors)
			if err := conn.WriteJSON(Event{Type: "tick", Data: raw}); err != nil {
				t.Errorf("write tick: %v", err)
				return
			}

			var reply Event
			if err := conn.ReadJSON(&reply); err != nil {
				t.Errorf("read move: %v", err)
				return
			}
			if reply.Type != "move" {
				t.Errorf("reply type=%q want \"move\"", reply.Type)
			}
			var mv struct {
				Move string `json:"move"`
			}
			if err := json.Unmarshal(reply.Data, &mv); err != nil {
				t.Errorf("decode move: %v", err)
			}
			if mv.Move != wantMove {
				t.Errorf("tick %d: move=%q want %q", i, mv.Move, wantMove)
			}
		}

		raw, _ := json.Marshal(Result{Outcome: "delivered", Ticks: ticks})
		if err := conn.WriteJSON(Event{Type: "result", Data: raw}); err != nil {
			t.Errorf("write result: %v", err)
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/games/%s/socket"
}

func TestPlay_AnswersTicksUntilResult(t *testing.T) {
	srv := fakeEngine(t, 3, "RIGHT")
	defer srv.Close()

	c := New(Config{
		EngineURL:      wsURL(srv),
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
	}, nil)

	drive := agent.New(agent.Config{GameID: "g42"})
	res, err := c.Play(context.Background(), "g42", drive)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != "delivered" {
		t.Fatalf("outcome=%q want \"delivered\"", res.Outcome)
	}
	if res.Ticks != 3 {
		t.Fatalf("ticks=%d want 3", res.Ticks)
	}
}

func TestPlay_ContextCancelled(t *testing.T) {
	// An engine that never sends anything: cancellation must win.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	c := New(Config{
		EngineURL:      wsURL(srv),
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    200 * time.Millisecond,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Play(ctx, "g1", agent.New(agent.Config{})); err == nil {
		t.Fatal("Play succeeded with cancelled context")
	}
}
