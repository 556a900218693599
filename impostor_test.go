package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/gorilla/websocket"
)

// envelope decodes any message the hub sends.
type envelope struct {
	Type     string        `json:"type"`
	Starting bool          `json:"starting"`
	View     impostor.View `json:"view"`
	Card     impostor.Card `json:"card"`
	Message  string        `json:"message"`
}

func newTestServer(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(newTestMux(t, cfg))
	t.Cleanup(srv.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/impostor/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg envelope
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}

	return msg
}

func readType(t *testing.T, conn *websocket.Conn, want string) envelope {
	t.Helper()

	msg := read(t, conn)
	if msg.Type != want {
		t.Fatalf("expected %q message, got %+v", want, msg)
	}

	return msg
}

func send(t *testing.T, conn *websocket.Conn, a impostor.Action) {
	t.Helper()

	if err := conn.WriteJSON(a); err != nil {
		t.Fatalf("write %s: %v", a.Type, err)
	}
}

func TestRoundOverWebSocket(t *testing.T) {
	srv := newTestServer(t, newTestConfig())

	table := dial(t, srv, "ROUNDTRP")
	msg := readType(t, table, "state")
	if msg.View.Phase != impostor.PhaseLobby {
		t.Fatalf("expected lobby, got %s", msg.View.Phase)
	}
	if len(msg.View.Players) != impostor.DefaultPlayers {
		t.Fatalf("expected %d players, got %d", impostor.DefaultPlayers, len(msg.View.Players))
	}

	watcher := dial(t, srv, "ROUNDTRP")
	readType(t, watcher, "state")

	send(t, table, impostor.Action{Type: impostor.ActionStartRound})
	msg = readType(t, table, "state")
	if msg.View.Phase != impostor.PhaseRound {
		t.Fatalf("expected round, got %s", msg.View.Phase)
	}
	if msg.View.Word != "" || len(msg.View.ImpostorIDs) != 0 {
		t.Error("secret word or impostors leaked into the shared view")
	}

	send(t, table, impostor.Action{Type: impostor.ActionRevealRole, PlayerID: 1})
	card := readType(t, table, "card").Card
	if card.PlayerID != 1 {
		t.Errorf("expected card for player 1, got %d", card.PlayerID)
	}
	switch card.Role {
	case impostor.RoleImpostor:
		if card.Word != "" {
			t.Error("impostor card shows the word")
		}
	case impostor.RoleWord:
		if card.Word == "" {
			t.Error("word card is missing the word")
		}
	default:
		t.Errorf("expected a revealed role, got %q", card.Role)
	}

	msg = readType(t, table, "state")
	if msg.View.Revealed != 1 {
		t.Errorf("expected 1 revealed, got %d", msg.View.Revealed)
	}

	send(t, table, impostor.Action{Type: impostor.ActionAdvanceToResults})
	errMsg := readType(t, table, "error")
	if !strings.Contains(errMsg.Message, impostor.ErrPrematureResults.Error()) {
		t.Errorf("expected premature results error, got %q", errMsg.Message)
	}
	readType(t, table, "state")

	// The second screen only ever sees the shared snapshot.
	for range 3 {
		readType(t, watcher, "state")
	}
}

func TestShowCardBeforeReveal(t *testing.T) {
	srv := newTestServer(t, newTestConfig())

	conn := dial(t, srv, "SHOWCARD")
	readType(t, conn, "state")

	send(t, conn, impostor.Action{Type: "show_card", PlayerID: 2})
	if msg := readType(t, conn, "error"); !strings.Contains(msg.Message, impostor.ErrNoRound.Error()) {
		t.Errorf("expected no round error, got %q", msg.Message)
	}

	send(t, conn, impostor.Action{Type: impostor.ActionStartRound})
	readType(t, conn, "state")

	send(t, conn, impostor.Action{Type: "show_card", PlayerID: 2})
	card := readType(t, conn, "card").Card
	if card.Role != impostor.RoleNone || card.Word != "" {
		t.Errorf("expected a face-down card, got %+v", card)
	}
}

func TestStartDelay(t *testing.T) {
	cfg := newTestConfig()
	cfg.startDelay = 50 * time.Millisecond
	srv := newTestServer(t, cfg)

	conn := dial(t, srv, "DELAYED1")
	readType(t, conn, "state")

	send(t, conn, impostor.Action{Type: impostor.ActionStartRound})

	msg := readType(t, conn, "state")
	if !msg.Starting || msg.View.Phase != impostor.PhaseLobby {
		t.Fatalf("expected a pending deal in the lobby, got starting=%v phase=%s", msg.Starting, msg.View.Phase)
	}

	msg = readType(t, conn, "state")
	if msg.Starting || msg.View.Phase != impostor.PhaseRound {
		t.Fatalf("expected the round to be dealt, got starting=%v phase=%s", msg.Starting, msg.View.Phase)
	}
}

func TestRejectedActionKeepsState(t *testing.T) {
	srv := newTestServer(t, newTestConfig())

	conn := dial(t, srv, "REJECTED")
	readType(t, conn, "state")

	send(t, conn, impostor.Action{Type: impostor.ActionRemovePlayer, PlayerID: 1})
	msg := readType(t, conn, "state")
	if len(msg.View.Players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(msg.View.Players))
	}

	send(t, conn, impostor.Action{Type: impostor.ActionRemovePlayer, PlayerID: 2})
	readType(t, conn, "error")
	msg = readType(t, conn, "state")
	if len(msg.View.Players) != 3 {
		t.Errorf("expected the roster to stay at 3, got %d", len(msg.View.Players))
	}

	send(t, conn, impostor.Action{Type: "dance"})
	if msg := readType(t, conn, "error"); !strings.Contains(msg.Message, impostor.ErrUnknownAction.Error()) {
		t.Errorf("expected unknown action error, got %q", msg.Message)
	}
}

func TestGamesAreIsolated(t *testing.T) {
	srv := newTestServer(t, newTestConfig())

	a := dial(t, srv, "GAMEAAAA")
	readType(t, a, "state")
	b := dial(t, srv, "GAMEBBBB")
	readType(t, b, "state")

	send(t, a, impostor.Action{Type: impostor.ActionAddPlayer})
	if msg := readType(t, a, "state"); len(msg.View.Players) != 5 {
		t.Fatalf("expected 5 players, got %d", len(msg.View.Players))
	}

	send(t, b, impostor.Action{Type: impostor.ActionRenamePlayer, PlayerID: 1, Name: "Ana"})
	msg := readType(t, b, "state")
	if len(msg.View.Players) != impostor.DefaultPlayers {
		t.Errorf("expected the other game to keep %d players, got %d", impostor.DefaultPlayers, len(msg.View.Players))
	}
	if msg.View.Players[0].Name != "Ana" {
		t.Errorf("expected rename to apply, got %q", msg.View.Players[0].Name)
	}
}

func TestReapIdleGames(t *testing.T) {
	cfg := newTestConfig()
	gm := newGameManager(impostor.DefaultCatalog(), 0)

	idle := gm.getHub(cfg, "IDLEGAME")
	fresh := gm.getHub(cfg, "FRESHGAM")

	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	if n := gm.reap(time.Now().Add(-time.Hour)); n != 1 {
		t.Fatalf("expected 1 game reaped, got %d", n)
	}

	select {
	case <-idle.done:
	case <-time.After(5 * time.Second):
		t.Fatal("idle hub was not stopped")
	}

	gm.mu.Lock()
	_, idleKept := gm.hubs["IDLEGAME"]
	kept := gm.hubs["FRESHGAM"]
	gm.mu.Unlock()

	if idleKept {
		t.Error("idle game still registered")
	}
	if kept != fresh {
		t.Error("fresh game was reaped")
	}

	fresh.closeAll()
}

func TestNewGameIDs(t *testing.T) {
	gm := newGameManager(impostor.DefaultCatalog(), 0)

	seen := make(map[string]bool)
	for range 100 {
		id := gm.newGameID()
		if len(id) != 8 {
			t.Fatalf("expected 8 characters, got %q", id)
		}
		if strings.ContainsAny(id, "0O1lI") {
			t.Errorf("game id %q contains ambiguous characters", id)
		}
		seen[id] = true
	}

	if len(seen) < 99 {
		t.Errorf("expected unique ids, got %d distinct of 100", len(seen))
	}
}

func TestRegisterAfterClose(t *testing.T) {
	cfg := newTestConfig()
	h := newHub("LATECOME", impostor.DefaultCatalog(), 0)
	h.closeAll()

	c := &Client{send: make(chan any, 16), deviceID: "late"}
	h.addClient(cfg, c)

	if _, ok := <-c.send; ok {
		t.Error("expected the late client's send channel to be closed")
	}

	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()

	if n != 0 {
		t.Errorf("expected no clients on a closed hub, got %d", n)
	}
}
