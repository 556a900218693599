// Impostor Game
//
// One phone is passed around the table. Each player taps their tile to see,
// in private, either the secret word or that they are an impostor. The group
// then debates and votes players out until every impostor is gone (players
// score 200 each) or only impostors are left standing (impostors score 500).
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Every connected screen gets the same public snapshot; role cards are
//   sent only to the screen that asked for them
// - Roster edits, impostor count (fixed or random range), category picker,
//   content filter and category visibility in the lobby
// - Short pause before each deal so the table sees the round start
// - Scores kept across rounds for as long as the session lives
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to open the session on a second screen, backed by go-qrcode

package main

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// actionShowCard re-opens a player's card without changing any state.
const actionShowCard impostor.ActionType = "show_card"

// StateMessage is broadcast to every screen after each change.
type StateMessage struct {
	Type     string        `json:"type"`     // "state"
	Starting bool          `json:"starting"` // a deal is pending
	View     impostor.View `json:"view"`
}

// CardMessage is sent only to the screen that revealed or re-opened a card.
type CardMessage struct {
	Type string        `json:"type"` // "card"
	Card impostor.Card `json:"card"`
}

// SimpleMessage is for generic notifications ("error", "closed").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	deviceID string
}

type actionRequest struct {
	client *Client
	action impostor.Action
}

type Hub struct {
	id      string
	rules   impostor.Rules
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan actionRequest
	deals    chan actionRequest
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	startDelay time.Duration
	starting   bool
	closed     bool
	state      impostor.State
}

func newHub(gameID string, catalog *impostor.Catalog, startDelay time.Duration) *Hub {
	now := time.Now()
	return &Hub{
		id: gameID,
		rules: impostor.Rules{
			Catalog: catalog,
			Source:  impostor.NewSource(),
		},
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan actionRequest),
		deals:      make(chan actionRequest),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
		startDelay: startDelay,
		state:      impostor.NewState(catalog),
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.addClient(cfg, c)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case req := <-h.actions:
			h.handleAction(cfg, req)

		case req := <-h.deals:
			h.mu.Lock()
			h.starting = false
			h.applyLocked(cfg, req)
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// addClient attaches c and sends it the current state. A client arriving
// after closeAll has its send channel closed straight away.
func (h *Hub) addClient(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(c.send)

		return
	}

	h.lastActive = time.Now()
	h.clients[c] = true
	h.sendLocked(c, h.stateMessageLocked())

	logf(cfg, "GAMES: Device %s connected to %s", c.deviceID, h.id)
}

func (h *Hub) stateMessageLocked() StateMessage {
	return StateMessage{
		Type:     "state",
		Starting: h.starting,
		View:     impostor.NewView(h.state, h.rules.Catalog),
	}
}

// sendLocked queues msg for a single client, dropping the client if its
// buffer is full. Assumes h.mu is held.
func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastStateLocked() {
	msg := h.stateMessageLocked()

	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

func (h *Hub) sendErrorLocked(c *Client, err error) {
	h.sendLocked(c, SimpleMessage{
		Type:    "error",
		Message: err.Error(),
	})
}

func (h *Hub) sendCardLocked(c *Client, playerID int) {
	card, err := impostor.NewCard(h.state, playerID)
	if err != nil {
		h.sendErrorLocked(c, err)

		return
	}

	h.sendLocked(c, CardMessage{
		Type: "card",
		Card: card,
	})
}

// handleAction processes a single message from a client.
func (h *Hub) handleAction(cfg *Config, req actionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	switch req.action.Type {
	case actionShowCard:
		h.sendCardLocked(req.client, req.action.PlayerID)

		return

	case impostor.ActionStartRound:
		if h.starting {
			return
		}

		if h.startDelay > 0 {
			h.starting = true
			h.broadcastStateLocked()

			time.AfterFunc(h.startDelay, func() {
				select {
				case h.deals <- req:
				case <-h.done:
				}
			})

			return
		}
	}

	h.applyLocked(cfg, req)
}

// applyLocked runs the action through the game rules and tells every screen
// about the outcome. Assumes h.mu is held.
func (h *Hub) applyLocked(cfg *Config, req actionRequest) {
	a := req.action

	next, err := h.rules.Apply(h.state, a)
	if err != nil {
		logf(cfg, "GAMES: Rejected %s from %s in %s: %v", a.Type, req.client.deviceID, h.id, err)
		h.sendErrorLocked(req.client, err)
		h.broadcastStateLocked()

		return
	}

	prev := h.state
	h.state = next

	switch {
	case a.Type == impostor.ActionStartRound:
		logf(cfg, "GAMES: Dealt round with %d players and %d impostors in %s",
			len(next.Players), len(next.Round.ImpostorIDs), h.id)
	case a.Type == impostor.ActionRevealRole:
		h.sendCardLocked(req.client, a.PlayerID)
	case !prev.Phase.Terminal() && next.Phase.Terminal():
		logf(cfg, "GAMES: Round won by %s in %s", next.Winner(), h.id)
	}

	h.broadcastStateLocked()
}

// closeAll disconnects all clients of this hub and stops it (used by reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.stopOnce.Do(func() { close(h.done) })

	for c := range h.clients {
		select {
		case c.send <- SimpleMessage{Type: "closed", Message: "This game has ended after being idle."}:
		default:
		}
		close(c.send)
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const deviceCookieName = "impostor_id"

func getOrSetDeviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(deviceCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	catalog     *impostor.Catalog
	idleTimeout time.Duration
}

func newGameManager(catalog *impostor.Catalog, idleTimeout time.Duration) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		catalog:     catalog,
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.catalog, cfg.startDelay)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap removes hubs that have been idle since before cutoff.
func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.closeAll()
			reaped++
		}
	}

	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		gm.reap(time.Now().Add(-gm.idleTimeout))
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		deviceID := getOrSetDeviceID(w, r)

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade from %s: %v", realIP(r), err)
			return
		}

		// The server's read and write timeouts still apply to the hijacked
		// connection.
		_ = conn.SetReadDeadline(time.Time{})
		_ = conn.SetWriteDeadline(time.Time{})

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			deviceID: deviceID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg impostor.Action
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.actions <- actionRequest{
			client: c,
			action: msg,
		}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

func getIndexHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		data, err := assets.ReadFile("assets/impostor/index.html")
		if err != nil {
			errs <- err
			http.Error(w, "missing page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetDeviceID(w, r)

		_, err = w.Write(data)
		if err != nil {
			errs <- err
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerImpostorGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerImpostorGame(cfg *Config, path string, catalog *impostor.Catalog, mux *httprouter.Router, errs chan<- error) *GameManager {
	gm := newGameManager(catalog, cfg.sessionTimeout)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	return gm
}
