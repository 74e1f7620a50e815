// Package server exposes matches over websockets. Each connected client
// joins one match; every accepted action is resolved through the match
// driver and the resulting state is broadcast to the match's clients.
package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/beastbrawl/beastbrawl-server-go/internal/ai"
	"github.com/beastbrawl/beastbrawl-server-go/internal/driver"
	"github.com/beastbrawl/beastbrawl-server-go/internal/game"
)

var upgrader = websocket.Upgrader{
	// The browser client is served from a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PlayerSetup is the client-chosen creature loadout.
type PlayerSetup struct {
	Name string            `json:"name"`
	Kind game.CreatureKind `json:"kind"`
	Size game.SizeClass    `json:"size"`
}

// CreatePayload configures a new match.
type CreatePayload struct {
	Habitat game.Habitat `json:"habitat"`
	Player  PlayerSetup  `json:"player"`
	VsAI    bool         `json:"vs_ai"`
	Seed    int64        `json:"seed,omitempty"`
}

// JoinPayload fills the second seat of a waiting match.
type JoinPayload struct {
	GameID string      `json:"game_id"`
	Player PlayerSetup `json:"player"`
}

// aiSteps bounds how many actions the automated player may take per
// opportunity, so a proposer bug cannot spin the match forever.
const aiSteps = 30

type match struct {
	driver *driver.Driver
	rnd    *rand.Rand

	// Set for single-player matches.
	proposer *ai.Proposer
	aiID     string

	// Set while a two-player match waits for its second seat.
	waiting *CreatePayload
	hostID  string
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	gameID   string
}

// Hub accepts websocket clients and routes their messages to matches.
type Hub struct {
	logger   *zap.Logger
	recorder *game.ReplayRecorder
	seed     int64

	register   chan *client
	unregister chan *client

	mu      sync.RWMutex
	clients map[*client]bool
	matches map[string]*match
}

// NewHub creates a hub. recorder may be nil; seed fixes match randomness
// for every game the hub creates (0 leaves it to each match's own seed).
func NewHub(logger *zap.Logger, recorder *game.ReplayRecorder, seed int64) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		recorder:   recorder,
		seed:       seed,
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[*client]bool),
		matches:    make(map[string]*match),
	}
}

// Run processes client lifecycle events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("client disconnected", zap.String("player_id", c.playerID))
		}
	}
}

// ServeWS upgrades an HTTP request into a match client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 256)}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

func (h *Hub) handleMessage(c *client, msg Message) {
	switch msg.Type {
	case MsgCreateGame:
		h.createMatch(c, msg)
	case MsgJoinGame:
		h.joinMatch(c, msg)
	case MsgAction:
		h.applyAction(c, msg)
	default:
		c.sendError("unknown message type " + msg.Type)
	}
}

func (h *Hub) createMatch(c *client, msg Message) {
	var payload CreatePayload
	if msg.Action != nil {
		if err := json.Unmarshal(msg.Action, &payload); err != nil {
			c.sendError("bad create payload: " + err.Error())
			return
		}
	}
	if payload.Habitat == "" {
		payload.Habitat = game.HabitatForest
	}
	if payload.Player.Name == "" {
		payload.Player.Name = "Player"
	}

	seed := payload.Seed
	if seed == 0 {
		seed = h.seed
	}
	rnd := rand.New(rand.NewSource(seed))

	hostID := uuid.NewString()
	host := game.NewPlayerWith(hostID, payload.Player.Name, payload.Player.Kind, payload.Player.Size, rnd)

	m := &match{rnd: rnd, hostID: hostID}
	var st *game.GameState

	if payload.VsAI {
		m.aiID = uuid.NewString()
		m.proposer = ai.NewProposer(rnd)
		kind := game.AllKinds[rnd.Intn(len(game.AllKinds))]
		size := game.AllSizes[rnd.Intn(len(game.AllSizes))]
		rival := game.NewPlayerWith(m.aiID, "Wildmind", kind, size, rnd)
		st = game.NewGame(payload.Habitat, host, rival)
	} else {
		// Hold the host's seat until someone joins.
		m.waiting = &payload
		st = game.NewGame(payload.Habitat, host, nil)
	}

	m.driver = driver.New(h.logger, st, h.recorder)

	h.mu.Lock()
	h.matches[st.GameID] = m
	h.mu.Unlock()

	c.gameID = st.GameID
	c.playerID = hostID

	if payload.VsAI {
		next := m.driver.Apply(game.InitGame{State: st})
		h.broadcastState(next)
		return
	}
	h.broadcastState(m.driver.State())
}

func (h *Hub) joinMatch(c *client, msg Message) {
	var payload JoinPayload
	if err := json.Unmarshal(msg.Action, &payload); err != nil {
		c.sendError("bad join payload: " + err.Error())
		return
	}

	// Check-and-claim under the write lock: concurrent joins race for the
	// seat, and exactly one may win it.
	h.mu.Lock()
	m := h.matches[payload.GameID]
	claimed := m != nil && m.waiting != nil
	if claimed {
		m.waiting = nil
	}
	h.mu.Unlock()

	if m == nil {
		c.sendError("no such game " + payload.GameID)
		return
	}
	if !claimed {
		// Spectator or reconnect: just sync the state.
		c.gameID = payload.GameID
		h.sendState(c, m.driver.State())
		return
	}

	guestID := uuid.NewString()
	guest := game.NewPlayerWith(guestID, payload.Player.Name, payload.Player.Kind, payload.Player.Size, m.rnd)

	st := m.driver.State()
	st.Players[guestID] = guest

	c.gameID = payload.GameID
	c.playerID = guestID

	next := m.driver.Apply(game.InitGame{State: st})
	h.broadcastState(next)
}

func (h *Hub) applyAction(c *client, msg Message) {
	h.mu.RLock()
	m := h.matches[c.gameID]
	h.mu.RUnlock()
	if m == nil {
		c.sendError("not in a game")
		return
	}

	act, err := DecodeAction(msg.Kind, msg.Action)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	st := m.driver.Apply(act)
	h.broadcastState(st)

	if m.proposer != nil {
		h.runAI(m)
	}
}

// runAI lets the automated player act until control returns to the human:
// it answers interrupts addressed to it and plays out its own turns.
func (h *Hub) runAI(m *match) {
	for i := 0; i < aiSteps; i++ {
		st := m.driver.State()
		if st == nil || st.Over() {
			return
		}

		if act := m.proposer.ProposeReaction(st, m.aiID); act != nil {
			h.broadcastState(m.driver.Apply(act))
			continue
		}
		if st.PendingReaction != nil || st.PendingChoice != nil {
			return // waiting on the human
		}
		if st.CurrentPlayer != m.aiID {
			return
		}

		acted := false
		for _, act := range m.proposer.ProposeActions(st, m.aiID) {
			h.broadcastState(m.driver.Apply(act))
			acted = true
			// Re-plan if the action raised an interrupt.
			if cur := m.driver.State(); cur.PendingReaction != nil || cur.PendingChoice != nil || cur.Over() {
				break
			}
		}
		if !acted {
			return
		}
	}
	h.logger.Warn("ai step budget exhausted", zap.String("ai_id", m.aiID))
}

func (h *Hub) broadcastState(st *game.GameState) {
	if st == nil {
		return
	}
	data, err := EncodeState(st)
	if err != nil {
		h.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.gameID != st.GameID {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) sendState(c *client, st *game.GameState) {
	data, err := EncodeState(st)
	if err != nil {
		h.logger.Error("failed to encode state", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) sendError(reason string) {
	if data, err := EncodeError(reason); err == nil {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("malformed message: " + err.Error())
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
