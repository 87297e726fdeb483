package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pente/config"
	"pente/engine"
	"pente/render"
	"pente/snapshot"
)

const maxSnapshotBytes = 16 << 10

type server struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	games    *gameRegistry
	hub      *Hub
	upgrader websocket.Upgrader
}

type moveResponse struct {
	Move     string      `json:"move"`
	Row      int         `json:"row"`
	Col      int         `json:"col"`
	Player   string      `json:"player"`
	Captures []string    `json:"captures"`
	Board    []string    `json:"board"`
	Turn     int         `json:"turn"`
	Won      bool        `json:"won"`
	Stats    statsDTO    `json:"stats"`
	Scores   []rootScore `json:"scores,omitempty"`
}

type statsDTO struct {
	Nodes          int     `json:"nodes"`
	Leaves         int     `json:"leaves"`
	Cutoffs        int     `json:"cutoffs"`
	RootCandidates int     `json:"root_candidates"`
	MaxDepth       int     `json:"max_depth"`
	ElapsedMs      float64 `json:"elapsed_ms"`
}

type rootScore struct {
	Move  string `json:"move"`
	Score string `json:"score"`
	Index int    `json:"index"`
	Total int    `json:"total"`
}

type gameResponse struct {
	ID      string         `json:"id"`
	Turn    int            `json:"turn"`
	Board   []string       `json:"board"`
	History []HistoryEntry `json:"history"`
}

func newServer(cfg config.Config, log *zap.SugaredLogger, games *gameRegistry, hub *Hub) *server {
	return &server{
		cfg:      cfg,
		log:      log,
		games:    games,
		hub:      hub,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/api/games", s.handleCreateGame)
	r.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.games.Summaries())
	})
	r.Route("/api/games/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/move", s.handleGameMove)
		r.Get("/board.svg", s.handleBoardSVG)
	})
	r.Post("/api/analyze", s.handleAnalyze)

	r.Get("/ws/analyze", s.serveAnalyzeWS)
	r.Get("/ws/games", s.serveGamesWS)
	return r
}

func (s *server) pingInterval() time.Duration {
	return time.Duration(s.cfg.Server.PingSeconds) * time.Second
}

func (s *server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	record := s.games.Create()
	if err := record.Turns.Store(r.Context(), 1); err != nil {
		s.log.Errorw("init turn counter", "game", record.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "turn store unavailable"})
		return
	}
	s.log.Infow("game created", "game", record.ID)
	writeJSON(w, http.StatusCreated, map[string]any{"id": record.ID, "turn": 1})
}

func (s *server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := s.games.Snapshot(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": errUnknownGame.Error()})
		return
	}
	turn, err := record.Turns.Load(r.Context())
	if err != nil {
		s.log.Errorw("load turn counter", "game", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "turn store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{
		ID:      record.ID,
		Turn:    turn,
		Board:   boardRows(record.Board),
		History: record.History.All(),
	})
}

// handleGameMove answers a snapshot for a tracked game: the turn comes from
// the game's counter, which is advanced after the move is chosen.
func (s *server) handleGameMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, ok := s.games.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": errUnknownGame.Error()})
		return
	}
	pos, remaining, err := readSnapshot(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	record.play.Lock()
	defer record.play.Unlock()
	pos.Turn, err = record.Turns.Load(r.Context())
	if err != nil {
		s.log.Errorw("load turn counter", "game", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "turn store unavailable"})
		return
	}
	resp, board, err := s.analyze(pos, remaining, nil)
	if err != nil {
		writeAnalyzeError(w, err)
		return
	}
	next, err := snapshot.Advance(r.Context(), record.Turns)
	if err != nil {
		s.log.Errorw("advance turn counter", "game", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "turn store unavailable"})
		return
	}
	resp.Turn = next
	entry := HistoryEntry{
		Notation:  resp.Move,
		Row:       resp.Row,
		Col:       resp.Col,
		Player:    resp.Player,
		Turn:      pos.Turn,
		Captures:  len(resp.Captures),
		ElapsedMs: resp.Stats.ElapsedMs,
		Depth:     resp.Stats.MaxDepth,
	}
	if err := s.games.Record(id, board, entry); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if s.hub.HasClients() {
		s.hub.Publish("move", gameEvent{GameID: id, Move: resp})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	turn := 1
	if raw := r.URL.Query().Get("turn"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "turn must be a positive integer"})
			return
		}
		turn = parsed
	}
	pos, remaining, err := readSnapshot(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pos.Turn = turn
	var scores []rootScore
	resp, _, err := s.analyze(pos, remaining, func(rs engine.RootScore) {
		scores = append(scores, toRootScore(rs))
	})
	if err != nil {
		writeAnalyzeError(w, err)
		return
	}
	resp.Turn = turn
	resp.Scores = scores
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	record, ok := s.games.Snapshot(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	etag := fmt.Sprintf("\"%016x\"", BoardHash(record.Board))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	opts := render.Options{}
	if record.HasLast {
		opts.Last = &render.Point{Row: record.Last[0], Col: record.Last[1]}
	}
	var buf bytes.Buffer
	render.BoardSVG(&buf, record.Board, opts)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// analyze runs one search on pos and returns the response plus the board
// after the chosen move.
func (s *server) analyze(pos engine.Position, remaining float64, observer func(engine.RootScore)) (moveResponse, engine.Board, error) {
	mm, err := engine.NewMoveManager(pos,
		engine.WithPolicy(s.cfg.MovePolicy()),
		engine.WithWeights(s.cfg.Heuristics),
	)
	if err != nil {
		return moveResponse{}, engine.Board{}, err
	}
	opts := []engine.AgentOption{
		engine.WithMaxDepth(s.cfg.DepthFor(remaining)),
		engine.WithLogger(s.log, s.cfg.Search.LogStats),
	}
	if observer != nil {
		opts = append(opts, engine.WithRootObserver(observer))
	}
	agent := engine.NewAgent(mm, opts...)
	move, err := agent.ChooseMove()
	if err != nil {
		return moveResponse{}, engine.Board{}, err
	}
	mm.Apply(move)
	won := mm.HaveWeWon(move)

	captures := make([]string, 0, move.CaptureCount())
	for _, d := range move.Captures() {
		captures = append(captures, d.String())
	}
	stats := agent.Stats()
	return moveResponse{
		Move:     move.Notation(),
		Row:      move.Row(),
		Col:      move.Col(),
		Player:   move.Player().String(),
		Captures: captures,
		Board:    boardRows(mm.Board()),
		Turn:     pos.Turn,
		Won:      won,
		Stats: statsDTO{
			Nodes:          stats.Nodes,
			Leaves:         stats.Leaves,
			Cutoffs:        stats.Cutoffs,
			RootCandidates: stats.RootCandidates,
			MaxDepth:       stats.MaxDepth,
			ElapsedMs:      float64(stats.Elapsed.Microseconds()) / 1000,
		},
	}, mm.Board(), nil
}

func readSnapshot(body io.Reader) (engine.Position, float64, error) {
	return snapshot.Read(io.LimitReader(body, maxSnapshotBytes))
}

func writeAnalyzeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, engine.ErrNoMoves) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func toRootScore(rs engine.RootScore) rootScore {
	return rootScore{
		Move:  rs.Move.Notation(),
		Score: scoreString(rs.Score),
		Index: rs.Index,
		Total: rs.Total,
	}
}

// scoreString keeps the sentinels readable and JSON-safe.
func scoreString(score engine.Score) string {
	switch score {
	case engine.Win:
		return "WIN"
	case engine.Loss:
		return "LOSS"
	case engine.Tie:
		return "TIE"
	default:
		return strconv.FormatInt(int64(score), 10)
	}
}

func boardRows(board engine.Board) []string {
	return strings.Split(strings.TrimSuffix(board.String(), "\n"), "\n")
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
