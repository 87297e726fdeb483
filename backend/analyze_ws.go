package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"pente/engine"
)

type analyzeRequest struct {
	Snapshot string `json:"snapshot"`
	Turn     int    `json:"turn"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// AnalyzeClient streams one connection's analysis. Unlike hub clients its
// sends block, so no candidate score is dropped.
type AnalyzeClient struct {
	send chan []byte
	done chan struct{}
}

func (c *AnalyzeClient) sendJSON(msg wsMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	}
}

// serveAnalyzeWS reads analyze requests and answers each with one
// "candidate" message per root move followed by a "result" message.
func (s *server) serveAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &AnalyzeClient{send: make(chan []byte, 16), done: make(chan struct{})}

	go func() {
		defer close(client.done)
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send, s.pingInterval()); err != nil {
			s.log.Debugw("analyze write failed", "error", err)
		}
	}()
	defer close(client.send)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: "invalid message"})})
			continue
		}
		switch msg.Type {
		case "analyze":
			var req analyzeRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: "invalid payload"})})
				continue
			}
			if !s.streamAnalysis(client, req) {
				return
			}
		case "ping":
		default:
			client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: "unknown message type " + msg.Type})})
		}
	}
}

// streamAnalysis returns false once the client has gone away.
func (s *server) streamAnalysis(client *AnalyzeClient, req analyzeRequest) bool {
	pos, remaining, err := readSnapshot(strings.NewReader(req.Snapshot))
	if err != nil {
		return client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: err.Error()})})
	}
	pos.Turn = max(req.Turn, 1)
	alive := true
	resp, _, err := s.analyze(pos, remaining, func(rs engine.RootScore) {
		if alive {
			alive = client.sendJSON(wsMessage{Type: "candidate", Payload: mustMarshal(toRootScore(rs))})
		}
	})
	if !alive {
		return false
	}
	if err != nil {
		return client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: err.Error()})})
	}
	return client.sendJSON(wsMessage{Type: "result", Payload: mustMarshal(resp)})
}
