package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/mohammad-meeta/skaters/internal/progress"
)

// Server exposes the tracker over HTTP and WebSocket. All mutations go
// through the tracker; this layer only translates requests, enforces the
// presentation-side preconditions, and pushes snapshots to clients.
type Server struct {
	tracker        *progress.Tracker
	broadcaster    *Broadcaster
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	authToken      string
}

func NewServer(tracker *progress.Tracker, broadcaster *Broadcaster, allowedOrigins []string, authToken string) *Server {
	s := &Server{
		tracker:        tracker,
		broadcaster:    broadcaster,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		authToken:      authToken,
	}

	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/badges", s.handleBadges)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/api/user", s.handleUser)
	mux.HandleFunc("/api/shop", s.handleShop)
	mux.HandleFunc("/api/shop/", s.handleShopRoutes)
	mux.HandleFunc("/api/tricks", s.handleTricks)
	mux.HandleFunc("/api/tricks/", s.handleTrickRoutes)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("WebSocket client connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn, s.tracker.Snapshot())

	go func() {
		defer func() {
			s.broadcaster.RemoveClient(c)
			log.Printf("WebSocket client disconnected: %s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, s.tracker.Snapshot())
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	badges := s.tracker.Badges()
	if badges == nil {
		badges = []progress.PracticeLog{}
	}
	writeJSON(w, badges)
}

type saveLogRequest struct {
	TrickID  string `json:"trickId"`
	Cones    int    `json:"cones"`
	ProofURL string `json:"proofUrl"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saveLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// A save that reaches full mastery must carry a proof recording,
	// either with this request or from an earlier save.
	snap := s.tracker.Snapshot()
	for _, trick := range snap.Tricks {
		if trick.ID != req.TrickID {
			continue
		}
		if req.Cones == trick.MaxCones && req.ProofURL == "" {
			if prev, ok := snap.Logs[req.TrickID]; !ok || prev.VideoProofURL == "" {
				http.Error(w, "video proof required for a full run", http.StatusUnprocessableEntity)
				return
			}
		}
	}

	entry, err := s.tracker.SaveLog(req.TrickID, req.Cones, req.ProofURL)
	if err != nil {
		if errors.Is(err, progress.ErrTrickNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, entry)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	s.tracker.RenameUser(strings.TrimSpace(req.Name))
	w.WriteHeader(http.StatusNoContent)
}

type shopResponse struct {
	Items         []progress.ShopItem `json:"items"`
	RedeemedItems []string            `json:"redeemedItems"`
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, shopResponse{
		Items:         s.tracker.Shop().Items(),
		RedeemedItems: s.tracker.Snapshot().RedeemedItems,
	})
}

func (s *Server) handleShopRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Parse: /api/shop/{id}/redeem
	path := strings.TrimPrefix(r.URL.Path, "/api/shop/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] != "redeem" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	itemID, err := url.PathUnescape(parts[0])
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	if !s.tracker.RedeemItem(itemID) {
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]bool{"redeemed": false})
		return
	}
	writeJSON(w, map[string]bool{"redeemed": true})
}

func (s *Server) handleTricks(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.tracker.Snapshot().Tricks)
	case http.MethodPost:
		trick, ok := decodeTrick(w, r)
		if !ok {
			return
		}
		id, err := s.tracker.AddTrick(trick)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		trick.ID = id
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, trick)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleTrickRoutes(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/tricks/"))
	if err != nil || id == "" {
		http.Error(w, "invalid trick id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		trick, ok := decodeTrick(w, r)
		if !ok {
			return
		}
		trick.ID = id
		if err := s.tracker.UpdateTrick(trick); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, trick)
	case http.MethodDelete:
		s.tracker.DeleteTrick(id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// decodeTrick parses and validates a trick payload, writing the error
// response itself when the payload is unusable.
func decodeTrick(w http.ResponseWriter, r *http.Request) (progress.Trick, bool) {
	var trick progress.Trick
	if err := json.NewDecoder(r.Body).Decode(&trick); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return trick, false
	}
	if trick.Name == "" || trick.MaxCones <= 0 {
		http.Error(w, "name and a positive maxCones are required", http.StatusBadRequest)
		return trick, false
	}
	return trick, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) authorize(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}

	if r.URL.Query().Get("token") == s.authToken {
		return true
	}

	if r.Header.Get("X-Skaters-Token") == s.authToken {
		return true
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.authToken {
		return true
	}

	return false
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
