package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FrameStats is the per-frame snapshot broadcast to debug clients.
type FrameStats struct {
	Type       string  `json:"type"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Zoom       float64 `json:"zoom"`
	Pitch      float64 `json:"pitch"`
	Bearing    float64 `json:"bearing"`
	Transition float64 `json:"transition"`
	TilesDrawn int     `json:"tilesDrawn"`
	TilesTotal int     `json:"tilesTotal"`
	FPS        float64 `json:"fps"`
	PickedLat  float64 `json:"pickedLat"`
	PickedLng  float64 `json:"pickedLng"`
	HasPick    bool    `json:"hasPick"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// statsServer pushes camera and culling stats to websocket clients so the
// renderer can be inspected without instrumenting the draw loop.
type statsServer struct {
	mu      sync.RWMutex
	latest  FrameStats
	clients map[*websocket.Conn]*sync.Mutex
}

func newStatsServer() *statsServer {
	return &statsServer{
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (s *statsServer) publish(stats FrameStats) {
	stats.Type = "frame"
	s.mu.Lock()
	s.latest = stats
	s.mu.Unlock()
}

// run serves the websocket endpoint and broadcasts the latest stats on a
// fixed interval. Blocks; call in a goroutine.
func (s *statsServer) run(port int, interval time.Duration) {
	go s.broadcastLoop(interval)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)

	fmt.Printf("Debug stats on ws://localhost:%d/ws\n", port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
}

func (s *statsServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMutex
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Drain incoming messages so pings and closes are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *statsServer) broadcastLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		stats := s.latest
		var stale []*websocket.Conn
		for conn, mutex := range s.clients {
			mutex.Lock()
			err := conn.WriteJSON(stats)
			mutex.Unlock()
			if err != nil {
				stale = append(stale, conn)
			}
		}
		s.mu.RUnlock()

		if len(stale) > 0 {
			s.mu.Lock()
			for _, conn := range stale {
				conn.Close()
				delete(s.clients, conn)
			}
			s.mu.Unlock()
		}
	}
}
