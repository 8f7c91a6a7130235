// Command viewer runs a loopback debug server that drives a terrain world
// along x and streams the resident chunks to websocket subscribers. It stands
// in for the game renderer during generator tuning: point any client at
// /bootstrap for world parameters and /ws for FRAME messages.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dustrunner/internal/physics"
	"dustrunner/internal/sim/tuning"
	"dustrunner/internal/sim/world"
	"dustrunner/internal/viewerproto"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8642", "listen address (loopback only)")
	configPath := flag.String("config", "", "terrain tuning YAML (defaults when empty)")
	seed := flag.Int64("seed", 0, "seed override (0 keeps the config seed)")
	speed := flag.Float64("speed", 220, "reference drive speed, world units per second")
	hz := flag.Int("hz", 20, "update rate")
	flag.Parse()

	logger := log.New(os.Stdout, "[viewer] ", log.LstdFlags|log.Lmicroseconds)

	opts := tuning.Defaults()
	if *configPath != "" {
		var err error
		opts, err = tuning.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}
	if *seed != 0 {
		opts.Seed = *seed
	}

	w, err := world.New(opts, world.Deps{Physics: physics.NewStaticWorld(), Logger: logger})
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	s := newServer(w, opts, logger)
	go s.drive(*speed, *hz)

	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap", s.handleBootstrap)
	mux.HandleFunc("/ws", s.handleWS)

	logger.Printf("listening on %s (seed %d)", *addr, opts.Seed)
	logger.Fatal(http.ListenAndServe(*addr, mux))
}

type server struct {
	opts   tuning.Options
	logger *log.Logger

	upgrader websocket.Upgrader

	mu         sync.Mutex
	world      *world.World
	referenceX float64

	subMu  sync.Mutex
	nextID uint64
	subs   map[uint64]subscriber
}

type subscriber struct {
	out  chan []byte
	span float64
}

func newServer(w *world.World, opts tuning.Options, logger *log.Logger) *server {
	return &server{
		opts:   opts,
		logger: logger,
		world:  w,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev tool
		},
		subs: make(map[uint64]subscriber),
	}
}

// drive advances the reference position at a steady speed and fans frames out
// to subscribers. The world is only ever touched from this goroutine and the
// bootstrap handler, both under mu.
func (s *server) drive(speed float64, hz int) {
	dt := 1.0 / float64(hz)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		s.referenceX += speed * dt
		s.world.Update(s.referenceX, dt)
		stats := s.world.Stats()
		refX := s.referenceX
		s.mu.Unlock()

		s.subMu.Lock()
		for _, sub := range s.subs {
			s.mu.Lock()
			chunks := s.world.ChunksOverlapping(refX-sub.span, refX+sub.span)
			frame := viewerproto.FrameFromChunks(stats.Tick, refX, stats.Resident, chunks)
			s.mu.Unlock()

			b, err := json.Marshal(frame)
			if err != nil {
				s.logger.Printf("frame marshal: %v", err)
				continue
			}
			select {
			case sub.out <- b:
			default:
				// Slow consumer: drop the frame, never the world loop.
			}
		}
		s.subMu.Unlock()
	}
}

func (s *server) handleBootstrap(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}

	s.mu.Lock()
	resp := viewerproto.BootstrapResponse{
		ProtocolVersion: viewerproto.Version,
		Tick:            s.world.Stats().Tick,
		ReferenceX:      s.referenceX,
		WorldParams:     viewerproto.ParamsFromOptions(s.opts),
	}
	s.mu.Unlock()

	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (s *server) handleWS(rw http.ResponseWriter, r *http.Request) {
	if !isLoopbackRemote(r.RemoteAddr) {
		http.Error(rw, "forbidden", http.StatusForbidden)
		return
	}
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Handshake: SUBSCRIBE first.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var sub viewerproto.SubscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != viewerproto.TypeSubscribe || sub.ProtocolVersion != viewerproto.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"),
			time.Now().Add(time.Second))
		return
	}
	span := sub.SpanX
	if span <= 0 {
		span = s.opts.LoadDistance
	}

	out := make(chan []byte, 8)
	id := s.addSub(subscriber{out: out, span: span})
	defer s.dropSub(id)
	s.logger.Printf("subscriber %d joined (span %.0f)", id, span)

	// Reader only watches for close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Time{})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case b := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

func (s *server) addSub(sub subscriber) uint64 {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs[id] = sub
	return id
}

func (s *server) dropSub(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	delete(s.subs, id)
	s.logger.Printf("subscriber %d left", id)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
