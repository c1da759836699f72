package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/rpc"
	"github.com/gorilla/rpc/json2"
	"github.com/gorilla/websocket"

	"github.com/erwinbonsma/beaverfind/internal/progress"
)

// debugServer exposes a running search's progress-tracker counters over a
// JSON-RPC endpoint and pushes a status line over a websocket feed, purely
// for an external dashboard to poll or subscribe to. It has no bearing on
// the search itself and never touches the (single-threaded) core.
type debugServer struct {
	tracker  *progress.Tracker
	upgrader websocket.Upgrader
}

func newDebugServer(tracker *progress.Tracker) *debugServer {
	return &debugServer{tracker: tracker}
}

// StatusService is the JSON-RPC service registered on the debug server: a
// single Status method reporting the tracker's running totals.
type StatusService struct {
	tracker *progress.Tracker
}

// StatusArgs is intentionally empty; Status takes no parameters.
type StatusArgs struct{}

// StatusReply is the JSON-RPC response shape for Status.
type StatusReply struct {
	SessionID  string `json:"sessionId"`
	TotalSteps string `json:"totalSteps"`
}

// Status implements the JSON-RPC "StatusService.Status" method.
func (s *StatusService) Status(r *http.Request, args *StatusArgs, reply *StatusReply) error {
	reply.SessionID = s.tracker.SessionID
	reply.TotalSteps = s.tracker.TotalSteps().String()
	return nil
}

func (d *debugServer) run(ctx context.Context, addr string) error {
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(json2.NewCodec(), "application/json")
	if err := rpcServer.RegisterService(&StatusService{tracker: d.tracker}, ""); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", rpcServer)
	mux.HandleFunc("/ws", d.handleWebsocket)

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleWebsocket pushes a status line every second until the client
// disconnects.
func (d *debugServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		line := d.tracker.StatusLine()
		if line == "" {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return
		}
	}
}
