package console

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServeLines reads one command per line from in and writes each result to
// out until in is exhausted or ctx ends.
func (r *Registry) ServeLines(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		res, err := r.Submit(ctx, line)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, ErrClosed):
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		case res != "":
			fmt.Fprintln(out, res)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("console: read: %w", err)
	}
	return nil
}

// Reply is the websocket response to one command.
type Reply struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server exposes the registry over websocket: every text message is one
// command, answered with a JSON Reply. Cross-origin browser connections are
// refused.
type Server struct {
	reg      *Registry
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewServer(reg *Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		reg: reg,
		log: logger.Named("console.ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		s.log.Info("console client connected", zap.String("remote", req.RemoteAddr))

		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
			kind, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind != websocket.TextMessage {
				continue
			}
			var rep Reply
			out, err := s.reg.Submit(ctx, string(msg))
			if err != nil {
				rep.Error = err.Error()
			} else {
				rep.Output = out
			}
			b, err := json.Marshal(rep)
			if err != nil {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves the console at addr under /console until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/console", s.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("console listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("console: serve %s: %w", addr, err)
	}
	return nil
}
