// Package server runs a TCP accept loop that hands each connection's
// bytes to a streaming internal/stream.Parser and dispatches every
// parsed request to a Handler, one at a time, replying before reading
// the next pipelined request off the same connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/httpwire/internal/config"
	"github.com/yourusername/httpwire/internal/message"
	"github.com/yourusername/httpwire/internal/response"
	"github.com/yourusername/httpwire/internal/stream"
)

// Handler answers one parsed request by writing a response through w.
type Handler func(w *response.Writer, req *message.Message)

// Server accepts connections on a single listening port and dispatches
// their requests to a Handler.
type Server struct {
	listener net.Listener
	handler  Handler
	cfg      *config.Config
	log      *zap.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// Serve starts listening on port and returns immediately. The accept
// loop runs under an errgroup.Group; each accepted connection is handled
// on its own goroutine outside that group. A nil cfg uses
// config.Default(); a nil log uses zap.NewNop().
func Serve(port int, cfg *config.Config, log *zap.Logger, handler Handler) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	s := &Server{
		listener: l,
		handler:  handler,
		cfg:      cfg,
		log:      log,
		group:    g,
		cancel:   cancel,
	}

	g.Go(func() error { return s.acceptLoop(ctx) })
	return s, nil
}

// Close stops accepting new connections and waits for the accept loop to
// return. It does not wait for connection handlers already running: each
// one returns on its own once its connection ends, fails, or times out.
// It is safe to call more than once.
func (s *Server) Close() error {
	s.cancel()
	err := s.listener.Close()
	_ = s.group.Wait()
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("accept failed, retrying", zap.Error(err))
			continue
		}
		connID := uuid.New()
		go s.handle(ctx, conn, connID)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn, connID uuid.UUID) {
	defer conn.Close()

	remoteHost, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	log := s.log.With(zap.String("conn_id", connID.String()), zap.String("remote", remoteHost))

	parser := stream.New(s.cfg)
	defer parser.Reset()

	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return
		}
		if s.cfg.InactivityTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.InactivityTimeout))
		}

		n, readErr := conn.Read(buf)
		start := time.Now()

		if n > 0 {
			msgs, perr := parser.Parse(buf[:n])
			if perr != nil {
				log.Info("bad request", zap.Error(perr))
				writeBadRequest(conn, perr)
				return
			}

			for _, req := range msgs {
				w := response.NewWriter(conn)
				s.handler(w, req)
				log.Info("handled request",
					zap.String("method", req.RequestLine.Method),
					zap.String("target", req.RequestLine.Target),
					zap.Duration("elapsed", time.Since(start)),
				)
				if !req.KeepAlive {
					return
				}
			}
		}

		if readErr != nil {
			return
		}
	}
}

func writeBadRequest(conn net.Conn, cause error) {
	body := cause.Error()
	_, _ = fmt.Fprintf(conn,
		"HTTP/1.1 400 Bad Request\r\nConnection: close\r\nContent-Type: text/plain\r\nContent-Length: %d\r\n\r\n%s",
		len(body), body,
	)
}
