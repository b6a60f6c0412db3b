// Package ctl serves the local control socket.
//
// Request framing is `<path>[ <payload>]\0`. The server answers with one JSON
// line, or an empty line on success without a body, and closes the
// connection. Errors are written as problem JSON.
package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// SocketMode is applied to the socket file after it is created.
const SocketMode fs.FileMode = 0o600

const readTimeout = 5 * time.Second

// Server accepts control requests on a Unix socket.
type Server struct {
	path   string
	logger *slog.Logger
	router *Router

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func New(path string, logger *slog.Logger) *Server {
	return &Server{path: path, logger: logger, router: NewRouter()}
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Start listens on the socket path and serves requests in the background.
// A stale socket left by a previous run is replaced; any other file at the
// path is an error.
func (s *Server) Start() error {
	if fi, err := os.Lstat(s.path); err == nil {
		if fi.Mode()&fs.ModeSocket == 0 {
			return fmt.Errorf("control socket %s: file exists and is not a socket", s.path)
		}
		if err := os.Remove(s.path); err != nil {
			return fmt.Errorf("remove stale control socket: %w", err)
		}
	}
	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.path, SocketMode); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod control socket: %w", err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("Control socket listening", "path", s.path)
	s.wg.Add(1)
	go s.serve(ln)
	return nil
}

// Close stops accepting requests, waits for in-flight requests and removes
// the socket file.
func (s *Server) Close() {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()
	if ln == nil {
		return
	}
	_ = ln.Close()
	s.wg.Wait()
}

func (s *Server) serve(ln net.Listener) {
	defer s.wg.Done()
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Debug("Control socket stopped")
				return
			}
			s.logger.Warn("Control socket accept error", "error", err)
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(c)
		}()
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	b, _ := json.Marshal(WrapError(err))
	fmt.Fprintf(w, "%s\n", b)
}

func (s *Server) writeOK(w io.Writer, body string) {
	fmt.Fprintf(w, "%s\n", body)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := s.logger.With("conn", "ctl")
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	data, err := bufio.NewReader(conn).ReadString('\x00')
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Warn("ctl incomplete request (no null terminator)")
			s.writeError(conn, ErrBadRequest("missing request terminator"))
		} else {
			logger.Warn("ctl read request", "error", err)
		}
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	path, payload := splitRequest(strings.TrimSuffix(data, "\x00"))
	if path == "" {
		logger.Warn("ctl empty path")
		s.writeError(conn, ErrBadRequest("empty path"))
		return
	}
	path = strings.ToLower(path)
	logger.Debug("ctl request", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		logger.Warn("ctl unknown path", "path", path)
		s.writeError(conn, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
		return
	}
	req := &Request{Ctx: ctx, Params: params, Payload: payload}
	res := &Response{}
	if err := h(req, res, logger); err != nil {
		logger.Warn("ctl handler error", "path", path, "error", err)
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, res.JSON)
}

// splitRequest splits on the first whitespace character.
func splitRequest(s string) (path, payload string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	_, n := utf8.DecodeRuneInString(s[i:])
	return s[:i], s[i+n:]
}
