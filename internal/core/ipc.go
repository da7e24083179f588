package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
)

// IPC commands understood by the control socket
const (
	CommandRedraw = "redraw"
	CommandReload = "reload"
	CommandQuit   = "quit"
)

const (
	maxMessageSize = 4096
	readTimeout    = 2 * time.Second
)

// IPCServer accepts one command per connection on a Unix socket
type IPCServer struct {
	path    string
	handle  func(message string)
	logger  *slog.Logger
	server  *net.UnixListener
	workers conc.WaitGroup
}

// NewIPCServer creates a server on path that passes each message to handle
func NewIPCServer(path string, handle func(message string), logger *slog.Logger) *IPCServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IPCServer{path: path, handle: handle, logger: logger}
}

// Start listens on the socket, replacing a stale socket file
func (s *IPCServer) Start(ctx context.Context) error {
	if s.server != nil {
		return fmt.Errorf("IPC server already running")
	}

	if _, err := os.Stat(s.path); err == nil {
		os.Remove(s.path)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}
	s.server = listener.(*net.UnixListener)

	s.logger.Info("IPC server listening", "path", s.path)
	s.workers.Go(s.acceptConnections)
	return nil
}

func (s *IPCServer) acceptConnections() {
	for {
		conn, err := s.server.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("Error accepting connection", "error", err)
			continue
		}
		s.workers.Go(func() { s.handleConnection(conn) })
	}
}

func (s *IPCServer) handleConnection(conn *net.UnixConn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	buf := make([]byte, maxMessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.logger.Warn("Error reading from connection", "error", err)
		return
	}

	message := strings.TrimSpace(string(buf[:n]))
	if message == "" {
		return
	}
	s.logger.Debug("Received IPC message", "message", message)
	s.handle(message)
}

// Stop closes the socket and waits for open connections
func (s *IPCServer) Stop() {
	if s.server == nil {
		return
	}
	s.server.Close()
	s.workers.Wait()
	s.server = nil

	if _, err := os.Stat(s.path); err == nil {
		os.Remove(s.path)
	}
	s.logger.Info("IPC server stopped")
}

// SendMessage delivers one command to a running instance
func SendMessage(path, message string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
