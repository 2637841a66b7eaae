// Package daemon serves the dispatch socket: one Unix listener, one
// connection goroutine per client, newline-delimited JSON lines handed to
// the controller, an idle watchdog, and a bounded graceful shutdown.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/semaphore"

	"github.com/smykla-skalski/hookd/internal/controller"
	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/logger"
)

const (
	// SocketFileMode keeps the dispatch socket private to the owning user.
	SocketFileMode = 0o600

	// MaxRequestBytes bounds a single protocol line. Hook inputs carry
	// whole file contents, so the ceiling is generous.
	MaxRequestBytes = 10 << 20

	// scannerInitialBuffer is the starting line buffer size.
	scannerInitialBuffer = 64 * 1024
)

// ErrAlreadyRunning means the PID file points at a live process.
var ErrAlreadyRunning = errors.New("daemon already running")

// RequestProcessor is the slice of the controller the server depends on.
type RequestProcessor interface {
	// Initialize prepares the processor before the socket opens.
	Initialize() error

	// SetShutdownFunc installs the server's stop trigger, invoked when a
	// shutdown command arrives over the socket.
	SetShutdownFunc(fn func())

	// ProcessRequest turns one protocol line into the reply to serialize.
	ProcessRequest(ctx context.Context, line []byte) any
}

var _ RequestProcessor = (*controller.Controller)(nil)

// Server owns the socket, the PID file, and the connection lifecycle for
// one daemon process. Requests are delegated line-by-line to the
// processor.
type Server struct {
	cfg  *config.DaemonConfig
	ctrl RequestProcessor
	log  logger.Logger

	socketPath string
	pidPath    string

	listener net.Listener
	sem      *semaphore.Weighted

	mu    sync.Mutex
	conns map[net.Conn]struct{}

	wg           sync.WaitGroup
	shuttingDown atomic.Bool
	lastActivity atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
	readyCh  chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a Server bound to the configured socket and PID
// paths. Paths are expanded immediately so a missing home directory
// fails here rather than mid-startup.
func NewServer(cfg *config.DaemonConfig, ctrl RequestProcessor, opts ...Option) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("controller is required")
	}

	socketPath, err := xdg.ExpandPath(cfg.GetSocket())
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve socket path")
	}

	pidPath, err := xdg.ExpandPath(cfg.GetPidFile())
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve pid file path")
	}

	s := &Server{
		cfg:        cfg,
		ctrl:       ctrl,
		log:        logger.NewNoOpLogger(),
		socketPath: socketPath,
		pidPath:    pidPath,
		sem:        semaphore.NewWeighted(int64(cfg.GetMaxConnections())),
		conns:      make(map[net.Conn]struct{}),
		stopCh:     make(chan struct{}),
		readyCh:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// SocketPath returns the expanded socket path the server binds.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// PidPath returns the expanded PID file path.
func (s *Server) PidPath() string {
	return s.pidPath
}

// Ready is closed once the socket is bound and the PID file written.
func (s *Server) Ready() <-chan struct{} {
	return s.readyCh
}

// TriggerShutdown begins a graceful stop. Safe to call more than once
// and from any goroutine.
func (s *Server) TriggerShutdown() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// Run binds the socket, registers handlers, and serves until a signal,
// an idle timeout, a shutdown command, or context cancellation stops it.
// The socket and PID files are removed on the way out.
func (s *Server) Run(ctx context.Context) error {
	if err := s.ctrl.Initialize(); err != nil {
		return err
	}

	if err := s.claimPidFile(); err != nil {
		return err
	}

	if err := s.bind(); err != nil {
		return err
	}

	s.ctrl.SetShutdownFunc(s.TriggerShutdown)
	s.touch()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	defer signal.Stop(sigCh)

	// acceptCtx unblocks semaphore waiters once shutdown begins; request
	// contexts are derived separately so in-flight work is unaffected.
	acceptCtx, cancelAccept := context.WithCancel(ctx)
	defer cancelAccept()

	// Closer goroutine: first stop cause wins, then the listener close
	// unblocks Accept.
	go func() {
		select {
		case sig := <-sigCh:
			s.log.Info("signal received", "signal", sig.String())
		case <-ctx.Done():
			s.log.Info("context canceled")
		case <-s.stopCh:
		}

		s.TriggerShutdown()
		s.shuttingDown.Store(true)
		cancelAccept()
		_ = s.listener.Close()
	}()

	go s.watchIdle()

	close(s.readyCh)

	s.log.Info("daemon started",
		"socket", s.socketPath,
		"pid", os.Getpid(),
		"max_connections", s.cfg.GetMaxConnections(),
	)

	s.acceptLoop(acceptCtx)
	s.drain()
	s.cleanup()

	s.log.Info("daemon stopped")

	return nil
}

// claimPidFile refuses to start while another daemon is alive and
// recovers from a stale PID file left by a dead one.
func (s *Server) claimPidFile() error {
	pid, err := ReadPidFile(s.pidPath)
	if err == nil {
		if ProcessAlive(pid) {
			return errors.Wrapf(ErrAlreadyRunning, "pid %d", pid)
		}

		s.log.Warn("removing stale pid file", "pid", pid, "path", s.pidPath)
		_ = os.Remove(s.pidPath)
		_ = os.Remove(s.socketPath)
	}

	return nil
}

// bind creates the runtime directory, binds the socket, and writes the
// PID file. The PID file is written only after the socket is bound.
func (s *Server) bind() error {
	if err := xdg.EnsureDir(filepath.Dir(s.socketPath)); err != nil {
		return errors.Wrap(err, "failed to create runtime directory")
	}

	// A leftover socket from an unclean exit would fail the bind.
	if _, err := os.Stat(s.socketPath); err == nil {
		s.log.Warn("removing leftover socket", "path", s.socketPath)
		_ = os.Remove(s.socketPath)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return errors.Wrapf(err, "failed to bind socket %s", s.socketPath)
	}

	s.listener = listener

	if err := os.Chmod(s.socketPath, SocketFileMode); err != nil {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)

		return errors.Wrap(err, "failed to restrict socket permissions")
	}

	if err := writePidFile(s.pidPath); err != nil {
		_ = listener.Close()
		_ = os.Remove(s.socketPath)

		return err
	}

	return nil
}

// acceptLoop admits connections through the semaphore until the listener
// closes.
func (s *Server) acceptLoop(ctx context.Context) {
	// Requests outlive a canceled run context so in-flight work can
	// still complete and be delivered during the grace period.
	requestCtx := context.WithoutCancel(ctx)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.shuttingDown.Load() || errors.Is(err, net.ErrClosed) {
				return
			}

			s.log.Warn("accept failed", "error", err)

			continue
		}

		if err := s.sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()

			return
		}

		s.touch()
		s.trackConn(conn)
		s.wg.Add(1)

		go s.serveConn(requestCtx, conn)
	}
}

// serveConn reads newline-delimited requests until the client hangs up
// or the connection is force-closed at shutdown.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		s.untrackConn(conn)
		_ = conn.Close()
		s.sem.Release(1)
		s.wg.Done()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), MaxRequestBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		s.touch()

		reply := s.ctrl.ProcessRequest(ctx, line)
		if err := writeReply(conn, reply); err != nil {
			s.log.Debug("failed to write reply", "error", err)

			return
		}

		s.touch()
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Debug("connection read ended", "error", err)
	}
}

// writeReply serializes one reply as a single newline-terminated line.
func writeReply(conn net.Conn, reply any) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return errors.Wrap(err, "failed to encode reply")
	}

	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return errors.Wrap(err, "failed to write reply")
	}

	return nil
}

// watchIdle polls the last-activity timestamp and stops the daemon once
// it has sat idle past the configured timeout.
func (s *Server) watchIdle() {
	idleTimeout := s.cfg.GetIdleTimeout()

	ticker := time.NewTicker(s.cfg.GetIdlePollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			idle := time.Since(time.Unix(0, s.lastActivity.Load()))
			if idle < idleTimeout {
				continue
			}

			s.log.Info("idle timeout reached, shutting down",
				"idle", idle.Round(time.Millisecond).String(),
				"timeout", idleTimeout.String(),
			)
			s.TriggerShutdown()

			return
		}
	}
}

// drain waits for in-flight connections up to the grace period, then
// force-closes whatever is left.
func (s *Server) drain() {
	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(s.cfg.GetGracePeriod()):
	}

	open := s.closeConns()
	s.log.Warn("grace period expired, connections closed", "open", open)

	select {
	case <-done:
	case <-time.After(s.cfg.GetGracePeriod()):
		s.log.Error("connections still open after forced close, abandoning wait")
	}
}

// cleanup removes the socket and PID files.
func (s *Server) cleanup() {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove socket", "path", s.socketPath, "error", err)
	}

	s.removePidArtifacts()
}

func (s *Server) removePidArtifacts() {
	if err := os.Remove(s.pidPath); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove pid file", "path", s.pidPath, "error", err)
	}
}

func (s *Server) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

func (s *Server) trackConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[conn] = struct{}{}
}

func (s *Server) untrackConn(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
}

func (s *Server) closeConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}

	return len(s.conns)
}
