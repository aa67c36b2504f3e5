package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/vnda/vnda-cli/internal/adapters/protocol"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

const (
	DefaultHost          = "api.vndb.org"
	DefaultPort          = 19534
	DefaultProtocol      = 1
	DefaultClientName    = "vnda"
	DefaultClientVersion = "0.1"
	DefaultDialTimeout   = 10 * time.Second
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = 10 * time.Second
	DefaultMaxFrameBytes = 8 * 1024 * 1024

	readChunkBytes = 4096
)

type Status int

const (
	StatusDisconnected Status = iota
	StatusConnected
	StatusLoggedIn
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusLoggedIn:
		return "logged-in"
	default:
		return "disconnected"
	}
}

type Config struct {
	Host          string
	Port          int
	Protocol      int
	ClientName    string
	ClientVersion string
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxFrameBytes int
}

func DefaultConfig() Config {
	return Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		Protocol:      DefaultProtocol,
		ClientName:    DefaultClientName,
		ClientVersion: DefaultClientVersion,
		DialTimeout:   DefaultDialTimeout,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		MaxFrameBytes: DefaultMaxFrameBytes,
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.Protocol == 0 {
		c.Protocol = d.Protocol
	}
	if c.ClientName == "" {
		c.ClientName = d.ClientName
	}
	if c.ClientVersion == "" {
		c.ClientVersion = d.ClientVersion
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.MaxFrameBytes <= 0 {
		c.MaxFrameBytes = d.MaxFrameBytes
	}
	return c
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Session owns one TCP connection and its login state. Requests are
// strictly sequential: one frame out, one frame back. A Session is not safe
// for concurrent use.
type Session struct {
	cfg         Config
	credentials ports.CredentialSource
	dispatcher  *protocol.Dispatcher
	logger      zerolog.Logger
	dial        dialFunc

	conn    net.Conn
	status  Status
	pending []byte
}

var _ ports.Remote = (*Session)(nil)

func New(cfg Config, credentials ports.CredentialSource, dispatcher *protocol.Dispatcher, logger zerolog.Logger) *Session {
	cfg = cfg.withDefaults()
	if dispatcher == nil {
		dispatcher = protocol.NewDispatcher(ports.SystemClock{}, logger)
	}

	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	return &Session{
		cfg:         cfg,
		credentials: credentials,
		dispatcher:  dispatcher,
		logger:      logger.With().Str("component", "session").Str("addr", cfg.Addr()).Logger(),
		dial:        dialer.DialContext,
	}
}

func (s *Session) Status() Status {
	return s.status
}

// Connect opens the connection. It is a no-op unless disconnected.
func (s *Session) Connect(ctx context.Context) error {
	if s.status != StatusDisconnected {
		return nil
	}

	conn, err := s.dial(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return &TransportError{Op: "connect", Addr: s.cfg.Addr(), Err: err}
	}

	s.conn = conn
	s.status = StatusConnected
	s.pending = s.pending[:0]
	s.logger.Debug().Msg("connected")
	return nil
}

// Login authenticates the session, connecting first when needed. A server
// error leaves the session connected and is returned as-is; there is no
// automatic retry.
func (s *Session) Login(ctx context.Context) error {
	if s.status == StatusLoggedIn {
		return nil
	}
	if s.credentials == nil {
		return fmt.Errorf("%w: no credential source configured", ErrNotLoggedIn)
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	creds, err := s.credentials.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	frame, err := protocol.BuildLogin(protocol.Login{
		Protocol:  s.cfg.Protocol,
		Client:    s.cfg.ClientName,
		ClientVer: s.cfg.ClientVersion,
		Username:  creds.Username,
		Password:  creds.Password,
	})
	if err != nil {
		return err
	}

	outcome, err := s.roundtrip(ctx, frame)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if outcome.Kind != protocol.KindOK {
		return fmt.Errorf("login: %w: got %s", protocol.ErrUnexpectedReply, outcome.Kind)
	}

	s.status = StatusLoggedIn
	s.logger.Debug().Str("username", creds.Username).Msg("logged in")
	return nil
}

// Get issues one get command and returns the decoded results.
func (s *Session) Get(ctx context.Context, req domain.GetRequest) (domain.Results, error) {
	outcome, err := s.roundtrip(ctx, protocol.BuildGet(req))
	if err != nil {
		return domain.Results{}, err
	}
	if outcome.Kind != protocol.KindResults {
		return domain.Results{}, fmt.Errorf("get: %w: got %s", protocol.ErrUnexpectedReply, outcome.Kind)
	}

	return outcome.Results, nil
}

// Request sends one frame and parses the reply frame.
func (s *Session) Request(ctx context.Context, frame []byte) (protocol.Message, error) {
	if err := s.Send(ctx, frame); err != nil {
		return nil, err
	}

	reply, err := s.Recv(ctx)
	if err != nil {
		return nil, err
	}

	return protocol.Parse(reply)
}

// Send validates and writes one frame. From the disconnected state it makes
// exactly one login attempt first; if that fails the send is abandoned with
// ErrNotLoggedIn.
func (s *Session) Send(ctx context.Context, frame []byte) error {
	if err := s.validate(ctx, frame); err != nil {
		return err
	}

	if s.status == StatusDisconnected {
		if err := s.Login(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrNotLoggedIn, err)
		}
	}

	return s.write(ctx, frame)
}

// Recv reads until one EOT-terminated frame is buffered. The read is bounded
// by ReadTimeout (or an earlier ctx deadline) and by MaxFrameBytes.
func (s *Session) Recv(ctx context.Context) ([]byte, error) {
	if s.conn == nil {
		return nil, &TransportError{Op: "recv", Addr: s.cfg.Addr(), Err: net.ErrClosed}
	}

	conn := s.conn
	_ = conn.SetReadDeadline(s.deadline(ctx, s.cfg.ReadTimeout))
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	chunk := make([]byte, readChunkBytes)
	for {
		if idx := bytes.IndexByte(s.pending, protocol.EOT); idx >= 0 {
			frame := make([]byte, idx+1)
			copy(frame, s.pending[:idx+1])
			s.pending = append(s.pending[:0], s.pending[idx+1:]...)
			return frame, nil
		}

		room := s.cfg.MaxFrameBytes - len(s.pending)
		if room <= 0 {
			size := len(s.pending)
			s.drop()
			return nil, fmt.Errorf("%w: %d bytes without terminator", ErrFrameTooLarge, size)
		}
		if room < len(chunk) {
			chunk = chunk[:room]
		}

		n, err := conn.Read(chunk)
		s.pending = append(s.pending, chunk[:n]...)
		if err == nil {
			continue
		}
		if bytes.IndexByte(s.pending, protocol.EOT) >= 0 {
			continue
		}

		s.drop()
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, os.ErrDeadlineExceeded):
			return nil, &TransportError{Op: "recv", Addr: s.cfg.Addr(), Err: fmt.Errorf("%w: %w", ErrRecvTimeout, err)}
		case errors.Is(err, io.EOF):
			return nil, &TransportError{Op: "recv", Addr: s.cfg.Addr(), Err: ErrClosed}
		default:
			return nil, &TransportError{Op: "recv", Addr: s.cfg.Addr(), Err: err}
		}
	}
}

// Logout closes the connection. Calling it again is a no-op.
func (s *Session) Logout() error {
	conn := s.conn
	s.conn = nil
	s.status = StatusDisconnected
	s.pending = nil
	if conn == nil {
		return nil
	}

	s.logger.Debug().Msg("logged out")
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return &TransportError{Op: "close", Addr: s.cfg.Addr(), Err: err}
	}
	return nil
}

func (s *Session) roundtrip(ctx context.Context, frame []byte) (protocol.Outcome, error) {
	msg, err := s.Request(ctx, frame)
	if err != nil {
		return protocol.Outcome{}, err
	}

	outcome, err := s.dispatcher.Dispatch(ctx, msg)
	if errors.Is(err, domain.ErrNeedLogin) && s.status == StatusLoggedIn {
		s.status = StatusConnected
	}
	return outcome, err
}

// validate refuses frames that are not well-formed login or get requests
// before any I/O happens.
func (s *Session) validate(ctx context.Context, frame []byte) error {
	msg, err := protocol.Parse(frame)
	if err != nil {
		return fmt.Errorf("%w: %w", protocol.ErrInvalidRequest, err)
	}

	switch msg.Kind() {
	case protocol.KindLogin, protocol.KindGet:
	default:
		return fmt.Errorf("%w: %s is not a request", protocol.ErrInvalidRequest, msg.Kind())
	}

	outcome, err := s.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		return fmt.Errorf("%w: %w", protocol.ErrInvalidRequest, err)
	}
	if !outcome.Ready {
		return fmt.Errorf("%w: %s request failed validation", protocol.ErrInvalidRequest, msg.Kind())
	}
	return nil
}

func (s *Session) write(ctx context.Context, frame []byte) error {
	if s.conn == nil {
		return &TransportError{Op: "send", Addr: s.cfg.Addr(), Err: net.ErrClosed}
	}

	_ = s.conn.SetWriteDeadline(s.deadline(ctx, s.cfg.WriteTimeout))
	if _, err := s.conn.Write(frame); err != nil {
		s.drop()
		return &TransportError{Op: "send", Addr: s.cfg.Addr(), Err: err}
	}
	return nil
}

func (s *Session) deadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func (s *Session) drop() {
	if err := s.Logout(); err != nil {
		s.logger.Debug().Err(err).Msg("close after transport failure")
	}
}
