package session

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnda/vnda-cli/internal/adapters/protocol"
	"github.com/vnda/vnda-cli/internal/domain"
)

type staticCredentials domain.Credentials

func (c staticCredentials) Credentials(context.Context) (domain.Credentials, error) {
	return domain.Credentials(c), nil
}

func startServer(t *testing.T, handle func(conn net.Conn)) Config {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	return Config{
		Host:         "127.0.0.1",
		Port:         ln.Addr().(*net.TCPAddr).Port,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: time.Second,
	}
}

// scripted answers each incoming frame with the next reply and then drains
// the connection until the client hangs up.
func scripted(received chan<- string, replies ...string) func(net.Conn) {
	return func(conn net.Conn) {
		r := bufio.NewReader(conn)
		for _, reply := range replies {
			frame, err := r.ReadBytes(protocol.EOT)
			if err != nil {
				return
			}
			received <- string(frame)
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
		_, _ = io.Copy(io.Discard, r)
	}
}

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()

	s := New(cfg, staticCredentials{Username: "user", Password: "secret"}, protocol.NewDispatcher(nil, zerolog.Nop()), zerolog.Nop())
	t.Cleanup(func() { _ = s.Logout() })
	return s
}

func getFrame(t *testing.T) []byte {
	t.Helper()
	return protocol.BuildGet(domain.GetRequest{Type: domain.EntityVN, Flags: domain.NewFlags("basic"), Filter: domain.Filter{ID: 17}})
}

func TestLoginSendsCredentialsAndBecomesLoggedIn(t *testing.T) {
	t.Parallel()

	received := make(chan string, 4)
	s := newSession(t, startServer(t, scripted(received, "ok\x04")))

	require.NoError(t, s.Login(context.Background()))
	assert.Equal(t, StatusLoggedIn, s.Status())

	msg, err := protocol.Parse([]byte(<-received))
	require.NoError(t, err)
	echo, ok := msg.(protocol.LoginEcho)
	require.True(t, ok)
	assert.True(t, protocol.LoginReady(echo))
	assert.JSONEq(t, `"user"`, string(echo.Payload["username"]))
	assert.JSONEq(t, `"vnda"`, string(echo.Payload["client"]))

	// Already logged in: nothing more goes over the wire.
	require.NoError(t, s.Login(context.Background()))
	assert.Empty(t, received)
}

func TestLoginServerErrorLeavesSessionConnected(t *testing.T) {
	t.Parallel()

	received := make(chan string, 4)
	s := newSession(t, startServer(t, scripted(received, `error {"id":"auth","msg":"Wrong password"}`+"\x04")))

	err := s.Login(context.Background())
	require.ErrorIs(t, err, domain.ErrServer)

	var perr *protocol.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, protocol.ErrorAuth, perr.ID)
	assert.Equal(t, StatusConnected, s.Status())
}

func TestConnectFailureIsTransportError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := newSession(t, Config{Host: "127.0.0.1", Port: port, DialTimeout: time.Second})
	err = s.Connect(context.Background())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "connect", terr.Op)
	assert.Equal(t, StatusDisconnected, s.Status())
}

func TestGetFromDisconnectedLogsInFirst(t *testing.T) {
	t.Parallel()

	received := make(chan string, 4)
	s := newSession(t, startServer(t, scripted(received,
		"ok\x04",
		`results {"num":1,"more":false,"items":[{"id":17,"title":"Ever17"}]}`+"\x04",
	)))

	results, err := s.Get(context.Background(), domain.GetRequest{
		Type:   domain.EntityVN,
		Flags:  domain.NewFlags("basic"),
		Filter: domain.Filter{ID: 17},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, results.Num)
	assert.Equal(t, "Ever17", results.Items[0]["title"])
	assert.Equal(t, StatusLoggedIn, s.Status())

	assert.True(t, strings.HasPrefix(<-received, "login {"))
	assert.Equal(t, "get vn basic (id = 17)\x04", <-received)
}

func TestSendAttemptsLoginExactlyOnce(t *testing.T) {
	t.Parallel()

	received := make(chan string, 4)
	s := newSession(t, startServer(t, scripted(received,
		`error {"id":"auth","msg":"Wrong password"}`+"\x04",
		`error {"id":"auth","msg":"Wrong password"}`+"\x04",
	)))

	err := s.Send(context.Background(), getFrame(t))
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.ErrorIs(t, err, domain.ErrServer)

	assert.True(t, strings.HasPrefix(<-received, "login {"))
	assert.Empty(t, received, "get frame must not be written after a failed login")
}

func TestSendRejectsInvalidFramesBeforeIO(t *testing.T) {
	t.Parallel()

	s := New(Config{Host: "127.0.0.1", Port: 1}, nil, nil, zerolog.Nop())
	s.dial = func(context.Context, string, string) (net.Conn, error) {
		t.Fatal("dial must not be called")
		return nil, nil
	}

	for _, frame := range []string{
		"ok\x04",
		"get vn basic (id = 1)",
		"get vn stats (id = 1)\x04",
		`login {"username":"u"}` + "\x04",
		"results {}\x04",
	} {
		err := s.Send(context.Background(), []byte(frame))
		assert.ErrorIs(t, err, protocol.ErrInvalidRequest, "frame %q", frame)
	}
	assert.Equal(t, StatusDisconnected, s.Status())
}

func TestRecvAssemblesSplitAndPipelinedFrames(t *testing.T) {
	t.Parallel()

	s := newSession(t, startServer(t, func(conn net.Conn) {
		for _, part := range []string{"resu", `lts {"num":0,"more":false,`, `"items":[]}`, "\x04ok\x04"} {
			if _, err := conn.Write([]byte(part)); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		_, _ = io.Copy(io.Discard, conn)
	}))
	require.NoError(t, s.Connect(context.Background()))

	frame, err := s.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `results {"num":0,"more":false,"items":[]}`+"\x04", string(frame))

	frame, err = s.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok\x04", string(frame))
}

func TestRecvRejectsOversizedFrame(t *testing.T) {
	t.Parallel()

	cfg := startServer(t, func(conn net.Conn) {
		_, _ = conn.Write([]byte(strings.Repeat("x", 256)))
		_, _ = io.Copy(io.Discard, conn)
	})
	cfg.MaxFrameBytes = 64
	s := newSession(t, cfg)
	require.NoError(t, s.Connect(context.Background()))

	_, err := s.Recv(context.Background())
	require.ErrorIs(t, err, ErrFrameTooLarge)
	assert.Equal(t, StatusDisconnected, s.Status())
}

func TestRecvTimesOut(t *testing.T) {
	t.Parallel()

	cfg := startServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	})
	cfg.ReadTimeout = 50 * time.Millisecond
	s := newSession(t, cfg)
	require.NoError(t, s.Connect(context.Background()))

	_, err := s.Recv(context.Background())
	require.ErrorIs(t, err, ErrRecvTimeout)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "recv", terr.Op)
	assert.Equal(t, StatusDisconnected, s.Status())
}

func TestRecvReportsServerHangup(t *testing.T) {
	t.Parallel()

	s := newSession(t, startServer(t, func(conn net.Conn) {
		_, _ = conn.Write([]byte("partial"))
	}))
	require.NoError(t, s.Connect(context.Background()))

	_, err := s.Recv(context.Background())
	require.ErrorIs(t, err, ErrClosed)
}

func TestRecvStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s := newSession(t, startServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	}))
	require.NoError(t, s.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := s.Recv(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNeedLoginDropsBackToConnected(t *testing.T) {
	t.Parallel()

	received := make(chan string, 4)
	s := newSession(t, startServer(t, scripted(received,
		"ok\x04",
		`error {"id":"needlogin","msg":"Not logged in"}`+"\x04",
		"ok\x04",
	)))
	require.NoError(t, s.Login(context.Background()))

	_, err := s.Get(context.Background(), domain.GetRequest{Type: domain.EntityVN, Flags: domain.NewFlags("basic"), Filter: domain.Filter{ID: 1}})
	require.ErrorIs(t, err, domain.ErrNeedLogin)
	assert.Equal(t, StatusConnected, s.Status())

	require.NoError(t, s.Login(context.Background()))
	assert.Equal(t, StatusLoggedIn, s.Status())
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newSession(t, startServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, conn)
	}))
	require.NoError(t, s.Connect(context.Background()))

	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())
	assert.Equal(t, StatusDisconnected, s.Status())

	_, err := s.Recv(context.Background())
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}
