package chat

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/channels"
)

// syncBuffer 并发安全的输出缓冲
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newSystem(t *testing.T) *actor.System {
	t.Helper()
	cfg := actor.DefaultSystemConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := actor.NewSystemWithConfig("chat", cfg)
	t.Cleanup(func() { _ = sys.ShutdownWithTimeout(2 * time.Second) })
	return sys
}

func waitClients(t *testing.T, srv *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		got, err := srv.Clients(ctx)
		return err == nil && got == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTCPBroadcast(t *testing.T) {
	sys := newSystem(t)
	srv := NewServer(sys)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, l) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-serveErr)
	})

	aliceOut, bobOut := &syncBuffer{}, &syncBuffer{}
	alice, err := DialTCP(sys, l.Addr().String(), "alice", aliceOut)
	require.NoError(t, err)
	t.Cleanup(func() { _ = alice.Close() })
	bob, err := DialTCP(sys, l.Addr().String(), "bob", bobOut)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bob.Close() })

	waitClients(t, srv, 2)
	alice.Say("hi")

	for _, out := range []*syncBuffer{aliceOut, bobOut} {
		require.Eventually(t, func() bool {
			return strings.Contains(out.String(), "alice > hi\n")
		}, 2*time.Second, 10*time.Millisecond)
	}

	// 断开后从客户端表中移除
	require.NoError(t, bob.Close())
	waitClients(t, srv, 1)
}

func TestWebsocketBroadcast(t *testing.T) {
	sys := newSystem(t)
	srv := NewServer(sys)

	ts := httptest.NewServer(srv.WebsocketHandler())
	t.Cleanup(ts.Close)
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	carolOut := &syncBuffer{}
	carol, err := DialWebsocket(sys, url, ts.URL, "carol", carolOut)
	require.NoError(t, err)
	t.Cleanup(func() { _ = carol.Close() })
	assert.Equal(t, "carol", carol.User())

	waitClients(t, srv, 1)
	carol.Say("over websocket")

	require.Eventually(t, func() bool {
		return carolOut.String() == "carol > over websocket\n"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientIgnoresMalformedLines(t *testing.T) {
	sys := newSystem(t)

	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { _ = serverSide.Close() })

	out := &syncBuffer{}
	c := NewClient(sys, "dave", channels.ScanLines(clientSide), channels.Lines(clientSide), clientSide, out)

	_, err := io.WriteString(serverSide, "garbage\n{\"user\":\"eve\",\"text\":\"hello\"}\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return out.String() == "eve > hello\n"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, serverSide.Close())
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client reader did not stop")
	}
}
