package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, args ...string) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return newCommand().Run(ctx, append([]string{"minactor", "--log-level", "error"}, args...))
}

func TestDemoCommands(t *testing.T) {
	for _, d := range []string{"shared", "dedicated"} {
		t.Run(d, func(t *testing.T) {
			require.NoError(t, runArgs(t, "--dispatcher", d, "hello"))
			require.NoError(t, runArgs(t, "--dispatcher", d, "pingpong", "--rounds", "3"))
			require.NoError(t, runArgs(t, "--dispatcher", d, "pingpong", "--stateful"))
			require.NoError(t, runArgs(t, "--dispatcher", d, "vending"))
		})
	}
}

func TestInvalidDispatcher(t *testing.T) {
	err := runArgs(t, "--dispatcher", "threads", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatcher")
}

func TestChatConnectRequiresUser(t *testing.T) {
	err := runArgs(t, "chat", "connect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing <user>")
}

func TestWatchOutput(t *testing.T) {
	var buf bytes.Buffer
	w, seen := watchOutput(&buf, "done")

	_, _ = w.Write([]byte("working\n"))
	select {
	case <-seen:
		t.Fatal("marker not written yet")
	default:
	}

	_, _ = w.Write([]byte("done\n"))
	_, _ = w.Write([]byte("done again\n"))
	<-seen
	assert.Equal(t, "working\ndone\ndone again\n", buf.String())
}
