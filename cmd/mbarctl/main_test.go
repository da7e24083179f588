package main

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketPathPrecedence(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	t.Setenv(socketEnv, "/run/env.sock")
	assert.Equal(t, "/run/flag.sock", socketPath("/run/flag.sock", missing))
	assert.Equal(t, "/run/env.sock", socketPath("", missing))

	t.Setenv(socketEnv, "")
	assert.Equal(t, "/tmp/mbar_socket", socketPath("", missing))
}

func TestMessageCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.sock")
	listener, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 256)
		n, _ := conn.Read(buf)
		received <- string(buf[:n])
	}()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--socket", path, "message", "build", "passed"})
	require.NoError(t, cmd.Execute())

	select {
	case m := <-received:
		assert.Equal(t, "message:build passed", m)
	case <-time.After(time.Second):
		t.Fatal("nothing received")
	}
}

func TestSendFailsWithoutServer(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--socket", filepath.Join(t.TempDir(), "gone.sock"), "redraw"})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
