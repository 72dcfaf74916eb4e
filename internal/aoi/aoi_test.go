// Copyright (c) 2026 camp-sub001 contributors.

package aoi

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/367718/camp-sub001/internal/chiaki/candidates"
	"github.com/367718/camp-sub001/internal/chiaki/feeds"
	"github.com/367718/camp-sub001/internal/chiaki/formats"
	"github.com/367718/camp-sub001/internal/chiaki/kinds"
	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/chiaki/series"
	"github.com/367718/camp-sub001/internal/nadeshiko/ledger"
	"github.com/367718/camp-sub001/internal/orchestrator"
)

type noopFetcher struct{}

func (noopFetcher) Fetch(_ context.Context, _ string) ([]byte, error) { return nil, nil }

func newTestListener(t *testing.T) (*Listener, string) {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.Open(ctx, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kindsStore := kinds.NewStore(kinds.NewAdapter(db))
	require.NoError(t, kindsStore.Load(ctx))
	formatsStore := formats.NewStore(formats.NewAdapter(db))
	require.NoError(t, formatsStore.Load(ctx))
	feedsStore := feeds.NewStore(feeds.NewAdapter(db))
	require.NoError(t, feedsStore.Load(ctx))
	seriesStore := series.NewStore(series.NewAdapter(db))
	require.NoError(t, seriesStore.Load(ctx))
	candidatesStore := candidates.NewStore(candidates.NewAdapter(db))
	require.NoError(t, candidatesStore.Load(ctx))

	l, err := ledger.Load(filepath.Join(t.TempDir(), "rules.ck"))
	require.NoError(t, err)

	orch := orchestrator.New(kindsStore, formatsStore, feedsStore, seriesStore, candidatesStore, l, noopFetcher{}, t.TempDir())

	socketPath := filepath.Join(t.TempDir(), "camp.sock")
	listener, err := Listen(socketPath, orch, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	return listener, socketPath
}

func TestPingRepliesWithPong(t *testing.T) {
	listener, socketPath := newTestListener(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Serve(ctx)

	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	conn.Write([]byte("ping\n"))
	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "pong\n", reply)
}

func TestRunRepliesWithDownloadCount(t *testing.T) {
	listener, socketPath := newTestListener(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Serve(ctx)

	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	conn.Write([]byte("run\n"))
	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ok downloaded=0\n", reply)
}

func TestUnknownCommandRepliesWithError(t *testing.T) {
	listener, socketPath := newTestListener(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go listener.Serve(ctx)

	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	conn.Write([]byte("bogus\n"))
	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "error: unknown command\n", reply)
}
