// Copyright (c) 2026 camp-sub001 contributors.

/*
Package aoi is the remote-control listener: a minimal line protocol, one
command per connection, so a watchlist can be triggered from a separate
process (a scheduler, a remote shell) without going through HTTP. It
dispatches "run" to the same [*orchestrator.Orchestrator] ayano's POST /run
uses, so there remains exactly one orchestration entry point (SPEC_FULL.md
§6). Grounded on the original's aoi::RemoteControlServer — one connection,
one parsed command, one reply, then close — adapted from raw Winsock/named
pipes to a Unix domain socket (TCP fallback on platforms without one).
*/
package aoi

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/367718/camp-sub001/internal/orchestrator"
	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// connectionTimeout bounds how long a single command connection may take to
// send its line and receive a reply.
const connectionTimeout = 5 * time.Second

// Listener accepts one-command-per-connection control requests.
type Listener struct {
	net.Listener
	orch *orchestrator.Orchestrator
	log  *slog.Logger
}

// Listen opens the control socket at path. On platforms with Unix domain
// sockets this removes any stale socket file first; elsewhere it falls
// back to binding path as a TCP address.
func Listen(path string, orch *orchestrator.Orchestrator, log *slog.Logger) (*Listener, error) {
	network := "unix"
	if runtime.GOOS == "windows" {
		network = "tcp"
	} else {
		_ = os.Remove(path)
	}

	ln, err := net.Listen(network, path)
	if err != nil {
		return nil, apperr.IO("open control listener at "+path, err)
	}

	return &Listener{Listener: ln, orch: orch, log: log}, nil
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, handling each one synchronously through the shared orchestrator.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return apperr.IO("accept control connection", err)
		}

		l.handle(ctx, conn)
	}
}

func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(connectionTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}

	switch strings.TrimSpace(line) {
	case "ping":
		conn.Write([]byte("pong\n"))
	case "run":
		result, err := l.orch.Run(ctx)
		if err != nil {
			conn.Write([]byte("error: " + err.Error() + "\n"))
			return
		}
		conn.Write([]byte("ok downloaded=" + strconv.Itoa(result.Downloaded) + "\n"))
	default:
		conn.Write([]byte("error: unknown command\n"))
	}
}
