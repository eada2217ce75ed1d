// File: cmd/evloopd/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// evloopd is a minimal daemon demonstrating the loop/fspoll/async stack: it
// watches a path for changes and, on SIGUSR1, logs the current diag
// snapshot from the loop thread, reached through async.Send. SIGUSR1 does
// not trigger an extra stat of the watched path.
// Structured the way the teacher's server.Run orchestrates startup,
// a polling goroutine, and signal-driven graceful teardown
// (server/run.go), adapted from a WebSocket server to a file watcher.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momentics/evloop/async"
	"github.com/momentics/evloop/diag"
	"github.com/momentics/evloop/fspoll"
	"github.com/momentics/evloop/loop"
)

func main() {
	path := flag.String("path", "", "path to watch")
	intervalMs := flag.Uint64("interval-ms", 200, "poll interval in milliseconds")
	statWorkers := flag.Int("stat-workers", 4, "size of the stat dispatch pool")
	cpuAffinity := flag.Int("cpu", -1, "pin the loop thread to this logical CPU, -1 for none")
	flag.Parse()

	if *path == "" {
		log.Fatal("evloopd: -path is required")
	}

	control, _ := diag.NewControl(diag.Settings{
		StatWorkers:         *statWorkers,
		FsPollMinIntervalMs: 1,
		CPUAffinity:         *cpuAffinity,
	})

	l := loop.New(
		loop.WithStatWorkers(*statWorkers),
		loop.WithCPUAffinity(*cpuAffinity),
	)

	var watcher fspoll.Handle
	fspoll.Init(l, &watcher)

	onChange := func(h *fspoll.Handle, status int32, prev, curr loop.StatSnapshot) {
		control.Metrics.FsPollCallbacks.Inc()
		if status != 0 {
			control.Metrics.FsPollErrors.Inc()
			log.Printf("evloopd: stat error on %q: code %d", *path, status)
			return
		}
		log.Printf("evloopd: %q changed: size %d -> %d, mtime %d.%09d -> %d.%09d",
			*path, prev.Size, curr.Size, prev.MtimSec, prev.MtimNsec, curr.MtimSec, curr.MtimNsec)
	}

	if err := fspoll.Start(&watcher, onChange, *path, *intervalMs); err != nil {
		log.Fatalf("evloopd: fspoll.Start: %v", err)
	}
	control.RecordFsPollStart()

	var rescanHook async.Handle
	if err := async.Init(l, &rescanHook, func(h *async.Handle) {
		control.Metrics.AsyncCallbacks.Inc()
		log.Printf("evloopd: manual rescan requested; current state: %s", control.Snapshot())
	}); err != nil {
		log.Fatalf("evloopd: async.Init: %v", err)
	}
	control.RecordAsyncInit()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	for sig := range sigCh {
		switch sig {
		case syscall.SIGUSR1:
			control.Metrics.AsyncSends.Inc()
			async.Send(&rescanHook)
		default:
			shutdown(l, &watcher, &rescanHook, control)
			<-done
			return
		}
	}
}

func shutdown(l *loop.Loop, watcher *fspoll.Handle, rescanHook *async.Handle, control *diag.Control) {
	closed := make(chan struct{}, 2)
	l.Post(func() {
		fspoll.Close(watcher, func() {
			control.RecordFsPollStop()
			closed <- struct{}{}
		})
		async.Close(rescanHook, func() {
			control.RecordAsyncClose()
			closed <- struct{}{}
		})
	})

	timeout := time.After(5 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-closed:
		case <-timeout:
			log.Print("evloopd: shutdown timed out waiting for handle close")
		}
	}
	l.Stop()
}
