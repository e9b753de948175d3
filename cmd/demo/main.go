package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/Pp3ng/blitz-logger"
)

func main() {
	fmt.Println("--- blitz-logger demo ---")

	logger, err := log.NewBuilder().
		Directory("./demo_logs").
		LevelString("debug").
		MaxFileSizeMB(8).
		MaxFiles(5).
		EnableConsole(true).
		UseColors(true).
		Heartbeat(30).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("logger initialized, writing to ./demo_logs")

	logger.Debug("starting up, pid=%d", os.Getpid())
	logger.Info("application starting")
	logger.Warning("cache miss ratio above threshold: %.2f", 0.95)
	logger.Error("upstream request failed: %v", fmt.Errorf("connection reset"))

	type request struct {
		Method string
		Path   string
		Status int
	}
	logger.Dump("sample request", request{Method: "GET", Path: "/health", Status: 200})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		id := i
		logger.Go(func() {
			defer wg.Done()
			logger.SetModule(fmt.Sprintf("worker-%d", id))
			logger.Info("worker started")
			time.Sleep(time.Duration(20+id*10) * time.Millisecond)
			logger.Step(id, "worker finished after its slice of work")
		})
	}
	wg.Wait()
	fmt.Println("workers finished")

	if err := logger.Flush(time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "flush error: %v\n", err)
	}

	fmt.Println("shutting down logger...")
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	} else {
		fmt.Println("logger shutdown complete.")
	}

	fmt.Println("--- demo finished, check ./demo_logs ---")
}
