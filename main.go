package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

func main() {
	// Latest transcript shared between the (external) dictation pipeline
	// and the copy_last handler. The pipeline would update it; until one is
	// attached it stays empty.
	var transcriptMu sync.Mutex
	lastTranscript := ""
	transcript := func() string {
		transcriptMu.Lock()
		defer transcriptMu.Unlock()
		return lastTranscript
	}

	app := NewApp(NewConfigService(), newGohookSource(), nil, transcript)
	if err := app.Startup(); err != nil {
		log.Printf("main: startup degraded: %v", err)
	}
	StartSystray(app)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("main: received %v — shutting down", sig)
	case <-app.Done():
	}
	app.Shutdown()
}
