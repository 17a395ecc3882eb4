package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/greggjuri/golf-swing-analyzer/internal/app"
	"github.com/greggjuri/golf-swing-analyzer/internal/server"
	"github.com/greggjuri/golf-swing-analyzer/internal/server/api"
	"github.com/greggjuri/golf-swing-analyzer/internal/store"
)

func main() {
	videoPath := flag.String("video", "", "analyze a single video file and print the result")
	dbPath := flag.String("db", "", "database path (default ~/.swingplane/swingplane.db)")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	workers := flag.Int("workers", 4, "detection worker count")
	serve := flag.Bool("serve", false, "start the HTTP server")
	flag.Parse()

	fmt.Println("Swingplane - Golf Swing Video Analysis")

	if *videoPath == "" && !*serve {
		flag.Usage()
		os.Exit(2)
	}

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	config := app.DefaultConfig()
	config.Workers = *workers
	runner := app.NewRunner(config)

	if *videoPath != "" {
		if err := analyzeOnce(runner, st, *videoPath); err != nil {
			log.Fatalf("Analysis failed: %v", err)
		}
	}

	if *serve {
		srv := server.New(server.Config{
			Store:    st,
			Analyzer: runner,
		})

		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}
}

// openStore opens the swing database, creating the data directory when
// needed.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(homeDir, ".swingplane")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "swingplane.db")
	}
	return store.New(path)
}

// analyzeOnce runs one analysis session, persists it, and prints the
// stored swing as JSON.
func analyzeOnce(runner *app.Runner, st *store.Store, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("video not readable: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Analyze(ctx, path, func(p app.Progress) {
		log.Printf("Progress: %d frames, tracker %s", p.FramesProcessed, p.TrackerState)
	})
	if err != nil {
		return err
	}

	sw := api.SwingFromResult(result, path)
	if err := st.Swings().Create(sw); err != nil {
		return fmt.Errorf("save swing: %w", err)
	}
	if err := st.Swings().SavePositions(sw.ID, result.Positions); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}

	out, err := json.MarshalIndent(result.Analysis, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
