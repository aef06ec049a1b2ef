package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tobin/pressfeed/internal/config"
	"github.com/tobin/pressfeed/internal/scraper"
	"github.com/tobin/pressfeed/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	serve := flag.Bool("serve", false, "serve the feed over HTTP instead of writing a file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sc := scraper.New(cfg)

	if *serve {
		srv := server.New(sc, cfg)

		// Handle graceful shutdown
		go func() {
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan
			log.Println("Shutting down gracefully...")
			os.Exit(0)
		}()

		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Printf("Server starting on http://localhost%s", addr)
		return srv.Start(addr)
	}

	log.Printf("Fetching %s", cfg.ListingURL)

	entries, err := sc.Run(ctx)
	if err != nil {
		return err
	}

	return writeFeed(entries, cfg)
}

// writeFeed generates the feed and writes it to the output path. A run that
// discovered nothing writes no file at all; the site structure has likely
// changed and a valid-but-empty feed would mask that.
func writeFeed(entries []*scraper.Entry, cfg *config.Config) error {
	if len(entries) == 0 {
		log.Println("No entries found. The page structure may have changed.")
		return nil
	}

	feed, err := server.GenerateRSSFeed(entries, cfg)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(cfg.OutputFile, []byte(feed)); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	log.Printf("RSS feed written to: %s", cfg.OutputFile)
	return nil
}

// writeFileAtomic writes via a temp file and rename so a failed run never
// leaves a partial feed at the output path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
