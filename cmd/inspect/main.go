package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/meur/itemsapi/internal/dataset"
)

func main() {
	_ = godotenv.Load()

	csvPath := flag.String("csv", os.Getenv("CSV_PATH"), "CSV source path")
	dataDir := flag.String("data-dir", getEnv("DATA_DIR", dataset.DefaultDataDir), "Directory scanned for CSV files")
	flag.Parse()

	opts := dataset.Options{Path: *csvPath, DataDir: *dataDir}
	if err := run(context.Background(), os.Stdout, opts); err != nil {
		log.Fatalf("Dataset check failed: %v", err)
	}
}

// run loads the dataset exactly as the server would and prints a summary.
func run(ctx context.Context, w io.Writer, opts dataset.Options) error {
	snap, err := dataset.NewLoader(opts, nil).Load(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "source:     %s\n", snap.Source)
	fmt.Fprintf(w, "rows:       %d\n", snap.Len())
	fmt.Fprintf(w, "categories: %d\n", len(snap.Categories))
	for _, c := range snap.Categories {
		name := c.Category
		if name == "" {
			name = "(empty)"
		}
		fmt.Fprintf(w, "  %-30s %d\n", name, c.Count)
	}
	fmt.Fprintf(w, "✓ %s is valid\n", snap.Source)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
