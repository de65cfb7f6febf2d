// styloctl is the control CLI for the stylo authorship analysis engine:
// it ingests fingerprint snapshots into the profile store and runs
// drift checks against stored histories.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stylo/internal/config"
	"stylo/internal/fingerprint"
	"stylo/internal/logging"
	"stylo/internal/profile"
	"stylo/internal/report"
	"stylo/internal/store"
)

var (
	configPath = flag.String("config", "", "path to config file")
	jsonOut    = flag.Bool("json", false, "emit results as JSON")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("load config: %v", err)
	}
	setupLogging(cfg)

	cmd := flag.Arg(0)
	switch cmd {
	case "ingest":
		if flag.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "Usage: styloctl ingest <author> <vector.json>")
			os.Exit(1)
		}
		cmdIngest(cfg, flag.Arg(1), flag.Arg(2))
	case "history":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: styloctl history <author>")
			os.Exit(1)
		}
		cmdHistory(cfg, flag.Arg(1))
	case "profile":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: styloctl profile <author>")
			os.Exit(1)
		}
		cmdProfile(cfg, flag.Arg(1))
	case "drift":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: styloctl drift <author> [vector.json]")
			os.Exit(1)
		}
		vectorPath := ""
		if flag.NArg() >= 3 {
			vectorPath = flag.Arg(2)
		}
		cmdDrift(cfg, flag.Arg(1), vectorPath)
	case "status":
		cmdStatus(cfg)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `styloctl - Control utility for the stylo analysis engine

Usage: styloctl [options] <command> [args]

Commands:
  ingest <author> <vector.json>   Append a fingerprint snapshot for an author
  history <author>                Print an author's snapshot history
  profile <author>                Print an author's decay-weighted profile
  drift <author> [vector.json]    Check drift of a vector (or the newest
                                  snapshot) against the author's history
  status                          Show store statistics
  help                            Show this help message

Options:
  -config <path>  Path to config file (default: ~/.local/share/stylo/config.toml)
  -json           Emit results as JSON`)
}

func loadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	}
	loader := config.NewLoader(path)
	defer loader.Close()
	return loader.Load()
}

func defaultConfigPath() string {
	return filepath.Join(config.DataDir(), "config.toml")
}

func setupLogging(cfg *config.Config) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		format = logging.FormatText
	}

	logger, err := logging.New(&logging.Config{
		Level:      level,
		Format:     format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Component:  "styloctl",
	})
	if err != nil {
		fatal("setup logging: %v", err)
	}
	logging.SetDefault(logger)
}

func openStore(cfg *config.Config) store.SnapshotStore {
	if cfg.Storage.Type == "memory" {
		return store.NewMemoryStore()
	}
	s, err := store.Open(cfg.Storage.Path)
	if err != nil {
		fatal("open store: %v", err)
	}
	return s
}

func cmdIngest(cfg *config.Config, author, vectorPath string) {
	vector := readVector(vectorPath)

	s := openStore(cfg)
	id, err := s.AppendSnapshot(author, vector, time.Now().UnixNano())
	if err != nil {
		fatal("append snapshot: %v", err)
	}
	fmt.Printf("Recorded snapshot %d for %s (%d signals)\n", id, author, len(vector))
}

func cmdHistory(cfg *config.Config, author string) {
	s := openStore(cfg)
	snapshots, err := s.GetSnapshots(author)
	if err != nil {
		fatal("get snapshots: %v", err)
	}

	if *jsonOut {
		printJSON(snapshots)
		return
	}
	if len(snapshots) == 0 {
		fmt.Printf("No snapshots for %s\n", author)
		return
	}
	for _, snap := range snapshots {
		fmt.Printf("%d  %s  %d signals\n",
			snap.ID,
			time.Unix(0, snap.TimestampNs).Format(time.RFC3339),
			len(snap.Vector),
		)
	}
}

func cmdProfile(cfg *config.Config, author string) {
	s := openStore(cfg)
	engine, err := profile.NewEngine(s, cfg.Profile.DecayFactor, nil)
	if err != nil {
		fatal("create engine: %v", err)
	}

	weighted, err := engine.WeightedProfile(author)
	if err != nil {
		fatal("compute profile: %v", err)
	}
	if len(weighted) == 0 {
		fmt.Printf("No snapshots for %s\n", author)
		return
	}

	if *jsonOut {
		printJSON(weighted)
		return
	}
	for _, signal := range weighted.Keys() {
		fmt.Printf("%-24s %+.4f\n", signal, weighted[signal])
	}
}

func cmdDrift(cfg *config.Config, author, vectorPath string) {
	s := openStore(cfg)
	engine, err := profile.NewEngine(s, cfg.Profile.DecayFactor, nil)
	if err != nil {
		fatal("create engine: %v", err)
	}

	rep := report.New(author)

	if vectorPath == "" {
		drifting, distance, err := engine.DetectRecentDrift(author, cfg.Profile.DriftThreshold)
		if err != nil {
			fatal("detect recent drift: %v", err)
		}
		rep.SetDrift(&profile.DriftResult{
			Distance:      distance,
			DriftDetected: drifting,
			IsOutlier:     distance > cfg.Profile.DriftThreshold*1.5,
			Threshold:     cfg.Profile.DriftThreshold,
		})
	} else {
		result, err := engine.DetectDrift(author, readVector(vectorPath), cfg.Profile.DriftThreshold)
		if err != nil {
			fatal("detect drift: %v", err)
		}
		rep.SetDrift(result)
	}

	if *jsonOut {
		if err := rep.WriteJSON(os.Stdout); err != nil {
			fatal("write report: %v", err)
		}
		return
	}
	rep.WriteText(os.Stdout)
}

func cmdStatus(cfg *config.Config) {
	s := openStore(cfg)

	type counter interface {
		ListAuthors() ([]string, error)
		CountSnapshots(authorID string) (int, error)
	}
	c, ok := s.(counter)
	if !ok {
		fatal("store does not support status queries")
	}

	authors, err := c.ListAuthors()
	if err != nil {
		fatal("list authors: %v", err)
	}

	fmt.Printf("Store:   %s (%s)\n", cfg.Storage.Path, cfg.Storage.Type)
	fmt.Printf("Authors: %d\n", len(authors))
	for _, author := range authors {
		count, err := c.CountSnapshots(author)
		if err != nil {
			fatal("count snapshots: %v", err)
		}
		fmt.Printf("  %-24s %d snapshots\n", author, count)
	}
}

// readVector loads a fingerprint vector from a JSON file mapping signal
// names to weights.
func readVector(path string) fingerprint.Vector {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("read vector: %v", err)
	}
	var vector fingerprint.Vector
	if err := json.Unmarshal(data, &vector); err != nil {
		fatal("parse vector: %v", err)
	}
	if len(vector) == 0 {
		fatal("vector file %s contains no signals", path)
	}
	return vector
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal("encode json: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "styloctl: "+format+"\n", args...)
	os.Exit(1)
}
