// styloverify is a standalone analyzer for authorship questions over
// plain text files. It does not touch the snapshot store: every input
// is a file on disk, and the output is a text or JSON report.
//
// Usage:
//
//	styloverify verify <suspect.txt> <target.txt> <impostor.txt>...
//	styloverify delta <target.txt> <candidate.txt>...
//	styloverify lexicon <a.txt>[,<a2.txt>...] <b.txt>[,<b2.txt>...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stylo/internal/impostors"
	"stylo/internal/logging"
	"stylo/internal/report"
	"stylo/internal/window"
	"stylo/internal/zeta"
)

var (
	format     = flag.String("format", "text", "output format: text or json")
	outputPath = flag.String("output", "", "write the report to a file instead of stdout")
	timeout    = flag.Duration("timeout", 2*time.Minute, "abort analysis after this duration")
	logLevel   = flag.String("log-level", "warn", "log level: debug, info, warn, error")

	// verify
	iterations = flag.Int("iterations", 300, "bootstrap rounds for verification")
	subsetSize = flag.Int("subset", 50, "vocabulary terms sampled per round")
	seed       = flag.Int64("seed", 0, "random seed for reproducible verification")

	// delta
	windowSize = flag.Int("window", 20, "tokens per rolling window")
	step       = flag.Int("step", 10, "tokens the window advances each step")

	// lexicon
	topN    = flag.Int("top", 25, "marker terms reported per side")
	minDocs = flag.Int("mindf", 2, "minimum combined document frequency for a term")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	setupLogging()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var (
		rep *report.Report
		err error
	)
	switch cmd := flag.Arg(0); cmd {
	case "verify":
		rep, err = runVerify(ctx, flag.Args()[1:])
	case "delta":
		rep, err = runDelta(ctx, flag.Args()[1:])
	case "lexicon":
		rep, err = runLexicon(flag.Args()[1:])
	case "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fatal("%v", err)
	}

	if err := emit(rep); err != nil {
		fatal("write report: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `styloverify - Standalone stylometric analyzer

Usage: styloverify [options] <command> [args]

Commands:
  verify <suspect> <target> <impostor>...   Impostors-method verification:
                                            did the suspect write the target?
  delta <target> <candidate>...             Rolling-window divergence of the
                                            target against each candidate
  lexicon <a1,a2,...> <b1,b2,...>           Contrastive marker vocabulary
                                            between two document sets
  help                                      Show this help message

Options:
  -format <text|json>   Output format (default text)
  -output <path>        Write report to a file instead of stdout
  -timeout <duration>   Abort analysis after this duration (default 2m)
  -seed <n>             Random seed for reproducible verification
  -iterations <n>       Bootstrap rounds (default 300)
  -subset <n>           Vocabulary terms sampled per round (default 50)
  -window <n>           Tokens per rolling window (default 20)
  -step <n>             Window advance in tokens (default 10)
  -top <n>              Marker terms per side (default 25)
  -mindf <n>            Minimum combined document frequency (default 2)`)
}

func setupLogging() {
	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fatal("%v", err)
	}
	logger, err := logging.New(&logging.Config{
		Level:     level,
		Format:    logging.FormatText,
		Output:    "stderr",
		Component: "styloverify",
	})
	if err != nil {
		fatal("setup logging: %v", err)
	}
	logging.SetDefault(logger)
}

func runVerify(ctx context.Context, args []string) (*report.Report, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("verify needs a suspect, a target, and at least one impostor")
	}

	suspect := impostors.VocabularyFromText(readText(args[0]))
	target := impostors.VocabularyFromText(readText(args[1]))
	pool := make([]impostors.Vocabulary, 0, len(args)-2)
	for _, path := range args[2:] {
		pool = append(pool, impostors.VocabularyFromText(readText(path)))
	}

	result, err := impostors.Verify(ctx, target, suspect, pool, impostors.Options{
		Iterations: *iterations,
		SubsetSize: *subsetSize,
		Seed:       *seed,
	}, logging.Default().Logger)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	rep := report.New("")
	rep.Verification = result
	return rep, nil
}

func runDelta(ctx context.Context, args []string) (*report.Report, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("delta needs a target and at least one candidate")
	}

	targetText := readText(args[0])
	candidates := make(map[string]string, len(args)-1)
	for _, path := range args[1:] {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		candidates[name] = readText(path)
	}

	series, err := window.AnalyzeRollingDelta(ctx, targetText, candidates,
		*windowSize, *step, logging.Default().Logger)
	if err != nil {
		return nil, fmt.Errorf("rolling delta: %w", err)
	}

	rep := report.New("")
	rep.Windows = series
	return rep, nil
}

func runLexicon(args []string) (*report.Report, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("lexicon needs two comma-separated document lists")
	}

	docsA := readDocList(args[0])
	docsB := readDocList(args[1])

	result := zeta.ContrastiveLexicon(docsA, docsB, *topN, *minDocs,
		logging.Default().Logger)

	rep := report.New("")
	rep.Lexicon = &result
	return rep, nil
}

func readDocList(list string) []string {
	paths := strings.Split(list, ",")
	docs := make([]string, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		docs = append(docs, readText(path))
	}
	return docs
}

func readText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("read %s: %v", path, err)
	}
	return string(data)
}

func emit(rep *report.Report) error {
	var out io.Writer = os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "json":
		return rep.WriteJSON(out)
	case "text":
		rep.WriteText(out)
		return nil
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "styloverify: "+format+"\n", args...)
	os.Exit(1)
}
