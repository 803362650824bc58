package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lychee-technology/reaper"
)

// exampleFile is the JSON shape an input file must have: an Example's
// input, output and constants. Config overrides come from command-line
// flags, not from the file.
type exampleFile struct {
	Input     []relationFile `json:"input"`
	Output    relationFile   `json:"output"`
	Constants []int64        `json:"constants"`
}

type relationFile struct {
	Name    string    `json:"name"`
	Columns []string  `json:"columns"`
	Values  [][]int64 `json:"values"`
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "synth":
		if err := runSynth(os.Args[2:]); err != nil {
			log.Fatalf("synth: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: synthcli <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  synth   Read an example JSON file and print the synthesized SQL")
}

func runSynth(args []string) error {
	flags := flag.NewFlagSet("synth", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: synthcli synth [options]")
		fmt.Println()
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	exampleFilePath := flags.String("example", "", "Path to a JSON example file ({input, output, constants})")
	skeletonDepth := flags.Int("skeleton-depth", 0, "Override the skeleton enumerator's depth bound")
	predicateDepth := flags.Int("predicate-depth", 0, "Override the predicate enumerator's depth bound")
	timeoutSeconds := flags.Int("timeout-seconds", 0, "Override the synthesis call's timeout")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *exampleFilePath == "" {
		return errors.New("-example is required")
	}

	raw, err := os.ReadFile(*exampleFilePath)
	if err != nil {
		return fmt.Errorf("read example file: %w", err)
	}

	var ef exampleFile
	if err := json.Unmarshal(raw, &ef); err != nil {
		return fmt.Errorf("parse example file: %w", err)
	}

	cfg := reaper.DefaultSynthesisConfig()
	if *skeletonDepth > 0 {
		cfg.SkeletonDepth = *skeletonDepth
	}
	if *predicateDepth > 0 {
		cfg.PredicateDepth = *predicateDepth
		cfg.MaxPredicateDepth = *predicateDepth
	}
	if *timeoutSeconds > 0 {
		cfg.Timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	example := reaper.Example{
		Input:    toRelations(ef.Input),
		Output:   toRelation(ef.Output),
		Constant: ef.Constants,
	}

	ctx := context.Background()
	candidates, err := reaper.Synthesize(ctx, example, cfg)
	if err != nil {
		if reaper.IsNoQueriesFound(err) {
			fmt.Println("Unable to synthesize")
			return nil
		}
		return err
	}

	fmt.Println(reaper.RenderSQL(candidates[0]))
	return nil
}

func toRelation(r relationFile) reaper.ConcreteRelation {
	return reaper.ConcreteRelation{Name: r.Name, Columns: r.Columns, Values: r.Values}
}

func toRelations(rs []relationFile) []reaper.ConcreteRelation {
	out := make([]reaper.ConcreteRelation, len(rs))
	for i, r := range rs {
		out[i] = toRelation(r)
	}
	return out
}
