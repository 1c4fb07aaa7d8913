package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/graph"
)

type buildOutcome struct {
	file        string
	out         string
	nodes       int
	depth       int
	warnings    []string
	passThrough bool
	err         error
}

func buildCmd() *cobra.Command {
	var (
		subject     string
		outDir      string
		concurrency int
		pretty      bool
	)
	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "Build canonical graphs from raw mind-map JSON files",
		Long: "Build canonical graphs from raw mind-map JSON files.\n" +
			"With one file and no --out the graph is written to stdout; otherwise each\n" +
			"input is written to <out>/<name>.graph.json.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" && len(args) == 1 {
				return buildToWriter(cmd, args[0], subject, pretty)
			}
			if outDir == "" {
				outDir = "."
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			outcomes := buildFiles(args, subject, outDir, concurrency, pretty)
			return report(cmd, outcomes)
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject name used when the input has no central node title")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Files built in parallel")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent output JSON")
	return cmd
}

func subjectFor(file, subject string) string {
	if subject != "" {
		return subject
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func buildFile(file, subject string) (graph.Result, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return graph.Result{}, err
	}
	res, err := graph.BuildJSON(data, subjectFor(file, subject))
	if err != nil {
		return graph.Result{}, err
	}
	if !res.IsPassThrough() {
		if err := graph.Validate(res.Graph); err != nil {
			return graph.Result{}, err
		}
	}
	return res, nil
}

func marshalGraph(g *graph.CanonicalGraph, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(g, "", "  ")
	}
	return json.Marshal(g)
}

func buildToWriter(cmd *cobra.Command, file, subject string, pretty bool) error {
	res, err := buildFile(file, subject)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if res.IsPassThrough() {
		return fmt.Errorf("%s: input is not a mind map", file)
	}
	for _, w := range res.Warnings {
		warn.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	b, err := marshalGraph(res.Graph, pretty)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

// buildFiles builds every file with at most concurrency in flight. One bad file does not
// stop the others; outcomes keep the input order.
func buildFiles(files []string, subject, outDir string, concurrency int, pretty bool) []buildOutcome {
	if concurrency <= 0 {
		concurrency = 1
	}
	outcomes := make([]buildOutcome, len(files))
	outPaths := outputPaths(files, outDir)
	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i, file := range files {
		eg.Go(func() error {
			o := buildOutcome{file: file}
			res, err := buildFile(file, subject)
			switch {
			case err != nil:
				o.err = err
			case res.IsPassThrough():
				o.passThrough = true
			default:
				o.nodes = len(res.Graph.Nodes)
				o.depth = res.Graph.MaxLevel()
				o.warnings = res.Warnings
				o.out = outPaths[i]
				if b, mErr := marshalGraph(res.Graph, pretty); mErr != nil {
					o.err = mErr
				} else {
					o.err = os.WriteFile(o.out, b, 0o644)
				}
			}
			mu.Lock()
			outcomes[i] = o
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return outcomes
}

// outputPaths names each input's graph file after its base name. Inputs that share a base
// name get a -2, -3, ... suffix in argument order, so concurrent builds never write the
// same file.
func outputPaths(files []string, outDir string) []string {
	out := make([]string, len(files))
	taken := make(map[string]bool, len(files))
	for i, file := range files {
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		name := stem + ".graph.json"
		for n := 2; taken[name]; n++ {
			name = stem + "-" + strconv.Itoa(n) + ".graph.json"
		}
		taken[name] = true
		out[i] = filepath.Join(outDir, name)
	}
	return out
}

func report(cmd *cobra.Command, outcomes []buildOutcome) error {
	w := cmd.OutOrStdout()
	failed := 0
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			bad.Fprintf(w, "  ✗ %s: %v\n", o.file, o.err)
		case o.passThrough:
			failed++
			warn.Fprintf(w, "  - %s: not a mind map (passed through)\n", o.file)
		default:
			good.Fprintf(w, "  ✓ %s", o.file)
			fmt.Fprintf(w, " → %s %s\n", o.out, subtle.Sprintf("(%d nodes, depth %d)", o.nodes, o.depth))
			for _, msg := range o.warnings {
				warn.Fprintf(w, "      warning: %s\n", msg)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files did not build", failed, len(outcomes))
	}
	return nil
}
