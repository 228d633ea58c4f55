package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vic/lambdabox/pkg/lambda"
	"github.com/vic/lambdabox/pkg/reduce"
	"github.com/vic/lambdabox/pkg/session"
)

// Options holds the command line flags.
type Options struct {
	Debug      bool
	ConfigPath string
	Limit      int
	Steps      bool
	Named      bool
	Single     bool
	AST        bool
	Stats      bool
	Trace      int
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "lambdabox [flags] [file...]",
		Short: "Untyped lambda calculus interpreter",
		Long: `lambdabox reduces untyped lambda terms to normal form.

Each file is a buffer: lines starting with "!" define names
("!name=term", or "!!name=term" to store the normal form), and the last
line is the term to reduce. Without files an interactive session starts.`,
		Example: `  # Reduce the last line of a file
  lambdabox church.lam

  # Show every step and fold known definitions back into names
  lambdabox --steps --named church.lam

  # Perform a single reduction step
  lambdabox -1 church.lam

  # Start the REPL
  lambdabox`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(opts.Debug)

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runREPL(cfg, opts)
			}
			return runFiles(cmd.Context(), cfg, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to lambdabox.toml (searched upwards from the working directory if not set)")
	rootCmd.Flags().IntVarP(&opts.Limit, "limit", "l", session.DefaultLimit, "Maximum number of reduction steps (-1 for unlimited)")
	rootCmd.Flags().BoolVarP(&opts.Steps, "steps", "s", false, "Print every intermediate term")
	rootCmd.Flags().BoolVarP(&opts.Named, "named", "n", false, "Print subterms equal to a definition by name")
	rootCmd.Flags().BoolVarP(&opts.Single, "single", "1", false, "Perform a single reduction step")
	rootCmd.Flags().BoolVar(&opts.AST, "ast", false, "Dump the parsed term before reducing")
	rootCmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print reduction statistics to stderr")
	rootCmd.Flags().IntVar(&opts.Trace, "trace", 0, "Print the first N rule applications to stderr")

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			_, _ = lipgloss.Fprintln(w, errorStyle.Render(errorMessage(err)))
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// loadConfig reads lambdabox.toml and applies the flags that were set.
func loadConfig(cmd *cobra.Command, opts Options) (session.Config, error) {
	var (
		cfg  session.Config
		path string
		err  error
	)
	if opts.ConfigPath != "" {
		path = opts.ConfigPath
		cfg, err = session.LoadConfig(path)
	} else {
		cwd, _ := os.Getwd()
		path, cfg, err = session.FindConfig(cwd)
	}
	if err != nil {
		return session.Config{}, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Limit = opts.Limit
	}
	if flags.Changed("steps") {
		cfg.ShowSteps = opts.Steps
	}
	if flags.Changed("named") {
		cfg.NamedOutput = opts.Named
	}
	return cfg, nil
}

type fileResult struct {
	output  string
	stats   reduce.Stats
	trace   []reduce.TraceEvent
	elapsed time.Duration
}

// runFiles evaluates every file independently and prints the results in
// argument order.
func runFiles(ctx context.Context, cfg session.Config, opts Options, files []string, stdout, stderr io.Writer) error {
	results := make([]fileResult, len(files))

	eg, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		eg.Go(func() error {
			src, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrapf(err, "reading %s", file)
			}
			start := time.Now()
			out, res, err := evaluate(session.New(cfg, sessionOptions(opts)...), string(src), opts)
			if err != nil {
				return errors.Wrap(err, file)
			}
			results[i] = fileResult{output: out, stats: res.Stats, trace: res.Trace, elapsed: time.Since(start)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		_, _ = lipgloss.Fprint(stdout, res.output)
		if opts.Stats {
			printStats(stderr, files[i], res.stats, res.elapsed)
		}
		if opts.Trace > 0 {
			printTrace(stderr, files[i], res.trace)
		}
	}
	return nil
}

// evaluate runs one buffer and formats what the user asked to see.
func evaluate(s *session.Session, buffer string, opts Options) (string, session.Result, error) {
	var b strings.Builder

	if opts.AST {
		line, err := session.TermLine(buffer)
		if err != nil {
			return "", session.Result{}, err
		}
		t, err := lambda.Parse(line)
		if err != nil {
			return "", session.Result{}, err
		}
		fmt.Fprintf(&b, "%# v\n", pretty.Formatter(t))
	}

	var (
		res session.Result
		err error
	)
	if opts.Single {
		res, err = s.Step(buffer)
	} else {
		res, err = s.Normalize(buffer)
	}
	if err != nil {
		return "", session.Result{}, err
	}

	for _, step := range res.Steps {
		b.WriteString(stepStyle.Render(step))
		b.WriteByte('\n')
	}
	b.WriteString(res.Output)
	b.WriteByte('\n')
	if opts.Single && !res.Reduced {
		b.WriteString(stepStyle.Render("Term is in normal form"))
		b.WriteByte('\n')
	}
	return b.String(), res, nil
}

func printStats(w io.Writer, name string, stats reduce.Stats, elapsed time.Duration) {
	seconds := elapsed.Seconds()

	fmt.Fprintf(w, "\nStats (%s):\n", name)
	fmt.Fprintf(w, "Time: %v\n", elapsed)
	fmt.Fprintf(w, "Total Reductions: %d", stats.TotalReductions)
	if seconds > 0 {
		fmt.Fprintf(w, " (%.2f ops/sec)", float64(stats.TotalReductions)/seconds)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "\nBreakdown:\n")
	fmt.Fprintf(w, "  Substitution: %6d\n", stats.Substitutions)
	fmt.Fprintf(w, "  Identity:     %6d\n", stats.Identities)
	fmt.Fprintf(w, "  Projection:   %6d\n", stats.Projections)
	fmt.Fprintf(w, "  Erasure:      %6d\n", stats.Erasures)
	if stats.Resolutions > 0 {
		fmt.Fprintf(w, "  Resolution:   %6d\n", stats.Resolutions)
	}
	if stats.Unfoldings > 0 {
		fmt.Fprintf(w, "  Unfolding:    %6d\n", stats.Unfoldings)
	}
}

func printTrace(w io.Writer, name string, events []reduce.TraceEvent) {
	fmt.Fprintf(w, "\nTrace (%s):\n", name)
	for _, ev := range events {
		if ev.Name != "" {
			fmt.Fprintf(w, "  #%-6d %-10s %s\n", ev.Step, ev.Rule, ev.Name)
			continue
		}
		fmt.Fprintf(w, "  #%-6d %s\n", ev.Step, ev.Rule)
	}
}

func sessionOptions(opts Options) []session.Option {
	if opts.Trace > 0 {
		return []session.Option{session.WithTrace(opts.Trace)}
	}
	return nil
}

// errorMessage is err's text, with the step count spelled out when the
// reduction ran out of steps.
func errorMessage(err error) string {
	msg := err.Error()
	var limitErr *reduce.LimitExceededError
	if errors.As(err, &limitErr) {
		msg = strings.TrimSuffix(msg, limitErr.Error()) + limitErr.Detail()
	}
	return msg
}
