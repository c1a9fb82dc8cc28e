package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/ccview/internal/history"
	"github.com/vanderheijden86/ccview/pkg/client"
	"github.com/vanderheijden86/ccview/pkg/debug"
	"github.com/vanderheijden86/ccview/pkg/export"
	"github.com/vanderheijden86/ccview/pkg/metrics"
	"github.com/vanderheijden86/ccview/pkg/results"
)

// maxParallelAnalyses bounds concurrent requests in batch mode.
const maxParallelAnalyses = 4

type analyzeOptions struct {
	text     string
	outDir   string
	noReport bool
	timings  bool
}

// analyzeInput is one unit of batch work: typed text or a file path.
type analyzeInput struct {
	label  string
	path   string
	text   string
	outDir string
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze code words without the TUI",
		Long: `Analyze code words typed with --text, read from files, or read from
stdin ("-"). With several files the requests run concurrently and each
report is written to its own directory under --out.

Without any input ccv prompts for the code words.`,
		Example: `  ccv analyze --text "ACG TCA GAT"
  ccv analyze codes.txt more.txt --out reports
  echo "AAC ACA CAA" | ccv analyze -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "code words to analyze")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "report directory (default report.dir from config)")
	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "print summaries only")
	cmd.Flags().BoolVar(&opts.timings, "timings", false, "print request and render timings")

	return cmd
}

func (a *app) runAnalyze(ctx context.Context, stdin io.Reader, out io.Writer, args []string, opts *analyzeOptions) error {
	outDir := opts.outDir
	if outDir == "" {
		outDir = a.cfg.Report.Dir
	}

	inputs, err := collectInputs(stdin, args, opts.text, outDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		text, err := promptText()
		if err != nil {
			return err
		}
		inputs = []analyzeInput{{label: results.ManualSource, text: text, outDir: outDir}}
	}

	hist, err := a.openHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if hist != nil {
		defer hist.Close()
	}

	if opts.timings {
		metrics.ResetAll()
	}
	c := a.newClient()
	outputs := make([]bytes.Buffer, len(inputs))
	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(maxParallelAnalyses)
	for i, in := range inputs {
		g.Go(func() error {
			errs[i] = a.analyzeOne(ctx, c, hist, in, &outputs[i], opts.noReport)
			return nil
		})
	}
	_ = g.Wait()

	for i := range outputs {
		if _, err := out.Write(outputs[i].Bytes()); err != nil {
			return err
		}
	}
	if opts.timings {
		fmt.Fprint(out, metrics.Report())
	}
	return errors.Join(errs...)
}

// analyzeOne runs a single input through the client and the exporter. Output
// goes to w so concurrent runs do not interleave.
func (a *app) analyzeOne(ctx context.Context, c *client.Client, hist *history.Store, in analyzeInput, w io.Writer, noReport bool) error {
	var (
		set  results.Set
		err  error
		kind = history.KindText
	)
	if in.path != "" {
		kind = history.KindFile
		set, err = c.AnalyzeFilePath(ctx, in.path)
	} else {
		set, err = c.AnalyzeText(ctx, in.text)
	}
	if client.IsNoValidCodes(err) {
		fmt.Fprintf(w, "%s: No valid codes found.\n", in.label)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in.label, err)
	}

	if hist != nil {
		if _, err := hist.Record(ctx, set, kind); err != nil {
			debug.Log("history: record %s: %v", in.label, err)
		}
	}

	printSet(w, set)
	if noReport {
		return nil
	}

	store := results.NewStore()
	store.ReplaceSet(set)
	rep, err := a.newExporter(in.outDir).Export(ctx, store)
	if err != nil {
		return fmt.Errorf("%s: %w", in.label, err)
	}
	fmt.Fprintf(w, "Report written to %s\n", rep.Path)
	if rep.HasImageFailures() {
		fmt.Fprintf(w, "Warning: %d graph image(s) could not be generated; the report was saved without them.\n", len(rep.ImageFailures))
		for _, ferr := range rep.ImageFailures {
			debug.Log("export: %v", ferr)
		}
	}
	return nil
}

// printSet writes the section label and summary of each result.
func printSet(w io.Writer, set results.Set) {
	fmt.Fprintf(w, "== %s ==\n", set.Source)
	for i, res := range set.Results {
		fmt.Fprintf(w, "\n## %s\n", export.SectionLabel(i, len(set.Results)))
		if res.HasGraph() {
			fmt.Fprintf(w, "Graph: %d elements, %d cycle edges\n", len(res.Elements), res.CycleEdgeCount())
		}
		if res.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", res.Error)
		}
		if res.Summary != "" {
			fmt.Fprintln(w, strings.TrimRight(res.Summary, "\n"))
		}
	}
	fmt.Fprintln(w)
}

// collectInputs turns flags and arguments into work items. With more than one
// input each report gets its own directory under outDir, named after the file.
func collectInputs(stdin io.Reader, args []string, text, outDir string) ([]analyzeInput, error) {
	var inputs []analyzeInput
	if strings.TrimSpace(text) != "" {
		inputs = append(inputs, analyzeInput{label: results.ManualSource, text: text})
	}
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			inputs = append(inputs, analyzeInput{label: "stdin", text: string(data)})
			continue
		}
		inputs = append(inputs, analyzeInput{label: filepath.Base(arg), path: arg})
	}

	if len(inputs) == 1 {
		inputs[0].outDir = outDir
		return inputs, nil
	}
	seen := make(map[string]int)
	for i := range inputs {
		name := reportDirName(inputs[i].label)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		inputs[i].outDir = filepath.Join(outDir, name)
	}
	return inputs, nil
}

func reportDirName(label string) string {
	name := strings.TrimSuffix(label, filepath.Ext(label))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '/' || r == '\\':
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." {
		return "input"
	}
	return strings.ToLower(name)
}

// promptText asks for code words interactively.
func promptText() (string, error) {
	var text string
	form := newForm(
		huh.NewGroup(
			huh.NewText().
				Title("Code words").
				Description("Separate words with spaces or new lines, e.g. ACG TCA GAT").
				Value(&text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("enter at least one code word")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return text, nil
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
