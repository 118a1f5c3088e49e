package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
)

var (
	resolveJSON     bool
	resolveTimeout  time.Duration
	resolveLanguage string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name> [name...]",
	Short: "Resolve listing names onto catalog records",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print results as JSON")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 2*time.Minute, "overall time limit")
	resolveCmd.Flags().StringVar(&resolveLanguage, "language", "en_us", "description language")
}

type resolveResult struct {
	Name        string   `json:"name"`
	Found       bool     `json:"found"`
	Tier        string   `json:"tier"`
	Candidate   string   `json:"candidate,omitempty"`
	Similarity  float64  `json:"similarity,omitempty"`
	PagesWalked int      `json:"pages_walked"`
	ID          string   `json:"id,omitempty"`
	Levels      []string `json:"levels,omitempty"`
	Description string   `json:"description,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), resolveTimeout)
	defer cancel()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	results := make([]resolveResult, 0, len(args))
	for _, name := range args {
		out, err := a.resolver.Resolve(ctx, &resolver.ResolveInput{Name: name})
		if err != nil {
			return err
		}

		result := resolveResult{
			Name:        name,
			Found:       out.Found(),
			Tier:        string(out.Tier),
			PagesWalked: out.PagesWalked,
		}
		if out.Found() {
			result.Candidate = out.Candidate
			result.Similarity = out.Similarity
			result.ID = out.Record.ID
			result.Levels = out.Record.Levels
			result.Description, _ = out.Record.DescriptionFor(resolveLanguage)
		}
		results = append(results, result)
	}

	if resolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTIER\tCANDIDATE\tSIMILARITY\tID\tPAGES")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%s\t%d\n",
			r.Name, r.Tier, r.Candidate, r.Similarity, r.ID, r.PagesWalked)
	}
	return w.Flush()
}
