package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/finlearn/internal/advisor"
	"github.com/verte-zerg/finlearn/internal/budget"
	"github.com/verte-zerg/finlearn/internal/lessons"
	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/stats"
)

var (
	historyClear bool
	resetYes     bool
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search lessons by title, description and content",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearchCmd,
	}
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	collection, err := a.resolver().Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}
	query := strings.Join(args, " ")
	results := a.index(collection.Lessons).Rank(query)

	history := a.history()
	history.Load(ctx)
	history.Record(ctx, query, len(results))

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		return writeOut(out, fmt.Sprintf("No lessons match %q.", query))
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%-20s %-32s %.3f", r.Lesson.ID, r.Lesson.Title.Resolve(a.loc), r.Score))
	}
	return writeOut(out, lines...)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyClear, "clear", false, "forget all recent searches")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	history := a.history()
	if historyClear {
		history.Clear(ctx)
		logErrln("Search history cleared.")
		return nil
	}
	entries := history.Load(ctx)
	if len(entries) == 0 {
		logErrln("No recent searches.")
		return nil
	}
	return writeOut(cmd.OutOrStdout(), entries...)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show XP, streak and quiz scores",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	collection, err := a.resolver().Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}
	summary := stats.Summarize(a.tracker(ctx).State(), collection.Lessons, a.loc)
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := writeOut(out, ""); err != nil {
		return err
	}
	if err := stats.RenderLessonTable(out, summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the learning path",
		Args:  cobra.NoArgs,
		RunE:  runPathCmd,
	}
}

func runPathCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	collection, err := a.resolver().Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}
	levels := lessons.BuildPath(collection.Lessons, a.tracker(ctx).State())
	if err := stats.RenderPath(cmd.OutOrStdout(), levels, a.loc); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all XP, completions and scores",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), "Reset all progress? This cannot be undone. [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Reset cancelled.")
			return nil
		}
	}
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	a.tracker(ctx).Reset(ctx)
	logErrln("Progress reset.")
	return nil
}

func confirm(in io.Reader, prompt string) (bool, error) {
	logErrf("%s", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func newBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget <monthly-income>",
		Short: "Split a monthly after-tax income with the 50/30/20 rule",
		Args:  cobra.ExactArgs(1),
		RunE:  runBudgetCmd,
	}
}

func runBudgetCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	income, err := budget.ParseIncome(args[0])
	if err != nil {
		return err
	}
	rules := budget.Split(income)
	if len(rules) == 0 {
		return fmt.Errorf("income must be greater than 0")
	}
	loc := locale.Parse(cfg.Lang)
	lines := make([]string, 0, len(rules))
	for _, rule := range rules {
		lines = append(lines, fmt.Sprintf("%-14s %12s", rule.Label, budget.FormatAmount(rule.Amount, loc)))
	}
	return writeOut(cmd.OutOrStdout(), lines...)
}

func newAdvisorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advisor",
		Short: "Show a featured financial advisor",
		Args:  cobra.NoArgs,
		RunE:  runAdvisorCmd,
	}
}

func runAdvisorCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	if a.remote == nil {
		logErrln("No remote store configured. Run: finlearn config")
		return advisor.ErrNoAdvisors
	}
	picked, err := advisor.NewCache(a.advisorSource(), a.loc, nil).Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to load advisor: %w", err)
	}
	lines := []string{picked.Name}
	for _, field := range [][2]string{
		{"Title", picked.Title},
		{"About", picked.Bio},
		{"Email", picked.Email},
		{"Phone", picked.Phone},
		{"Web", picked.Website},
		{"Photo", picked.PhotoURL},
	} {
		if field[1] != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", field[0], field[1]))
		}
	}
	return writeOut(cmd.OutOrStdout(), lines...)
}

func writeOut(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
