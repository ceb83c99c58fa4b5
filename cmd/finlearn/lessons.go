package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/finlearn/internal/config"
	"github.com/verte-zerg/finlearn/internal/lessons"
)

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "Manage lesson content",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the active lessons and where they came from",
		Args:  cobra.NoArgs,
		RunE:  runLessonsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate [dir]",
		Short: "Check lessons for missing ids, duplicates and broken quizzes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLessonsValidateCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "convert <dir>",
		Short: "Rewrite single-language JSON lessons into the multilingual format",
		Args:  cobra.ExactArgs(1),
		RunE:  runLessonsConvertCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "push [dir]",
		Short: "Upload local lessons to the remote store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLessonsPushCmd,
	})
	return cmd
}

func runLessonsListCmd(cmd *cobra.Command, _ []string) error {
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
	logErrf("%d lessons from %s\n", len(collection.Lessons), collection.Source)
	lines := make([]string, 0, len(collection.Lessons))
	for _, l := range collection.Lessons {
		lines = append(lines, fmt.Sprintf("%-20s L%d %4d XP  %s", l.ID, l.EffectiveLevel(), l.XPReward, l.Title.Resolve(a.loc)))
	}
	return writeOut(cmd.OutOrStdout(), lines...)
}

// localLessons reads dir when given, otherwise the configured lessons
// directory with the bundled lessons as fallback.
func localLessons(a *app, args []string) (lessons.Collection, error) {
	if len(args) == 1 {
		list, err := lessons.LoadDir(args[0])
		if err != nil {
			return lessons.Collection{}, err
		}
		return lessons.Collection{Lessons: list, Source: lessons.SourceDir}, nil
	}
	return a.resolver().Local()
}

func runLessonsValidateCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background(), cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	collection, err := localLessons(a, args)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}
	problems := lessons.Validate(collection.Lessons)
	if len(problems) == 0 {
		logErrf("%d lessons from %s look good\n", len(collection.Lessons), collection.Source)
		return nil
	}
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.String())
	}
	if err := writeOut(cmd.OutOrStdout(), lines...); err != nil {
		return err
	}
	return fmt.Errorf("found %d problem(s)", len(problems))
}

func runLessonsConvertCmd(cmd *cobra.Command, args []string) error {
	report, err := lessons.ConvertDir(args[0])
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(report.Converted)+len(report.Skipped)+1)
	for _, path := range report.Converted {
		lines = append(lines, "converted "+path)
	}
	for _, path := range report.Skipped {
		lines = append(lines, "skipped   "+path)
	}
	lines = append(lines, fmt.Sprintf("%d converted, %d already multilingual", len(report.Converted), len(report.Skipped)))
	return writeOut(cmd.OutOrStdout(), lines...)
}

func runLessonsPushCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	if a.remote == nil {
		return fmt.Errorf("remote store is not configured; set remote.project-id or %s", config.EnvProjectID)
	}
	collection, err := localLessons(a, args)
	if err != nil {
		return fmt.Errorf("failed to load lessons: %w", err)
	}
	if problems := lessons.Validate(collection.Lessons); len(problems) > 0 {
		return fmt.Errorf("refusing to push invalid lessons: %s", joinProblems(problems))
	}
	report := lessons.Push(ctx, a.remote, collection.Lessons, a.logger)
	logErrf("Pushed %d lessons, %d failed\n", report.Pushed, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("failed to push %d lesson(s)", report.Failed)
	}
	return nil
}

func joinProblems(problems []lessons.Problem) string {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}
