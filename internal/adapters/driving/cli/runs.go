package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
)

// Run table styles.
var (
	runHeaderStyle    = lipgloss.NewStyle().Bold(true)
	runCompletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	runFailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	runRunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded training runs",
	RunE:  runRuns,
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run store not configured")
	}

	runs, err := runStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No training runs recorded yet.")
		return nil
	}

	width := terminalWidth()

	cmd.Println(runHeaderStyle.Render(fmt.Sprintf(
		"%-36s  %-10s  %-8s  %-19s  %-9s  %s",
		"ID", "STATE", "DEVICE", "STARTED", "DURATION", "OUTPUT")))

	for _, run := range runs {
		line := fmt.Sprintf("%-36s  %-10s  %-8s  %-19s  %-9s  %s",
			run.ID,
			styleState(run.State),
			run.Device,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run),
			run.OutputDir)
		cmd.Println(truncate(line, width))
	}
	return nil
}

// styleState renders a run state with its colour.
func styleState(state domain.RunState) string {
	s := string(state)
	switch state {
	case domain.RunStateCompleted:
		return runCompletedStyle.Render(s)
	case domain.RunStateFailed:
		return runFailedStyle.Render(s)
	case domain.RunStateRunning:
		return runRunningStyle.Render(s)
	case domain.RunStateIdle:
		return s
	default:
		return s
	}
}

// terminalWidth returns the terminal width, or 0 when stdout is not a
// terminal (no truncation then).
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncate cuts a line to the terminal width.
func truncate(line string, width int) string {
	if width <= 3 || len(line) <= width {
		return line
	}
	return line[:width-3] + "..."
}

// runDuration renders how long a run took; in-flight runs show elapsed time.
func runDuration(run domain.TrainingRun) time.Duration {
	if run.EndedAt.IsZero() {
		return time.Since(run.StartedAt).Round(time.Second)
	}
	return run.EndedAt.Sub(run.StartedAt).Round(time.Second)
}
