package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Task listing styles.
var (
	taskNameStyle = lipgloss.NewStyle().Bold(true)
	taskMetaStyle = lipgloss.NewStyle().Faint(true)
)

var tasksCmd = &cobra.Command{
	Use:   "tasks [keyword]",
	Short: "List registered training tasks",
	Long: `Lists the metadata records of registered training tasks, the way the
host's plugin registry presents them. An optional keyword filters by
name, description and keyword tags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

//nolint:gochecknoinits // Cobra command registration
func init() {
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	if taskRegistry == nil {
		return errors.New("task registry not configured")
	}

	infos := taskRegistry.List()
	if len(args) > 0 {
		infos = taskRegistry.Search(args[0])
	}

	if len(infos) == 0 {
		cmd.Println("No matching tasks.")
		return nil
	}

	for _, info := range infos {
		cmd.Println(taskNameStyle.Render(info.Name) + "  " + taskMetaStyle.Render("v"+info.Version))
		cmd.Printf("  %s\n", info.ShortDescription)
		cmd.Printf("  %s\n", taskMetaStyle.Render(
			info.License+" · "+strings.Join(info.Keywords, ", ")))
		if info.DocumentationLink != "" {
			cmd.Printf("  %s\n", taskMetaStyle.Render(info.DocumentationLink))
		}
		cmd.Println()
	}
	return nil
}
