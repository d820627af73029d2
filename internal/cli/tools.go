package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/planweave/planweave/pkg/planning"
	"github.com/planweave/planweave/pkg/tool"
)

var toolsJSON bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered planning tools",
	Long: `List every tool the planning registry exposes to the model,
in registration order. With --json the full function-calling schemas
are printed instead.`,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print function-calling schemas as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	registry := tool.NewRegistry()
	if err := planning.RegisterPlanningTools(registry); err != nil {
		return fmt.Errorf("failed to register planning tools: %w", err)
	}

	if toolsJSON {
		data, err := json.MarshalIndent(registry.ExportSchemas(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render schemas: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tPARAMS\tDESCRIPTION")
	for _, desc := range registry.List("") {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", desc.Name, desc.Category, len(desc.Parameters), desc.Description)
	}
	return w.Flush()
}
