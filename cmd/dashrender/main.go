// Command dashrender renders the dashboard chart bootstrap and spreadsheet
// export from a JSON file of page data globals, without a running server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go-inventory-dashboard/internal/dashboard"
	"go-inventory-dashboard/internal/export"
)

var (
	dataPath   string
	layoutName string
	outputPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dashrender",
		Short: "Render inventory dashboard charts from a data file",
		Long: `dashrender reads a JSON object of page data globals, for example
{"barChartData": {"labels": ["A", "B"], "data": [10, 20]}},
and renders the chart bootstrap script or a spreadsheet export.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "JSON file with page data globals (required)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	_ = rootCmd.MarkPersistentFlagRequired("data")

	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Print the page globals and chart bootstrap script",
		Args:  cobra.NoArgs,
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVarP(&layoutName, "layout", "l", dashboard.DashboardLayout.Name, "Page layout: dashboard, vendor, supplier")

	xlsxCmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the data sets to a spreadsheet with one chart per sheet",
		Args:  cobra.NoArgs,
		RunE:  runXLSX,
	}

	rootCmd.AddCommand(scriptCmd, xlsxCmd)
	return rootCmd
}

func runScript(cmd *cobra.Command, _ []string) error {
	layout, ok := dashboard.LayoutByName(layoutName)
	if !ok {
		return fmt.Errorf("unknown layout: %s", layoutName)
	}
	data, err := readDataSets(dataPath)
	if err != nil {
		return err
	}

	renderer := dashboard.NewRenderer(dashboard.DefaultTheme())
	builder := dashboard.NewScriptBuilder(renderer.Slots())
	result := renderer.Render(layout.MountSet(), data, builder)

	globals, err := dashboard.Globals(data)
	if err != nil {
		return err
	}
	script, err := builder.Script()
	if err != nil {
		return err
	}

	return withOutput(cmd, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "<script>\n%s</script>\n<script>\n%s</script>\n", globals, script)
		if err == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "built=%v skipped=%v\n", result.Built, result.Skipped)
		}
		return err
	})
}

func runXLSX(cmd *cobra.Command, _ []string) error {
	data, err := readDataSets(dataPath)
	if err != nil {
		return err
	}
	return withOutput(cmd, func(w io.Writer) error {
		exported, err := export.WriteWorkbook(w, data, dashboard.DefaultSlots())
		if err == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "exported=%v\n", exported)
		}
		return err
	})
}

func readDataSets(path string) (dashboard.DataSets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	data := dashboard.DataSets{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return data, nil
}

func withOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	if outputPath == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
