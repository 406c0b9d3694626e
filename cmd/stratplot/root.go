// cmd/stratplot/root.go
package stratplot

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/stratplot/charts"
	"github.com/mwiater/stratplot/metrics"
	"github.com/mwiater/stratplot/report"
)

// DefaultOutput is the image written when no output path is given.
const DefaultOutput = "comparacion_estrategias.png"

// rootCmd is the command run by Execute.
var rootCmd = newRootCmd()

// newRootCmd builds the root command with its own viper instance so each
// invocation (and each test) starts from the defaults.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetDefault("title", charts.DefaultTitle)
	v.SetDefault("output", DefaultOutput)

	cmd := &cobra.Command{
		Use:   "stratplot <csv_path> [output]",
		Short: "Chart speculative vs sequential timings from a metrics CSV",
		Long: `stratplot reads the metrics CSV written by the speculative-execution benchmark
and renders a PNG with the average duration per strategy, the per-run evolution
and, when both strategies share run ids, the sequential/speculative speedup.

Only rows whose mode is "especulativo" or "secuencial" are used; the first row
seen for each (mode, run) pair wins.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				v.Set("output", args[1])
			}
			return run(cmd, v, args[0])
		},
	}

	cmd.Flags().StringP("title", "t", charts.DefaultTitle, "main title of the figure")
	v.BindPFlag("title", cmd.Flags().Lookup("title"))

	return cmd
}

// run loads the CSV, prints the summary and writes the figure.
func run(cmd *cobra.Command, v *viper.Viper, csvPath string) error {
	ds, err := metrics.Load(csvPath)
	if err != nil {
		return err
	}
	if ds.Empty() {
		return fmt.Errorf("%w: %s", metrics.ErrNoData, csvPath)
	}

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, metrics.Summarize(ds)); err != nil {
		return err
	}

	output := v.GetString("output")
	opts := charts.DefaultOptions()
	opts.Title = v.GetString("title")
	if err := charts.Save(output, ds, opts); err != nil {
		return err
	}

	report.Success(out, output)
	return nil
}

// Execute runs the root command. Any error is printed to stderr and the
// process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		report.Error(os.Stderr, err)
		os.Exit(1)
	}
}
