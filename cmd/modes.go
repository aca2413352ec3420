package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftl/desstv/config"
	"github.com/ftl/desstv/sstv"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "list the supported SSTV modes",
	Run:   runWithCtx(runModes),
}

func init() {
	rootCmd.AddCommand(modesCmd)
}

func runModes(_ context.Context, cfg config.Config, cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-3s  %-5s %-16s %-7s %-6s %-9s %s\n", "VIS", "SHORT", "NAME", "SIZE", "COLOR", "LINE", "DURATION")
	for _, mode := range sstv.Modes() {
		duration := time.Duration(float64(mode.Lines) * mode.LineTime * float64(time.Second)).Round(time.Second)
		fmt.Fprintf(out, "%3d  %-5s %-16s %-7s %-6s %-9s %s\n",
			mode.VIS,
			mode.ShortName,
			mode.Name,
			fmt.Sprintf("%dx%d", mode.Width, mode.Lines),
			mode.Color,
			fmt.Sprintf("%.3fms", mode.LineTime*1000),
			duration,
		)
		if factor := cfg.Tuning.WindowFactor(mode); factor != mode.WindowFactor {
			fmt.Fprintf(out, "     window factor %.2f (default %.2f)\n", factor, mode.WindowFactor)
		}
	}
}
