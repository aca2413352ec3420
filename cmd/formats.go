package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ftl/desstv/audio"
	"github.com/ftl/desstv/config"
	"github.com/ftl/desstv/imagefile"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "list the supported audio and image file formats",
	Run:   runWithCtx(runFormats),
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(_ context.Context, _ config.Config, cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "audio: %s\n", strings.Join(audio.Formats(), " "))
	fmt.Fprintf(out, "image: %s\n", strings.Join(imagefile.Formats(), " "))
}
