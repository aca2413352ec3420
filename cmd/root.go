package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ftl/desstv/config"
)

var (
	version   string = "develop"
	gitCommit string = "-"
	buildTime string = "-"
)

var rootFlags = struct {
	pprof  bool
	debug  bool
	config string
}{}

var rootCmd = &cobra.Command{
	Use:   "desstv",
	Short: "desstv - decode SSTV images from recorded audio",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootFlags.pprof, "pprof", false, "enable pprof")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootFlags.config, "config", "", "the YAML configuration file")

	rootCmd.PersistentFlags().MarkHidden("pprof")
}

func runWithCtx(f func(ctx context.Context, cfg config.Config, cmd *cobra.Command, args []string)) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if !rootFlags.debug {
			log.SetOutput(&nopWriter{})
		}

		log.Printf("desstv Version %s", formatVersion())

		if rootFlags.pprof {
			go func() {
				log.Printf("starting pprof on http://localhost:6060/debug/pprof")
				log.Println(http.ListenAndServe("localhost:6060", nil))
			}()
		}

		cfg, err := config.Load(rootFlags.config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot load the configuration: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
		go handleCancelation(signals, cancel)

		f(ctx, cfg, cmd, args)
	}
}

func formatVersion() string {
	if gitCommit == "-" && buildTime == "-" {
		return version
	}
	return fmt.Sprintf("%s_%s_%s", version, gitCommit, buildTime)
}

func handleCancelation(signals <-chan os.Signal, cancel context.CancelFunc) {
	count := 0
	for range signals {
		count++
		if count == 1 {
			cancel()
		} else {
			log.Fatal("hard shutdown")
		}
	}
}

type nopWriter struct{}

func (w *nopWriter) Write(p []byte) (n int, err error) { return len(p), nil }
