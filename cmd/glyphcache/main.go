// Command glyphcache shapes text files and reports how the sprite position
// and glyph properties caches behave on them.
//
// Usage:
//
//	glyphcache stats [--font file.ttf] [--config glyphcache.toml] [--jobs N] [file...]
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gogpu/glyphcache"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "glyphcache",
		Short:        "Glyph sprite cache diagnostics",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				glyphcache.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log cache activity to stderr")

	root.AddCommand(newStatsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// useColor resolves the --color flag; auto colors only a terminal stdout.
func useColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
