// Package cmd wires the neuroglow CLI.
package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neuroglow/neuroglow/config"
)

var version = "0.3.0"

var (
	themeFlag   string
	widthFlag   int
	heightFlag  int
	tuningFlag  string
	verboseFlag bool
)

var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	subtle = color.New(color.FgHiBlack)
)

var rootCmd = &cobra.Command{
	Use:     "neuroglow",
	Short:   "Organic neural-network background animation",
	Long:    "Procedurally generates and animates an organic neural-network graph:\nnodes, curved edges, traveling particles and pulses.",
	Version: version,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("neuroglow {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "dark", "color theme (dark or light)")
	rootCmd.PersistentFlags().IntVar(&widthFlag, "width", 1280, "surface width in pixels")
	rootCmd.PersistentFlags().IntVar(&heightFlag, "height", 720, "surface height in pixels")
	rootCmd.PersistentFlags().StringVar(&tuningFlag, "tuning", "", "optional TOML tuning overrides file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		viewCmd(),
		topoCmd(),
	)
}

// setup resolves the shared flags into a theme and optional overrides.
func setup() (config.Theme, *config.Overrides, error) {
	theme, err := config.ParseTheme(themeFlag)
	if err != nil {
		return "", nil, err
	}
	overrides, err := config.LoadOverrides(tuningFlag)
	if err != nil {
		return "", nil, err
	}
	return theme, overrides, nil
}

func buildLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: verboseFlag,
		Level:     level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))
}

func fail(err error) error {
	bad.Fprintf(os.Stderr, "neuroglow: %v\n", err)
	return err
}

func okf(format string, args ...any) {
	good.Fprintf(os.Stdout, format+"\n", args...)
}

func notef(format string, args ...any) {
	subtle.Fprintf(os.Stdout, format+"\n", args...)
}
