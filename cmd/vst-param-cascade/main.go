// Package main is the entry point for the vst-param-cascade CLI
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikePehel/vst-param-cascade/pkg/api"
	"github.com/MikePehel/vst-param-cascade/pkg/host"
	"github.com/MikePehel/vst-param-cascade/pkg/render"
	"github.com/MikePehel/vst-param-cascade/pkg/sweep"
	"github.com/MikePehel/vst-param-cascade/pkg/tui"
	"github.com/MikePehel/vst-param-cascade/pkg/vst"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	debugLog   bool
	pluginPath string
	sampleRate int
	duration   float64
	noteMin    int
	noteMax    int
	ccSpecs    []string
	ccValues   string
	outputDir  string
	showEditor bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vst-param-cascade",
	Short: "Batch-render audio from a plugin across MIDI note and CC sweeps",
	Long: `vst-param-cascade renders one audio file per combination of MIDI note,
CC number and CC value, sweeping an instrument plugin's parameter space.

Output files are named {note}_cc{number}_{label}_{value}.wav and written
in a fixed order: notes ascending, CC mappings in given order, CC values
in given order.

Examples:
  vst-param-cascade run --plugin synth.vst3 --cc 1:mod --values 0,64,127
  vst-param-cascade run --plugin synth.so --rate 48000 --duration 1 --note-min 36 --note-max 96 --cc 74:cutoff --values 0,32,64,96,127 -o sweeps
  vst-param-cascade plugins /usr/lib/vst3
  vst-param-cascade tui
  vst-param-cascade serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debugLog)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch render sweep",
	RunE:  runSweep,
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins [dir]",
	Short: "List plugin binaries under a directory",
	Long:  `Recursively scans a directory for plugin binaries, resolving .vst3 bundle directories to the binary inside. Scans the platform default plugin directory when no argument is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlugins,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")

	runCmd.Flags().StringVarP(&pluginPath, "plugin", "p", "", "Plugin binary or bundle path (required)")
	runCmd.Flags().IntVarP(&sampleRate, "rate", "r", 44100, "Sample rate in Hz")
	runCmd.Flags().Float64VarP(&duration, "duration", "d", 0.5, "Note and render duration in seconds")
	runCmd.Flags().IntVar(&noteMin, "note-min", 42, "First MIDI note of the sweep")
	runCmd.Flags().IntVar(&noteMax, "note-max", 90, "Last MIDI note of the sweep (inclusive)")
	runCmd.Flags().StringArrayVar(&ccSpecs, "cc", nil, "CC mapping as number:label, repeatable (required)")
	runCmd.Flags().StringVar(&ccValues, "values", "", "Comma-separated CC values (required)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "Output directory")
	runCmd.Flags().BoolVar(&showEditor, "show-editor", false, "Open the plugin editor before rendering")
	_ = runCmd.MarkFlagRequired("plugin")
	_ = runCmd.MarkFlagRequired("cc")
	_ = runCmd.MarkFlagRequired("values")

	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// initLogger installs a text handler as the process logger; debug mode
// lowers the level and adds source locations.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func runSweep(cmd *cobra.Command, args []string) error {
	mappings, err := sweep.ParseCCMappings(ccSpecs)
	if err != nil {
		return err
	}
	values, err := sweep.ParseCCValues(ccValues)
	if err != nil {
		return err
	}

	cfg := sweep.Config{
		SampleRate: sampleRate,
		Duration:   duration,
		NoteMin:    noteMin,
		NoteMax:    noteMax,
		OutputDir:  outputDir,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := sweep.ValidateMappings(mappings, values); err != nil {
		return err
	}

	path := pluginPath
	if resolved := vst.ResolveBundle(path); resolved != "" {
		path = resolved
	}

	r := render.New(host.Default())
	if err := r.Load(path); err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if showEditor {
		if err := r.ShowEditor(); err != nil {
			return err
		}
	}

	jobs := sweep.New(cfg.NoteMin, cfg.NoteMax, mappings, values).Len()
	fmt.Printf("Rendering %d files to %s\n", jobs, cfg.OutputDir)

	if err := r.Run(cfg, mappings, values); err != nil {
		return err
	}

	fmt.Println("Batch render complete!")
	return nil
}

func runPlugins(cmd *cobra.Command, args []string) error {
	dir := vst.DefaultPluginDir()
	if len(args) == 1 {
		dir = args[0]
	}

	plugins, err := vst.ListPlugins(dir)
	if err != nil {
		return err
	}

	if len(plugins) == 0 {
		fmt.Printf("No plugins found under %s\n", dir)
		return nil
	}
	for _, p := range plugins {
		fmt.Println(p)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(host.Default())
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.NewServer(host.Default()).Start(serverPort)
}
