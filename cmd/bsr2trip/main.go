// Package main is the entry point for the bsr2trip CLI
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bsr2trip/internal/beatsaver"
	"bsr2trip/internal/history"
	"bsr2trip/internal/install"
	"bsr2trip/pkg/api"
	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
	"bsr2trip/pkg/converter"
	"bsr2trip/pkg/preview"
	"bsr2trip/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile  string
	choreoIndex int
	historyN    int
	serverPort  int
)

func main() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("BSR2TRIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "bsr2trip",
	Short: "Convert Beat Saber maps to Audio Trip choreographies",
	Long: `bsr2trip converts Beat Saber beatmaps into Audio Trip .ats
choreographies, either from a BeatSaver BSR code or a local map folder.

Notes become gems, timed by the map's tempo and placed by a scaled
lane/layer grid. Event kinds without a settled destination mapping
(bombs, walls, chains, arcs) are reported rather than guessed.

Examples:
  bsr2trip convert 4d2be
  bsr2trip convert ./maps/alice --strict
  bsr2trip preview "song.ats" -o song.mid
  bsr2trip history
  bsr2trip tui
  bsr2trip serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <bsr-code|map-dir>",
	Short: "Convert a map and install it into the songs folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var previewCmd = &cobra.Command{
	Use:   "preview <input.ats>",
	Short: "Render a converted choreography as a MIDI click track",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversions",
	RunE:  runHistory,
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
	pf := rootCmd.PersistentFlags()
	pf.String("output-dir", install.DefaultSongsDir(), "Audio Trip songs folder")
	pf.Bool("strict", false, "fail on unsupported event kinds instead of dropping them")
	pf.Int("lane-count", converter.DefaultLaneCount, "source lane count")
	pf.Int("spawn-ahead", converter.DefaultSpawnAheadBeats, "spawn-ahead time in beats")
	pf.Float64("gem-speed", 0, "gem speed override (0 derives it from the map's note jump speed)")
	pf.Float64("njs-multiplier", converter.DefaultNJSMultiplier, "note jump speed multiplier for derived gem speed")
	pf.Float64("x-range", converter.DefaultXRange, "horizontal placement range")
	pf.Float64("y-range", converter.DefaultYRange, "vertical placement range")
	pf.Float64("y-min", converter.DefaultYMin, "bottom layer clearance")
	pf.Float64("x-wobble", converter.DefaultWobbleFactor, "horizontal placement jitter factor")
	pf.Float64("y-wobble", converter.DefaultWobbleFactor, "vertical placement jitter factor")
	pf.Bool("arrows-as-directionals", false, "emit directional gems for arrowed notes")
	_ = viper.BindPFlags(pf)

	previewCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output .mid file path")
	previewCmd.Flags().IntVar(&choreoIndex, "choreo", 0, "choreography index to render")

	historyCmd.Flags().IntVarP(&historyN, "limit", "n", 20, "number of entries to show")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func optionsFromFlags() converter.Options {
	opts := converter.DefaultOptions()
	opts.Strict = viper.GetBool("strict")
	opts.LaneCount = viper.GetInt("lane-count")
	opts.SpawnAheadBeats = viper.GetInt("spawn-ahead")
	opts.GemSpeed = viper.GetFloat64("gem-speed")
	opts.NJSMultiplier = viper.GetFloat64("njs-multiplier")
	opts.XRange = viper.GetFloat64("x-range")
	opts.YRange = viper.GetFloat64("y-range")
	opts.YMin = viper.GetFloat64("y-min")
	opts.XWobbleFactor = viper.GetFloat64("x-wobble")
	opts.YWobbleFactor = viper.GetFloat64("y-wobble")
	opts.ArrowsAsDirectional = viper.GetBool("arrows-as-directionals")
	return opts
}

// loadLevel treats the argument as a local map folder when it exists,
// otherwise as a BSR code to fetch from BeatSaver.
func loadLevel(ctx context.Context, arg string) (*beatsaber.Level, string, error) {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		lvl, err := beatsaber.Load(arg)
		return lvl, "local", err
	}

	client := beatsaver.New()
	detail, err := client.MapDetail(ctx, arg)
	if err != nil {
		return nil, "", err
	}
	fmt.Printf("Found %q on BeatSaver\n", detail.Name)

	workDir, err := os.MkdirTemp("", "bsr2trip-")
	if err != nil {
		return nil, "", err
	}
	mapDir, hash, err := client.Download(ctx, detail, workDir)
	if err != nil {
		return nil, "", err
	}
	lvl, err := beatsaber.Load(mapDir)
	if err != nil {
		return nil, "", err
	}
	lvl.Hash = hash
	return lvl, detail.ID, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	lvl, code, err := loadLevel(ctx, args[0])
	if err != nil {
		return err
	}

	conv, err := converter.New(optionsFromFlags())
	if err != nil {
		return err
	}

	fmt.Printf("Converting %q by %s (%d difficulties)\n",
		lvl.Info.SongName, lvl.Info.SongAuthorName, len(lvl.Difficulties))
	doc, report, err := conv.ConvertLevel(lvl)
	if err != nil {
		printReport(report)
		return err
	}

	result, err := install.Install(doc, lvl, viper.GetString("output-dir"))
	if err != nil {
		return err
	}

	printReport(report)
	fmt.Printf("Installed %s\n", result.ATSPath)

	recordHistory(ctx, code, lvl, report)
	return nil
}

// recordHistory logs the run; a broken history database never fails a
// successful conversion.
func recordHistory(ctx context.Context, code string, lvl *beatsaber.Level, report *converter.Report) {
	store, err := history.Open(configDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer func() { _ = store.Close() }()

	err = store.Insert(ctx, history.Entry{
		Code:         code,
		Title:        lvl.Info.SongName,
		Artist:       lvl.Info.SongAuthorName,
		Mapper:       lvl.Info.LevelAuthorName,
		Difficulties: len(lvl.Difficulties),
		Converted:    report.TotalConverted(),
		Dropped:      report.TotalDropped(),
		Failed:       report.TotalFailed(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record history: %v\n", err)
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return home + "/.bsr2trip"
}

func printReport(report *converter.Report) {
	if report == nil {
		return
	}

	kinds := make([]converter.SourceKind, 0, len(report.Counts))
	for k := range report.Counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Kind", "Converted", "Dropped", "Failed"})
	for _, k := range kinds {
		t := report.Counts[k]
		tw.AppendRow(table.Row{k.String(), t.Converted, t.Dropped, t.Failed})
	}
	tw.AppendFooter(table.Row{"total", report.TotalConverted(), report.TotalDropped(), report.TotalFailed()})
	tw.Render()

	for _, sk := range report.Skipped {
		fmt.Printf("  skipped %s\n", sk)
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	input := args[0]
	doc, err := audiotrip.ReadFile(input)
	if err != nil {
		return err
	}

	output := outputFile
	if output == "" {
		output = strings.TrimSuffix(input, ".ats") + ".mid"
	}

	gen := preview.NewGenerator()
	if err := gen.WriteFile(doc, choreoIndex, output); err != nil {
		return err
	}

	fmt.Printf("Rendered %s -> %s\n", input, output)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(configDir())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(cmd.Context(), historyN)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No conversions recorded yet")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"When", "Code", "Title", "Artist", "Diffs", "Converted", "Dropped", "Failed"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.CreatedAt.Format("2006-01-02 15:04"), e.Code, e.Title, e.Artist,
			e.Difficulties, e.Converted, e.Dropped, e.Failed,
		})
	}
	tw.Render()
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(viper.GetString("output-dir"))
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
