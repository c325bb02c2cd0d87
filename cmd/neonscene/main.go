package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/export"
	"github.com/san-kum/neonscene/internal/fog"
	"github.com/san-kum/neonscene/internal/logging"
	"github.com/san-kum/neonscene/internal/placement"
	"github.com/san-kum/neonscene/internal/scenario"
	"github.com/san-kum/neonscene/internal/scene"
	"github.com/san-kum/neonscene/internal/stream"
	"github.com/san-kum/neonscene/internal/viz"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string
	seed       int64
	compact    bool
	elements   int
	particles  int
	frameRate  float64
	duration   float64
	fogInt     float64
	fogSpeed   float64
	vortex     float64
	label      string

	outDir    string
	energySVG string
	seeds     int
	width     int
	height    int
	frameAt   float64
	addr      string
	menu      bool
	theme     string

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "neonscene",
		Short:         "interactive neon scene engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPreview,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".neonscene", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	sceneFlags(rootCmd)
	rootCmd.Flags().BoolVar(&menu, "menu", false, "pick a preset before previewing")
	rootCmd.Flags().StringVar(&theme, "theme", "neon", fmt.Sprintf("preview theme %v", viz.ThemeNames()))

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "live terminal preview",
		RunE:  runPreview,
	}
	sceneFlags(previewCmd)
	previewCmd.Flags().BoolVar(&menu, "menu", false, "pick a preset before previewing")
	previewCmd.Flags().StringVar(&theme, "theme", "neon", fmt.Sprintf("preview theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "step the scene offline and print a summary",
		RunE:  runOffline,
	}
	sceneFlags(runCmd)
	runCmd.Flags().StringVar(&outDir, "out", "", "save the run under this data directory")
	runCmd.Flags().StringVar(&energySVG, "energy-svg", "", "write the kinetic energy series as SVG")
	runCmd.Flags().IntVar(&seeds, "seeds", 1, "run an ensemble over this many consecutive seeds")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot saved run statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "print an element layout",
		RunE:  runPlace,
	}
	sceneFlags(placeCmd)

	noiseCmd := &cobra.Command{
		Use:   "noise",
		Short: "plot fog layer opacity over time",
		RunE:  runNoise,
	}
	sceneFlags(noiseCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [path]",
		Short: "record frames to JSON (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	sceneFlags(exportJSONCmd)

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [path]",
		Short: "render one frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	sceneFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&width, "width", 1280, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 720, "image height")
	exportSVGCmd.Flags().Float64Var(&frameAt, "at", 2.0, "scene time of the frame in seconds")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames to websocket clients",
		RunE:  runServe,
	}
	sceneFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultStreamAddr, "listen address")

	playCmd := &cobra.Command{
		Use:   "play [scenario.yaml]",
		Short: "play a scripted scenario headlessly",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	sceneFlags(playCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one tunable and compare runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(previewCmd, runCmd, runsCmd, plotCmd, placeCmd, noiseCmd, exportJSONCmd, exportSVGCmd, serveCmd, playCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.BoolVar(&compact, "compact", false, "compact layout")
	f.IntVar(&elements, "elements", config.AutoCount, "element count (-1 for the layout default)")
	f.IntVar(&particles, "particles", config.AutoCount, "particle count (-1 for the layout default)")
	f.Float64Var(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	f.Float64Var(&fogInt, "fog", config.DefaultFogIntensity, "fog intensity")
	f.Float64Var(&fogSpeed, "fog-speed", config.DefaultFogSpeed, "fog speed")
	f.Float64Var(&vortex, "vortex", 0, "vortex strength")
	f.StringVar(&label, "label", config.DefaultLabel, "label text")
}

// loadConfig resolves the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("compact") {
		cfg.Compact = compact
	}
	if f.Changed("elements") {
		cfg.Elements = elements
	}
	if f.Changed("particles") {
		cfg.Particles = particles
	}
	if f.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("fog") {
		cfg.FogIntensity = fogInt
	}
	if f.Changed("fog-speed") {
		cfg.FogSpeed = fogSpeed
	}
	if f.Changed("vortex") {
		cfg.VortexStrength = vortex
	}
	if f.Changed("label") {
		cfg.Label = label
	}
	if f.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Int63()
	}
	return cfg, cfg.Validate()
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the preview owns the terminal, keep log output out of it
	if menu {
		return viz.RunMenu(cfg.Seed, theme, logging.Nop())
	}

	sc, err := engine.New(cfg, nil, logging.Nop())
	if err != nil {
		return err
	}
	defer sc.Close()
	return viz.Run(sc, theme)
}

func frameCount(cfg *config.Config) int {
	return max(int(math.Round(cfg.Duration*cfg.FrameRate)), 1)
}

func runOffline(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if seeds > 1 {
		return runEnsemble(cfg, log)
	}

	sc, err := engine.New(cfg, nil, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	n := frameCount(cfg)
	rows := make([]export.StatRow, 0, n)
	energy := make([]float64, 0, n)
	var last *engine.Frame

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sc.Run(ctx, n, func(f *engine.Frame) error {
		rows = append(rows, export.StatRow{Time: f.Time, Stats: f.Stats})
		energy = append(energy, f.Stats.KineticEnergy)
		last = f
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if last == nil {
		return fmt.Errorf("no frames produced")
	}

	m := sc.Metrics()
	digest := strconv.FormatUint(last.Digest(), 16)
	layout := sc.Layout()

	fmt.Printf("seed:      %d\n", cfg.Seed)
	fmt.Printf("frames:    %d (%.2fs at %.0f fps)\n", len(rows), last.Time, cfg.FrameRate)
	fmt.Printf("elements:  %d/%d placed in %d attempts\n", len(layout.Elements), layout.Requested, layout.Attempts)
	fmt.Printf("particles: %d\n", len(last.Particles))
	fmt.Printf("digest:    %s\n\n", digest)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, m[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if energySVG != "" {
		svg := export.SeriesToSVG(energy, 800, 240, "#00ffff")
		if err := os.WriteFile(energySVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nenergy plot: %s\n", energySVG)
	}

	if outDir != "" {
		st := export.NewStore(outDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(export.RunMetadata{
			Seed:      cfg.Seed,
			FrameRate: cfg.FrameRate,
			Frames:    len(rows),
			Elements:  len(layout.Elements),
			Particles: len(last.Particles),
			Digest:    digest,
			Metrics:   m,
		}, rows)
		if err != nil {
			return err
		}
		log.Info("run saved", zap.String("id", id), zap.String("dir", outDir))
		fmt.Printf("\nrun saved: %s\n", id)
	}
	return nil
}

func runEnsemble(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := engine.NewEnsemble(*cfg, seeds, cfg.Seed, log).Run(ctx, frameCount(cfg))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tDIGEST\tKINETIC\tFOG\tRECYCLE/S\tSETTLED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%016x\t%.4g\t%.4f\t%.1f\t%.2f\n",
			r.Seed,
			r.Frames,
			r.Digest,
			r.Metrics["kinetic_energy"],
			r.Metrics["fog_alpha"],
			r.Metrics["recycle_rate"],
			r.Metrics["settled"],
		)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	sc, err := engine.New(cfg, nil, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	res, err := scenario.Play(cmd.Context(), sc, s, log)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", s.Name)
	if s.Description != "" {
		fmt.Printf("          %s\n", s.Description)
	}
	fmt.Printf("frames:   %d\n", res.Frames)
	fmt.Printf("events:   %d (%d hits)\n", res.Events, res.Hits)
	fmt.Printf("digest:   %016x\n", res.Digest)
	for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
		fmt.Printf("%-16s %.6g\n", name, res.Metrics[name])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pts, err := scenario.RunSweep(cmd.Context(), *cfg, scenario.Sweep{
		Param:  args[0],
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: frameCount(cfg),
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK KE\tMEAN FOG\tSETTLED\tDIGEST\n", strings.ToUpper(args[0]))
	peaks := make([]float64, len(pts))
	for i, p := range pts {
		peaks[i] = p.Peak
		fmt.Fprintf(w, "%.3f\t%.4g\t%.4f\t%.2f\t%016x\n", p.Value, p.Peak, p.Metrics["fog_alpha"], p.Metrics["settled"], p.Digest)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(peaks, asciigraph.Height(8), asciigraph.Caption("peak kinetic energy per value")))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := export.NewStore(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tFRAMES\tFPS\tELEMENTS\tPARTICLES\tDIGEST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Frames,
			run.FrameRate,
			run.Elements,
			run.Particles,
			run.Digest,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := export.NewStore(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("samples: %d\n\n", len(rows))

	series := []struct {
		caption string
		value   func(engine.Stats) float64
	}{
		{"kinetic energy", func(s engine.Stats) float64 { return s.KineticEnergy }},
		{"fog alpha", func(s engine.Stats) float64 { return s.FogAlpha }},
		{"recycled particles", func(s engine.Stats) float64 { return float64(s.Recycled) }},
	}
	for _, s := range series {
		data := make([]float64, len(rows))
		for i, r := range rows {
			data[i] = s.value(r.Stats)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pc := cfg.Placement
	params := placement.DefaultParams()
	params.MaxAttempts = pc.MaxAttempts
	params.MarginFactor = pc.MarginFactor
	res := placement.New(params, rand.New(rand.NewSource(cfg.Seed))).
		Place(cfg.ElementCount(), pc.BoundsX, pc.BoundsY, pc.ForegroundProbability, pc.Exclusion)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBAND\tX\tY\tZ\tRADIUS\tHUE")
	for _, e := range res.Elements {
		fmt.Fprintf(w, "%d\t%s\t%+.3f\t%+.3f\t%+.3f\t%.3f\t%.1f\n",
			e.ID, e.Band, e.Base.X, e.Base.Y, e.Base.Z, e.Radius, e.Hue)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nplaced %d/%d in %d attempts (seed %d)\n", len(res.Elements), res.Requested, res.Attempts, cfg.Seed)
	if s := res.Shortfall(); s > 0 {
		fmt.Printf("shortfall: %d\n", s)
	}
	if i, j, ok := placement.Verify(res.Elements, pc.MarginFactor, pc.Exclusion); !ok {
		return fmt.Errorf("layout violates spacing between elements %d and %d", i, j)
	}
	return nil
}

func runNoise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	n := min(frameCount(cfg), 2000)
	dt := cfg.Duration / float64(n)
	center := scene.Vec2{X: 0.5, Y: 0.5}

	for i, l := range fog.DefaultLayers() {
		data := make([]float64, n)
		for k := range data {
			s := fog.Evaluate(l, float64(k)*dt, cfg.FogSpeed, cfg.FogIntensity, scene.Pointer{}, center)
			data[k] = s.Alpha
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("layer %d alpha at center (depth %.1f)", i, l.Depth)),
		))
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sc, err := engine.New(cfg, nil, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	n := frameCount(cfg)
	frames := make([]*engine.Frame, 0, n)
	if err := sc.Run(cmd.Context(), n, func(f *engine.Frame) error {
		frames = append(frames, f.Clone())
		return nil
	}); err != nil {
		return err
	}

	if err := export.ExportJSON(args[0], export.NewRecording(*cfg, frames, sc.Metrics())); err != nil {
		return err
	}
	if args[0] != "-" {
		fmt.Printf("exported %d frames to %s\n", len(frames), args[0])
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}

	sc, err := engine.New(cfg, nil, log)
	if err != nil {
		return err
	}
	defer sc.Close()
	sc.SetViewport(float64(width), float64(height))

	n := max(int(math.Round(frameAt*cfg.FrameRate)), 0) + 1
	var last *engine.Frame
	if err := sc.Run(cmd.Context(), n, func(f *engine.Frame) error {
		last = f
		return nil
	}); err != nil {
		return err
	}

	cam := scene.DefaultCamera(cfg.Compact, float64(width)/float64(height))
	svg := export.FrameToSVG(last, cam, width, height)
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("frame %d (t=%.2fs) written to %s\n", last.Index, last.Time, args[0])
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("addr") || cfg.Stream.Addr == "" {
		cfg.Stream.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stream.NewServer(*cfg, log)
	log.Info("serving", zap.String("addr", cfg.Stream.Addr))
	return srv.ListenAndServe(ctx, cfg.Stream.Addr)
}
