package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/nlcemu/internal/config"
	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
	"github.com/san-kum/nlcemu/internal/export"
	"github.com/san-kum/nlcemu/internal/optim"
	"github.com/san-kum/nlcemu/internal/storage"
	"github.com/san-kum/nlcemu/internal/viz"
)

var (
	dataFile   string
	configFile string
	runsDir    string
	logLevel   string
	preset     string
	redshifts  []float64
	wavenums   []float64
	workers    int
	paramVals  [cosmo.NumParams]float64
	// compute output
	saveRun  bool
	label    string
	jsonOut  bool
	svgOut   string
	vary     []string
	scanZ    float64
	scanK    float64
	scanMax  bool
	plotW    int
	plotH    int
	stepEach float64
)

var paramFlags = [cosmo.NumParams]string{"omega-b", "omega-m", "sum-mnu", "n-s", "h", "w0", "wa", "as"}

func main() {
	rootCmd := &cobra.Command{
		Use:           "nlcemu",
		Short:         "nonlinear power-spectrum correction emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", config.DefaultDataFile, "coefficient table (overrides $"+config.DataFileEnv+")")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&runsDir, "runs", ".nlcemu", "run store directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "compute the correction matrix",
		RunE:  runCompute,
	}
	addCosmologyFlags(computeCmd)
	computeCmd.Flags().BoolVar(&saveRun, "save", false, "store the result in the run store")
	computeCmd.Flags().StringVar(&label, "label", "", "label for a saved run")
	computeCmd.Flags().BoolVar(&jsonOut, "json", false, "write JSON to stdout instead of a table")
	computeCmd.Flags().StringVar(&svgOut, "svg", "", "also write an SVG plot to this path")

	stepCmd := &cobra.Command{
		Use:   "step [z...]",
		Short: "convert redshifts to step numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStep,
	}
	addCosmologyFlags(stepCmd)

	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "tabulate redshift against step number",
		RunE:  runSteps,
	}
	addCosmologyFlags(stepsCmd)
	stepsCmd.Flags().Float64Var(&stepEach, "every", 10, "step spacing")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot NLC(k) for a stored run or a fresh computation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	addCosmologyFlags(plotCmd)
	plotCmd.Flags().IntVar(&plotW, "width", viz.DefaultPlotWidth, "plot width")
	plotCmd.Flags().IntVar(&plotH, "height", viz.DefaultPlotHeight, "plot height")

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "browse a matrix interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBrowse,
	}
	addCosmologyFlags(browseCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "summarise the coefficient table",
		RunE:  runInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list cosmology presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "find the cosmology on a parameter grid with the smallest (or largest) correction at one point",
		RunE:  runScan,
	}
	addCosmologyFlags(scanCmd)
	scanCmd.Flags().StringArrayVar(&vary, "vary", nil, "parameter grid as name=lo:hi:n, e.g. Omega_m=0.24:0.40:9")
	scanCmd.Flags().Float64Var(&scanZ, "at-z", 0, "redshift of the scored point")
	scanCmd.Flags().Float64Var(&scanK, "at-k", 0.1, "wavenumber of the scored point")
	scanCmd.Flags().BoolVar(&scanMax, "max", false, "look for the largest correction instead")

	rootCmd.AddCommand(computeCmd, stepCmd, stepsCmd, plotCmd, browseCmd, infoCmd, presetsCmd, listCmd, showCmd, scanCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, viz.Error.Render("error:"), err)
		stop()
		os.Exit(1)
	}
}

func addCosmologyFlags(cmd *cobra.Command) {
	fid := cosmo.Fiducial().Vector()
	for i, name := range paramFlags {
		cmd.Flags().Float64Var(&paramVals[i], name, fid[i], cosmo.ParamNames[i])
	}
	cmd.Flags().StringVar(&preset, "preset", "", "cosmology preset")
	cmd.Flags().Float64SliceVarP(&redshifts, "redshifts", "z", config.DefaultRedshifts, "redshifts")
	cmd.Flags().Float64SliceVarP(&wavenums, "wavenumbers", "k", config.DefaultWavenumbers, "wavenumbers")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
}

// setup is the shared prologue of every command: config file, preset and
// flag overrides, then the logger.
type setup struct {
	cfg    *config.Config
	data   string
	logger *slog.Logger
}

func newSetup(cmd *cobra.Command) (*setup, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Lookup("preset") != nil && preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Cosmology = p.Cosmology
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("redshifts") {
		cfg.Redshifts = redshifts
	}
	if flags.Changed("wavenumbers") {
		cfg.Wavenumbers = wavenums
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup(paramFlags[0]) != nil {
		v := cfg.Cosmology.Params().Vector()
		for i, name := range paramFlags {
			if flags.Changed(name) {
				v[i] = paramVals[i]
			}
		}
		cfg.Cosmology = config.FromParams(cosmo.ParamsFromVector(v))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	data := cfg.ResolveDataFile()
	if flags.Changed("data") {
		data = dataFile
	}
	return &setup{cfg: cfg, data: data, logger: logger}, nil
}

func (s *setup) cosmology() (*cosmo.Cosmology, error) {
	return cosmo.New(s.cfg.Cosmology.Params(), s.cfg.CosmologyOptions(s.logger)...)
}

func (s *setup) emulator() (*emulator.Emulator, error) {
	s.logger.Info("loading coefficient table", slog.String("path", s.data))
	t, err := storage.LoadTable(s.data)
	if err != nil {
		return nil, err
	}
	return emulator.New(t, emulator.WithLogger(s.logger), emulator.WithWorkers(s.cfg.Workers))
}

func (s *setup) compute(ctx context.Context) (*emulator.NLCMatrix, error) {
	c, err := s.cosmology()
	if err != nil {
		return nil, err
	}
	e, err := s.emulator()
	if err != nil {
		return nil, err
	}
	return e.ComputeNLC(ctx, c, s.cfg.Redshifts, s.cfg.Wavenumbers)
}

func runCompute(cmd *cobra.Command, args []string) error {
	s, err := newSetup(cmd)
	if err != nil {
		return err
	}
	m, err := s.compute(cmd.Context())
	if err != nil {
		return err
	}

	if saveRun {
		st := storage.New(runsDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(storage.Run{Label: label, DataFile: s.data, Params: s.cfg.Cosmology.Params()}, m)
		if err != nil {
			return err
		}
		s.logger.Info("run saved", slog.String("id", id), slog.String("dir", runsDir))
	}

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.NLCToSVG(m, 800, 500)), 0644); err != nil {
			return err
		}
		s.logger.Info("plot written", slog.String("path", svgOut))
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, s.cfg.Cosmology.Params(), m)
	}
	fmt.Println(viz.ParamsTable(s.cfg.Cosmology.Params()))
	fmt.Println()
	fmt.Println(viz.MatrixTable(m))
	return nil
}

func runStep(cmd *cobra.Command, args []string) error {
	s, err := newSetup(cmd)
	if err != nil {
		return err
	}
	c, err := s.cosmology()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(args))
	for _, arg := range args {
		z, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("redshift %q: %w", arg, err)
		}
		step, err := c.StepNumber(z)
		if err != nil {
			return err
		}
		age, err := c.Age(z)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			fmt.Sprintf("%g", z),
			fmt.Sprintf("%.5f", 1/(1+z)),
			viz.Value.Render(fmt.Sprintf("%.4f", step)),
			fmt.Sprintf("%.4f", age),
		})
	}
	fmt.Println(viz.Table([]string{"z", "a", "step", "age [Gyr]"}, rows))
	return nil
}

func runSteps(cmd *cobra.Command, args []string) error {
	s, err := newSetup(cmd)
	if err != nil {
		return err
	}
	if stepEach <= 0 {
		return fmt.Errorf("--every must be positive, got %g", stepEach)
	}
	c, err := s.cosmology()
	if err != nil {
		return err
	}

	var rows [][]string
	for step := 0.0; step <= cosmo.NSteps; step += stepEach {
		z, err := c.RedshiftAtStep(step)
		if err != nil {
			return err
		}
		rows = append(rows, []string{fmt.Sprintf("%g", step), fmt.Sprintf("%.4f", z)})
	}
	fmt.Println(viz.Table([]string{"step", "z"}, rows))
	return nil
}

// matrixFor loads a stored run when an ID is given and computes otherwise.
func matrixFor(cmd *cobra.Command, args []string) (string, *emulator.NLCMatrix, error) {
	if len(args) == 1 {
		st := storage.New(runsDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return "", nil, err
		}
		m, err := st.LoadMatrix(args[0])
		if err != nil {
			return "", nil, err
		}
		title := "run " + meta.ID
		if meta.Label != "" {
			title += " (" + meta.Label + ")"
		}
		return title, m, nil
	}

	s, err := newSetup(cmd)
	if err != nil {
		return "", nil, err
	}
	m, err := s.compute(cmd.Context())
	if err != nil {
		return "", nil, err
	}
	return s.cfg.Cosmology.Params().String(), m, nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	title, m, err := matrixFor(cmd, args)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(title))
	fmt.Println()
	fmt.Println(viz.PlotNLC(m, plotW, plotH))
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	title, m, err := matrixFor(cmd, args)
	if err != nil {
		return err
	}
	return viz.Browse(title, m)
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := newSetup(cmd)
	if err != nil {
		return err
	}
	e, err := s.emulator()
	if err != nil {
		return err
	}
	lo, hi := e.WavenumberRange()
	fmt.Printf("%s %s\n", viz.Label.Render("table"), s.data)
	fmt.Printf("%s %d in [%g, %g]\n", viz.Label.Render("wavenumbers"), len(e.Table().Wavenumbers), lo, hi)
	fmt.Printf("%s %d (0..%d)\n\n", viz.Label.Render("steps"), emulator.NZ, cosmo.NSteps)
	fmt.Println(viz.InfoTable(e.Info()))
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		p := config.GetPreset(args[0])
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		fmt.Println(viz.ParamsTable(p.Cosmology.Params()))
		return nil
	}
	for _, name := range config.ListPresets() {
		fmt.Printf("  %s  %s\n", viz.Value.Render(name), viz.Subtle.Render(config.Presets[name].Params().String()))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tZ\tK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Redshifts),
			len(run.Wavenumbers),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	meta, err := st.Load(args[0])
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no run %s in %s", args[0], runsDir)
	}
	if err != nil {
		return err
	}
	p, err := meta.Params()
	if err != nil {
		return err
	}
	m, err := st.LoadMatrix(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", viz.Label.Render("run"), meta.ID)
	if meta.Label != "" {
		fmt.Printf("%s %s\n", viz.Label.Render("label"), meta.Label)
	}
	fmt.Printf("%s %s\n\n", viz.Label.Render("time"), meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println(viz.ParamsTable(p))
	fmt.Println()
	fmt.Println(viz.MatrixTable(m))
	return nil
}

// parseVary reads name=lo:hi:n.
func parseVary(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("--vary %q: want name=lo:hi:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("--vary %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("--vary %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("--vary %q: point count must be a positive integer", arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(vary) == 0 {
		return fmt.Errorf("scan needs at least one --vary")
	}
	names := make([]string, len(vary))
	ranges := make([][]float64, len(vary))
	for i, v := range vary {
		var err error
		if names[i], ranges[i], err = parseVary(v); err != nil {
			return err
		}
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	s, err := newSetup(cmd)
	if err != nil {
		return err
	}
	e, err := s.emulator()
	if err != nil {
		return err
	}

	obj := optim.PointObjective(e, scanZ, scanK, scanMax, s.cfg.CosmologyOptions(s.logger)...)
	res, err := g.Search(cmd.Context(), s.cfg.Cosmology.Params(), obj)
	if err != nil {
		return err
	}
	s.logger.Info("scan done", slog.Int("evaluated", res.Evaluated), slog.Int("skipped", res.Skipped))

	best := res.Value
	if scanMax {
		best = -best
	}
	fmt.Printf("%s %s at z=%g k=%g\n\n", viz.Label.Render("NLC"), viz.Value.Render(fmt.Sprintf("%.6f", best)), scanZ, scanK)
	fmt.Println(viz.ParamsTable(res.Best))
	return nil
}
