package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/integrator"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/report"
	"github.com/san-kum/heatsim/internal/storage"
	"github.com/san-kum/heatsim/internal/thermal"
	"github.com/san-kum/heatsim/internal/viz"
)

var (
	dataDir        string
	mass           float64
	specificHeat   float64
	initialTemp    float64
	targetTemp     float64
	collectors     int
	collectorPower float64
	timeStep       float64
	configFile     string
	preset         string
	// Live view
	frameRate     int
	stepsPerFrame int
	// Sweep bounds
	sweepFrom int
	sweepTo   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatsim",
		Short: "constant-power water heating simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a heating simulation",
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the temperature trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep collector count and tabulate time to target",
		RunE:  sweepCollectors,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepFrom, "from", 1, "first collector count")
	sweepCmd.Flags().IntVar(&sweepTo, "to", 30, "last collector count")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addParamFlags(liveCmd)
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "simulation steps per frame")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, presetsCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "water mass (kg)")
	cmd.Flags().Float64Var(&specificHeat, "specific-heat", thermal.DefaultSpecificHeat, "specific heat capacity (J/kg°C)")
	cmd.Flags().Float64Var(&initialTemp, "initial-temp", config.DefaultInitialTemp, "initial temperature (°C)")
	cmd.Flags().Float64Var(&targetTemp, "target-temp", config.DefaultTargetTemp, "target temperature (°C)")
	cmd.Flags().IntVar(&collectors, "collectors", config.DefaultCollectors, "number of collectors")
	cmd.Flags().Float64Var(&collectorPower, "power", config.DefaultCollectorPower, "per-collector output (kW)")
	cmd.Flags().Float64Var(&timeStep, "dt", thermal.DefaultTimeStep, "time step (seconds)")
}

// resolveConfig layers preset, config file, and changed CLI flags, in
// that order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		pc := config.GetPreset(preset)
		if pc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *pc
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("specific-heat") {
		cfg.SpecificHeat = specificHeat
	}
	if flags.Changed("initial-temp") {
		cfg.InitialTemp = initialTemp
	}
	if flags.Changed("target-temp") {
		cfg.TargetTemp = targetTemp
	}
	if flags.Changed("collectors") {
		cfg.Collectors = collectors
	}
	if flags.Changed("power") {
		cfg.CollectorPower = collectorPower
	}
	if flags.Changed("dt") {
		cfg.TimeStep = timeStep
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	tank, err := thermal.NewTank(cfg.Params())
	if err != nil {
		return err
	}
	params := tank.Params()

	r := integrator.New(params)
	r.KeepTrace = true
	r.AddMetric(metrics.NewEnergyDelivered(tank.PowerOutput()))
	r.AddMetric(metrics.NewHeatingRate(params.InitialTemp))

	fmt.Printf("running scenario %s...\n", cfg.Scenario)
	start := time.Now()

	result, err := r.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Scenario, params, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("final temperature: %.2f °C\n", result.FinalTemp)
	if result.Stalled {
		fmt.Println("stalled: no temperature rise")
	}
	fmt.Printf("time to target: %s\n", report.Breakdown(result.ElapsedSeconds))

	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range result.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tELAPSED\tSTEPS\tFINAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%d\t%.2f°C\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ElapsedSeconds,
			run.Steps,
			run.FinalTemp,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(trace))

	fmt.Println(viz.Plot(trace, 80, 12))
	fmt.Println()
	fmt.Printf("time to target: %s\n", report.Breakdown(meta.ElapsedSeconds))

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	result := &thermal.Result{
		ElapsedSeconds: meta.ElapsedSeconds,
		Steps:          meta.Steps,
		FinalTemp:      meta.FinalTemp,
		Stalled:        meta.Stalled,
		Metrics:        meta.Metrics,
	}
	return report.ExportJSONStdout(report.Export(meta.ID, meta.Scenario, meta.Params, result, trace))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature"}); err != nil {
		return err
	}
	for _, s := range trace {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Temperature, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func sweepCollectors(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepFrom < 0 || sweepTo < sweepFrom {
		return fmt.Errorf("invalid sweep bounds: %d..%d", sweepFrom, sweepTo)
	}

	fmt.Printf("sweeping collectors %d..%d (scenario %s)\n\n", sweepFrom, sweepTo, cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTORS\tPOWER\tSTEPS\tSECONDS\tMINUTES\tHOURS")

	for n := sweepFrom; n <= sweepTo; n++ {
		params := cfg.Params()
		params.Collectors = n

		result, err := integrator.Simulate(context.Background(), params)
		if err != nil {
			return err
		}

		elapsed := report.Breakdown(result.ElapsedSeconds)
		fmt.Fprintf(w, "%d\t%.0fW\t%d\t%.2f\t%.2f\t%.2f\n",
			n, params.PowerOutput(), result.Steps,
			elapsed.Seconds, elapsed.Minutes, elapsed.Hours)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	tank, err := thermal.NewTank(cfg.Params())
	if err != nil {
		return err
	}

	m := viz.NewModel(tank, frameRate, stepsPerFrame)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
