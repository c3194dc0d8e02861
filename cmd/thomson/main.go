package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/analysis"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/config"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/metrics"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/relax"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/storage"
	"github.com/arda-guler/ThomsonProblemNumericalSolution/internal/viz"
)

var (
	dataDir       string
	tolerance     float64
	relaxFactor   float64
	maxIter       int
	seed          int64
	attempts      int
	progressEvery int
	configFile    string
	preset        string
	stepsPerFrame int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thomson",
		Short: "numerical Thomson problem solver",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".thomson", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [n]",
		Short: "relax n charges on the unit sphere",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "convergence tolerance")
	solveCmd.Flags().Float64Var(&relaxFactor, "relaxation", config.DefaultRelaxation, "relaxation factor")
	solveCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "iteration cap")
	solveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks the current time)")
	solveCmd.Flags().IntVar(&attempts, "attempts", config.DefaultAttempts, "independent attempts, keeping the lowest energy")
	solveCmd.Flags().IntVar(&progressEvery, "progress", config.DefaultProgressEvery, "iterations between progress dumps (0 disables)")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot convergence history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "geometric analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export final positions to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [n]",
		Short: "watch the relaxation settle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "convergence tolerance")
	liveCmd.Flags().Float64Var(&relaxFactor, "relaxation", config.DefaultRelaxation, "relaxation factor")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks the current time)")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 25, "iterations per frame")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the solver across charge counts",
		RunE:  benchSolver,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tN\tTOLERANCE\tATTEMPTS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.0e\t%d\n", name, p.N, p.Tolerance, p.Attempts)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, liveCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file, flags and the positional
// charge count, later sources overriding earlier ones.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("relaxation") {
		cfg.RelaxationFactor = relaxFactor
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIterations = maxIter
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("attempts") {
		cfg.Attempts = attempts
	}
	if cmd.Flags().Changed("progress") {
		cfg.ProgressEvery = progressEvery
	}

	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid charge count: %s", args[0])
		}
		cfg.N = n
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rcfg := cfg.Relax()

	fmt.Printf("relaxing %d charges (tolerance %.0e, seed %d)...\n", cfg.N, cfg.Tolerance, cfg.Seed)
	start := time.Now()

	var result *relax.Result
	var solveErr error

	if cfg.Attempts > 1 {
		result, solveErr = relax.NewEnsemble(rcfg, cfg.Attempts, rcfg.Seed).Run(context.Background())
	} else {
		solver := relax.New(rcfg)
		solver.AddMetric(metrics.NewPotential())
		solver.AddMetric(metrics.NewSettling())
		solver.AddMetric(metrics.NewMobility())
		if cfg.ProgressEvery > 0 {
			solver.AddObserver(&relax.ProgressObserver{Every: cfg.ProgressEvery, Out: os.Stdout})
		}
		result, solveErr = solver.Run(context.Background())
	}

	elapsed := time.Since(start)

	if result == nil {
		return solveErr
	}
	if solveErr != nil {
		fmt.Printf("warning: %v\n", solveErr)
	}

	runID, err := st.Save(rcfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("iterations: %d\n", result.Iterations)
	fmt.Printf("converged: %v\n", result.Converged)
	fmt.Printf("energy: %.6f\n", result.Energy)
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	fmt.Println("\nsolution:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tX\tY\tZ")
	for i, p := range result.Positions {
		fmt.Fprintf(w, "%d\t%+.6f\t%+.6f\t%+.6f\n", i, p.X, p.Y, p.Z)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tN\tTIME\tTOLERANCE\tITER\tCONVERGED\tENERGY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0e\t%d\t%v\t%.4f\n",
			run.ID,
			run.N,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Tolerance,
			run.Iterations,
			run.Converged,
			run.Energy,
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

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("charges: %d\n", meta.N)
	fmt.Printf("iterations: %d\n\n", meta.Iterations)

	// Downsample long runs so the plot stays terminal sized.
	const plotWidth = 100
	data := history
	if len(data) > plotWidth {
		sampled := make([]float64, plotWidth)
		for i := range sampled {
			sampled[i] = data[i*len(data)/plotWidth]
		}
		data = sampled
	}

	logData := make([]float64, len(data))
	for i, d := range data {
		logData[i] = math.Log10(d + 1e-16)
	}

	graph := asciigraph.Plot(logData,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("log10 max displacement per iteration"),
	)
	fmt.Println(graph)

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	positions, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("geometric analysis: %s\n", meta.ID)
	fmt.Printf("charges: %d\n\n", len(positions))

	fmt.Printf("potential energy: %.6f\n", analysis.PotentialEnergy(positions))
	fmt.Printf("min separation: %.6f\n", analysis.MinDistance(positions))
	fmt.Printf("min pair angle: %.2f deg\n\n", analysis.MinAngle(positions)*180/math.Pi)

	angles := analysis.PairAngles(positions)
	if len(angles) > 1 {
		degrees := make([]float64, len(angles))
		for i, a := range angles {
			degrees[i] = a * 180 / math.Pi
		}

		hist := analysis.Histogram(degrees, 36, 0, 180)
		graph := asciigraph.Plot(hist,
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Caption("pair angle distribution (0-180 deg, 5 deg bins)"),
		)
		fmt.Println(graph)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, nil, nil)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	positions, err := st.LoadPositions(args[0])
	if err != nil {
		return err
	}

	if len(positions) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"index", "x", "y", "z"}); err != nil {
		return err
	}

	for i, p := range positions {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.X, 'f', 12, 64),
			strconv.FormatFloat(p.Y, 'f', 12, 64),
			strconv.FormatFloat(p.Z, 'f', 12, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	positions, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, positions, history)
}

func runLive(cmd *cobra.Command, args []string) error {
	n := config.DefaultN
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid charge count: %s", args[0])
		}
		n = parsed
	}
	if n < 1 {
		return relax.ErrInvalidCount
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := viz.NewModel(n, tolerance, relaxFactor, seed, stepsPerFrame)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	counts := []int{4, 8, 16, 32, 64}

	fmt.Println("benchmarking solver")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tITER\tCONVERGED\tTIME\tITER/SEC\tENERGY")

	for _, n := range counts {
		cfg := relax.Config{
			N:                n,
			Tolerance:        1e-3,
			RelaxationFactor: 1,
			MaxIterations:    200000,
			Seed:             42,
		}

		start := time.Now()
		result, err := relax.New(cfg).Run(context.Background())
		elapsed := time.Since(start)

		if err != nil && !errors.Is(err, relax.ErrNotConverged) {
			fmt.Fprintf(w, "%d\terror: %v\n", n, err)
			continue
		}

		iterPerSec := float64(result.Iterations) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%.0f\t%.4f\n",
			n, result.Iterations, result.Converged, elapsed.Round(time.Millisecond), iterPerSec, result.Energy)
	}

	return w.Flush()
}
