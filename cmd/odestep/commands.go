package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odestep/internal/analysis"
	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/export"
	"github.com/san-kum/odestep/internal/resize"
	"github.com/san-kum/odestep/internal/sim"
	"github.com/san-kum/odestep/internal/storage"
	"github.com/san-kum/odestep/internal/systems"
	"github.com/san-kum/odestep/internal/viz"
)

func (a *app) runCmd() *cobra.Command {
	var (
		flags    runFlags
		ensemble int
		spread   float64
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args[0])
			if err != nil {
				return err
			}

			exp, err := experiment.New(cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if ensemble > 1 {
				return a.runEnsemble(ctx, cmd.OutOrStdout(), exp, ensemble, spread)
			}
			return a.runSingle(ctx, cmd.OutOrStdout(), exp, !noSave)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of runs with perturbed initial states")
	cmd.Flags().Float64Var(&spread, "spread", 1e-3, "offset of x0 between ensemble members")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func (a *app) runSingle(ctx context.Context, out io.Writer, exp *experiment.Experiment, save bool) error {
	cfg := exp.Config()
	fmt.Fprintf(out, "running %s with %s (%s algebra, %s resize)...\n", cfg.System, cfg.Stepper, cfg.Algebra, cfg.Resizer)

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	if save {
		st := storage.New(a.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(metadataFor(cfg, exp.Model()), result)
		if err != nil {
			return err
		}
		a.logger.Debug("run saved", zap.String("id", runID), zap.String("dir", a.dataDir))
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	printSummary(out, result)
	return nil
}

func (a *app) runEnsemble(ctx context.Context, out io.Writer, exp *experiment.Experiment, n int, spread float64) error {
	start := time.Now()
	results, err := exp.RunEnsemble(ctx, n, spread)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d runs completed in %v\n\n", n, time.Since(start))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTEPS\tEVALS\tFINAL")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", i, res.StepsTaken, res.Evaluations, formatState(res.Final))
	}
	return w.Flush()
}

func metadataFor(cfg *config.Config, model systems.Model) storage.RunMetadata {
	return storage.RunMetadata{
		System:   cfg.System,
		Stepper:  cfg.Stepper,
		Algebra:  cfg.Algebra,
		Resizer:  cfg.Resizer,
		T0:       cfg.T0,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Params:   model.GetParams(),
	}
}

func printSummary(out io.Writer, result *sim.Result) {
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(out, "evaluations: %d\n", result.Evaluations)
	fmt.Fprintf(out, "final state: %s\n", formatState(result.Final))
	if result.EnergyDrift != 0 {
		fmt.Fprintf(out, "energy drift: %.3e\n", result.EnergyDrift)
	}
	if len(result.Metrics) == 0 {
		return
	}
	fmt.Fprintln(out, "\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
}

func formatState(x dynamo.State) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.6g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(a.dataDir)
			runs, err := st.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tDT\tSTEPPER\tALGEBRA\tEVALS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
					run.ID,
					run.System,
					run.Timestamp.Local().Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Stepper,
					run.Algebra,
					run.Evaluations,
				)
			}
			return w.Flush()
		},
	}
}

func (a *app) plotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(a.dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			states, _, err := st.LoadStates(args[0])
			if err != nil {
				return err
			}
			if len(states) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s\n", meta.ID)
			fmt.Fprintf(out, "system: %s\n", meta.System)
			fmt.Fprintf(out, "samples: %d\n\n", len(states))
			for _, graph := range viz.PlotComponents(states, viz.ComponentLabels(meta.System), 80, 10) {
				fmt.Fprintln(out, graph)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format       string
		xAxis, yAxis int
	)

	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(a.dataDir)
			out := cmd.OutOrStdout()

			switch format {
			case "csv":
				return st.ExportCSV(out, args[0])
			case "json":
				meta, err := st.Load(args[0])
				if err != nil {
					return err
				}
				states, times, err := st.LoadStates(args[0])
				if err != nil {
					return err
				}
				return storage.ExportJSON(out, *meta, states, times)
			case "svg":
				states, _, err := st.LoadStates(args[0])
				if err != nil {
					return err
				}
				return export.PhaseSVG(out, states, xAxis, yAxis, 800, 600, "#00ff88")
			}
			return fmt.Errorf("unknown format: %s (want json, csv or svg)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, svg)")
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for the svg x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for the svg y-axis")
	return cmd
}

func (a *app) convergeCmd() *cobra.Command {
	var (
		stepper  string
		algebra  string
		resizer  string
		workers  int
		duration float64
		dts      []float64
		x0Flag   []float64
	)

	cmd := &cobra.Command{
		Use:   "converge [system]",
		Short: "measure global error and observed order against the exact solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := systems.New(args[0], nil)
			if err != nil {
				return err
			}
			solvable, ok := model.(systems.Solvable)
			if !ok {
				return fmt.Errorf("system %s has no closed-form solution", args[0])
			}

			cfg := config.DefaultConfig()
			cfg.System = args[0]
			cfg.Stepper = stepper
			cfg.Algebra = algebra
			cfg.Resizer = resizer
			cfg.Workers = workers
			if err := cfg.Validate(); err != nil {
				return err
			}
			exp, err := experiment.New(cfg, a.logger)
			if err != nil {
				return err
			}

			x0 := model.DefaultState()
			if len(x0Flag) > 0 {
				x0 = dynamo.State(x0Flag)
			}

			steppers := make([]sim.Stepper, len(dts))
			for i := range steppers {
				if steppers[i], err = exp.NewStepper(); err != nil {
					return err
				}
			}
			next := 0
			pts, err := analysis.Convergence(cmd.Context(), func() sim.Stepper {
				s := steppers[next]
				next++
				return s
			}, model.Derive, solvable.Exact, x0, 0, duration, dts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DT\tSTEPS\tERROR\tORDER")
			for _, p := range pts {
				order := "-"
				if !math.IsNaN(p.Order) {
					order = fmt.Sprintf("%.3f", p.Order)
				}
				fmt.Fprintf(w, "%g\t%d\t%.3e\t%s\n", p.Dt, p.Steps, p.Error, order)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nfitted order: %.3f\n", analysis.FitOrder(pts))
			return nil
		},
	}
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&stepper, "stepper", "rk4", fmt.Sprintf("stepper %v", config.Steppers))
	cmd.Flags().StringVar(&algebra, "algebra", def.Algebra, fmt.Sprintf("algebra %v", config.Algebras))
	cmd.Flags().StringVar(&resizer, "resizer", def.Resizer, fmt.Sprintf("resize policy %v", resize.PolicyNames()))
	cmd.Flags().IntVar(&workers, "workers", 0, "workers for the parallel algebra (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&duration, "time", 1.0, "integration interval")
	cmd.Flags().Float64SliceVar(&dts, "dts", []float64{0.1, 0.05, 0.025, 0.0125}, "step sizes")
	cmd.Flags().Float64SliceVar(&x0Flag, "init", nil, "initial state (comma separated)")
	return cmd
}

func (a *app) systemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "list built-in systems and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SYSTEM\tDIM\tEXACT\tPARAMS")
			for _, name := range systems.Names() {
				m, err := systems.New(name, nil)
				if err != nil {
					return err
				}
				_, exact := m.(systems.Solvable)
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", name, len(m.DefaultState()), exact, formatParams(m.GetParams()))
			}
			return w.Flush()
		},
	}
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, params[name])
	}
	return strings.Join(parts, " ")
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}

func (a *app) liveCmd() *cobra.Command {
	var (
		flags        runFlags
		stepsPerTick int
	)

	cmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args[0])
			if err != nil {
				return err
			}
			exp, err := experiment.New(cfg, a.logger)
			if err != nil {
				return err
			}
			stepper, err := exp.NewStepper()
			if err != nil {
				return err
			}
			x0, err := exp.InitialState()
			if err != nil {
				return err
			}

			m := viz.NewModel(cfg.System, exp.Model().Derive, stepper, x0, cfg.T0, cfg.Dt, stepsPerTick)
			if h, ok := exp.Model().(dynamo.Hamiltonian); ok {
				m = m.WithEnergy(h.Energy)
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
				return fm.Err()
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&stepsPerTick, "steps-per-frame", 1, "integration steps per frame")
	return cmd
}
