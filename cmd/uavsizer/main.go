package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goforj/godump"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/api"
	"github.com/san-kum/uavsizer/internal/assets"
	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/log"
	"github.com/san-kum/uavsizer/internal/report"
	"github.com/san-kum/uavsizer/internal/storage"
	"github.com/san-kum/uavsizer/internal/tui"
	"github.com/san-kum/uavsizer/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	inputFile  string
	preset     string
	goal       string
	label      string
	dump       bool
	asJSON     bool
	noSave     bool
	plotKind   string
	outFile    string
	xlsxFile   string
	theme      string
	addr       string
	reqRate    float64
	burst      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uavsizer",
		Short: "preliminary sizing of small electric UAVs",
		RunE:  runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default "+config.DefaultDataDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "colour theme")

	sizeCmd := &cobra.Command{
		Use:   "size",
		Short: "size an aircraft",
		RunE:  sizeAircraft,
	}
	sizeCmd.Flags().StringVar(&inputFile, "input", "", "mission spreadsheet (xlsx)")
	sizeCmd.Flags().StringVar(&preset, "preset", "", "use preset mission")
	sizeCmd.Flags().StringVar(&goal, "goal", string(loading.GoalEndurance), "preset goal: endurance or range")
	sizeCmd.Flags().StringVar(&label, "label", "", "run label")
	sizeCmd.Flags().BoolVar(&dump, "dump", false, "dump the full design")
	sizeCmd.Flags().BoolVar(&asJSON, "json", false, "print the design as JSON")
	sizeCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored design",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sizing diagrams to PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotKind, "kind", "all", "power, loading, scissor, frames or all")

	framesCmd := &cobra.Command{
		Use:   "frames [run_id]",
		Short: "list fuselage frames",
		Args:  cobra.ExactArgs(1),
		RunE:  showFrames,
	}

	scissorCmd := &cobra.Command{
		Use:   "scissor [run_id]",
		Short: "show the scissor analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  showScissor,
	}

	reportCmd := &cobra.Command{
		Use:   "report [run_id]",
		Short: "write the PDF design sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  writeReport,
	}
	reportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <data>/reports/<run_id>.pdf)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored design as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&xlsxFile, "xlsx", "", "also write the mission inputs to a spreadsheet")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the power curves to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [goal]",
		Short: "list available presets for a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(loading.Goal(args[0]))
			if len(presets) == 0 {
				fmt.Printf("no presets for goal: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the sizing API",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&reqRate, "rate", 1, "requests per second per client")
	serveCmd.Flags().IntVar(&burst, "burst", 5, "request burst per client")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive sizing",
		RunE:  runTUI,
	}

	rootCmd.AddCommand(sizeCmd, listCmd, showCmd, plotCmd, framesCmd, scissorCmd, reportCmd, exportCmd, exportCSVCmd, presetsCmd, initCmd, serveCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type env struct {
	cfg   *config.Config
	src   design.Sources
	store *storage.Store
}

// setup resolves the configuration and opens the shared sources: defaults,
// then the config file, then environment, then flags.
func setup(cmd *cobra.Command) (*env, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.ApplyEnv()
	if dataDir != "" {
		cfg.Paths.Data = dataDir
	}
	if logLevel != "" {
		cfg.Paths.LogLevel = logLevel
	}
	if theme != "" {
		viz.SetTheme(theme)
	}

	fsys, err := assets.Open(cfg.Paths.Assets)
	if err != nil {
		return nil, err
	}
	database, err := db.Open(fsys)
	if err != nil {
		return nil, err
	}
	avl := cfg.Paths.AVL
	if avl == "" {
		avl = cfg.Paths.Data
	}

	lg := log.New(cfg.Paths.LogLevel, cfg.Paths.Data)
	lg.Info("command", "name", cmd.Name(), "data", cfg.Paths.Data)
	return &env{
		cfg: cfg,
		src: design.Sources{
			DB:       database,
			Airfoils: airfoil.NewLibrary(fsys),
			AVLDir:   avl,
			Logger:   lg,
		},
		store: storage.New(cfg.Paths.Data),
	}, nil
}

func sizeAircraft(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	cfg := e.cfg

	// Preset replaces the mission, the spreadsheet overrides it.
	if preset != "" {
		p := config.GetPreset(loading.Goal(goal), preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(loading.Goal(goal)))
		}
		cfg.Mission = p.Mission
	}
	if inputFile == "" {
		inputFile = cfg.Paths.Input
	}
	if inputFile != "" {
		if cfg.Mission, err = config.LoadSpreadsheet(inputFile); err != nil {
			return err
		}
	}

	d, err := design.Size(cfg, e.src)
	if err != nil {
		return err
	}

	switch {
	case dump:
		godump.Dump(d)
	case asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return err
		}
	default:
		fmt.Println(viz.Summary(d))
		fmt.Println(viz.PowerChart(d.Performance, 70, 10))
	}

	if noSave {
		return nil
	}
	if err := e.store.Init(); err != nil {
		return err
	}
	if label == "" {
		label = string(cfg.Mission.Goal)
		if preset != "" {
			label = preset
		}
	}
	runID, err := e.store.Save(label, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved run %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	runs, err := e.store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tCONFIG\tMTOW\tMOTOR\tENDURANCE\tRANGE\tWARN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3fkg\t%s\t%.2fh\t%.1fkm\t%d\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Configuration,
			run.MTOW,
			run.Motor,
			run.Endurance,
			run.Range,
			run.Warnings,
		)
	}
	return w.Flush()
}

func load(cmd *cobra.Command, runID string) (*env, *storage.RunMetadata, *design.Design, error) {
	e, err := setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := e.store.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := e.store.LoadDesign(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	return e, meta, d, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	_, meta, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Label)
	fmt.Println(viz.Summary(d))
	fmt.Println(viz.Planform(d.Placement, d.Fuselage, 60, 15))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	e, meta, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	kinds := []string{"power", "loading", "scissor", "frames"}
	if plotKind != "all" {
		kinds = []string{plotKind}
	}
	for _, kind := range kinds {
		var err error
		var path string
		switch kind {
		case "power":
			p, perr := report.PowerCurves(d.Performance)
			if err = perr; err == nil {
				path, err = report.Save(p, e.cfg.Paths.Data, meta.Label+"-power")
			}
			fmt.Println(viz.PowerChart(d.Performance, 70, 10))
		case "loading":
			p, perr := report.LoadingDiagram(loading.Solve(d.Mission.Handlaunch))
			if err = perr; err == nil {
				path, err = report.Save(p, e.cfg.Paths.Data, meta.Label+"-loading")
			}
		case "scissor":
			if d.Scissor == nil {
				fmt.Println("no scissor plot for a tailless design")
				continue
			}
			p, perr := report.Scissor(d.Scissor)
			if err = perr; err == nil {
				path, err = report.Save(p, e.cfg.Paths.Data, meta.Label+"-scissor")
			}
		case "frames":
			p, perr := report.Frames(d.Fuselage)
			if err = perr; err == nil {
				path, err = report.Save(p, e.cfg.Paths.Data, meta.Label+"-frames")
			}
		default:
			return fmt.Errorf("unknown plot kind: %s", kind)
		}
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

func showFrames(cmd *cobra.Command, args []string) error {
	_, _, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	f := d.Fuselage

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tX\tWIDTH\tHEIGHT\tMOTOR")
	for i, fr := range f.Frames {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%t\n", i, fr.X(), fr.Width, fr.Height, fr.Motor)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\napex compartment %d, length %.3f m, wetted %.4f m^2\n", d.Frames.ApexIndex, f.Length(), f.WettedArea())
	if f.Nose != nil {
		fmt.Printf("nose cone: %.3f m, slenderness %.2f\n", f.Nose.Length, f.Nose.Slenderness)
	}
	if f.Tail != nil {
		fmt.Printf("tail cone: %.3f m, slenderness %.2f\n", f.Tail.Length, f.Tail.Slenderness)
	}
	for _, p := range f.StillToBuild {
		fmt.Printf("pending: %s at %d\n", p.Kind, p.Index)
	}
	return nil
}

func showScissor(cmd *cobra.Command, args []string) error {
	_, _, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	sc := d.Scissor
	if sc == nil {
		fmt.Println("tailless design: no scissor analysis")
		return nil
	}

	ctrl, stab := sc.Limits(sc.Required)
	fmt.Printf("stability  S_h/S = (x + %.3f)/%.4f\n", sc.StaticMargin, sc.StabilitySlope)
	fmt.Printf("control    S_h/S = (x + %.4f)/%.4f\n", sc.ControlIntercept, sc.ControlSlope)
	fmt.Printf("required   S_h/S = %.4f (analytic %.4f)\n", sc.Required, sc.Analytic)
	fmt.Printf("cg limits  [%.3f, %.3f] mac, operating %.3f\n", min(ctrl, stab), max(ctrl, stab), sc.Position)
	if d.Placement != nil {
		fmt.Printf("balanced   %.3f mac\n", d.Placement.Position)
	}
	for _, w := range sc.Warnings {
		fmt.Println(w)
	}
	return nil
}

func writeReport(cmd *cobra.Command, args []string) error {
	e, meta, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	path := outFile
	if path == "" {
		dir := filepath.Join(e.cfg.Paths.Data, "reports")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		path = filepath.Join(dir, meta.ID+".pdf")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.Sheet(f, meta.Label, d); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	_, _, d, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	if xlsxFile != "" {
		f, err := os.Create(xlsxFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := config.WriteSpreadsheet(f, d.Mission); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	speeds, req, avail, err := e.store.LoadPower(args[0])
	if err != nil {
		return err
	}
	if len(speeds) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"speed", "power_required", "power_available"}); err != nil {
		return err
	}
	for i := range speeds {
		row := []string{
			strconv.FormatFloat(speeds[i], 'f', 6, 64),
			strconv.FormatFloat(req[i], 'f', 6, 64),
			strconv.FormatFloat(avail[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := e.store.Init(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := api.New(e.src, e.store, rate.Limit(reqRate), burst)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		e.src.Logger.Info("serving", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	e.src.Logger.Info("server stopped")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	return tui.RunInteractive(e.src)
}
