package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/schedulebuilder/internal/config"
	"github.com/limaJavier/schedulebuilder/internal/handler"
	"github.com/limaJavier/schedulebuilder/internal/logger"
	"github.com/limaJavier/schedulebuilder/internal/service"
	"github.com/limaJavier/schedulebuilder/pkg/model"
	"github.com/limaJavier/schedulebuilder/pkg/provider"
)

const (
	exitFound     = 10
	exitExhausted = 20
)

var (
	cfg *config.Config

	courses       []string
	catalogPath   string
	catalogFormat string
	ratingsPath   string
	windows       []string
	optimize      bool
	outFile       string
	maxNodes      uint64
	timeout       time.Duration
	linkSections  bool
	excludeClosed bool
)

func main() {
	var err error
	if cfg, err = config.Load(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cmdRoot := &cobra.Command{
		Use:   "schedulebuilder",
		Short: "Conflict-free course schedule builder",
	}

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "pick one section per course so that no two sections overlap",
		Long: "Pick one section per course so that no two sections overlap.\n" +
			"Exits with 10 when a schedule is found and 20 when no combination of sections fits.",
		Run: CommandSolve,
	}
	cmdSolve.Flags().StringSliceVar(&courses, "courses", nil, "comma-separated course codes to schedule")
	cmdSolve.Flags().StringVar(&catalogPath, "catalog", cfg.Catalog.Path, "path to the course catalog")
	cmdSolve.Flags().StringVar(&catalogFormat, "format", cfg.Catalog.Format, `catalog format: "json", "yaml" or "csv"`)
	cmdSolve.Flags().StringVar(&ratingsPath, "ratings", cfg.Catalog.RatingsPath, "path to the instructor ratings (csv catalogs only)")
	cmdSolve.Flags().StringArrayVar(&windows, "window", nil, `allowed class hours, as "Mo=9:00am-5:00pm" for one day or "9:00am-5:00pm" for every day; repeatable`)
	cmdSolve.Flags().BoolVar(&optimize, "optimize", false, "try the best rated sections first")
	cmdSolve.Flags().StringVar(&outFile, "out", "", "path to the file where the plan will be written; if empty, it'll be written into the Standard Output")
	cmdSolve.Flags().Uint64Var(&maxNodes, "max-nodes", cfg.Solver.MaxNodes, "maximum number of candidate sections to evaluate; 0 means unbounded")
	cmdSolve.Flags().DurationVar(&timeout, "timeout", cfg.Solver.Timeout, "maximum search time")
	cmdSolve.Flags().BoolVar(&linkSections, "link-sections", cfg.Solver.LinkSections, "require labs to match the lecture they are linked to")
	cmdSolve.Flags().BoolVar(&excludeClosed, "exclude-closed", cfg.Solver.ExcludeClosed, "ignore sections whose status is Closed")
	cmdRoot.AddCommand(cmdSolve)

	cmdParse := &cobra.Command{
		Use:   "parse <schedule>...",
		Short: "parse schedule strings and print the resulting time blocks",
		Args:  cobra.MinimumNArgs(1),
		Run:   CommandParse,
	}
	cmdRoot.AddCommand(cmdParse)

	cmdServe := &cobra.Command{
		Use:   "serve",
		Short: "serve the schedule builder over HTTP",
		Run:   CommandServe,
	}
	cmdServe.Flags().StringVar(&catalogPath, "catalog", cfg.Catalog.Path, "path to the course catalog")
	cmdServe.Flags().StringVar(&catalogFormat, "format", cfg.Catalog.Format, `catalog format: "json", "yaml" or "csv"`)
	cmdServe.Flags().StringVar(&ratingsPath, "ratings", cfg.Catalog.RatingsPath, "path to the instructor ratings (csv catalogs only)")
	cmdServe.Flags().IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	cmdRoot.AddCommand(cmdServe)

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

func CommandSolve(cmd *cobra.Command, args []string) {
	if len(args) > 0 {
		log.Fatalf("unknown option: %s", strings.Join(args, " "))
	} else if len(courses) == 0 {
		log.Fatal("at least one course must be specified")
	}

	constraints, err := parseWindows(windows)
	if err != nil {
		log.Fatalf("invalid window: %v", err)
	}

	logr := newLogger()
	defer logr.Sync() //nolint:errcheck

	catalog, err := provider.Load(strings.ToLower(catalogFormat), catalogPath, ratingsPath)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	planner := service.NewPlannerService(catalog, nil, logr, nil, service.PlannerConfig{
		MaxNodes:      maxNodes,
		Timeout:       timeout,
		LinkSections:  linkSections,
		ExcludeClosed: excludeClosed,
	})

	// Build plan
	plan, err := planner.Plan(context.Background(), model.ScheduleRequest{
		Courses:          courses,
		TimeConstraints:  constraints,
		OptimizeByRating: optimize,
	})
	if err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}

	// Marshal output into json
	planJson, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(planJson))
	} else if err := os.WriteFile(outFile, planJson, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Nodes: %v\n", plan.Search.Nodes)
	fmt.Fprintf(os.Stderr, "Backtracks: %v\n", plan.Search.Backtracks)
	if !plan.Feasible {
		os.Exit(exitExhausted)
	}
	os.Exit(exitFound)
}

func CommandParse(cmd *cobra.Command, args []string) {
	failed := false
	for _, schedule := range args {
		block, err := model.ParseSchedule(schedule)
		if err != nil {
			fmt.Printf("%v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%q => %v\n", schedule, block)
	}
	if failed {
		os.Exit(1)
	}
}

func CommandServe(cmd *cobra.Command, args []string) {
	logr := newLogger()
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := provider.Load(strings.ToLower(catalogFormat), catalogPath, ratingsPath)
	if err != nil {
		logr.Fatal("cannot load catalog", zap.String("path", catalogPath), zap.Error(err))
	}

	metrics := service.NewMetricsService()
	planner := service.NewPlannerService(catalog, nil, logr, metrics, service.PlannerConfig{
		MaxNodes:      cfg.Solver.MaxNodes,
		Timeout:       cfg.Solver.Timeout,
		LinkSections:  cfg.Solver.LinkSections,
		ExcludeClosed: cfg.Solver.ExcludeClosed,
	})
	router := handler.NewRouter(logr, handler.NewScheduleHandler(planner), handler.NewMetricsHandler(metrics))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "courses", len(catalog.Courses()))
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newLogger() *zap.Logger {
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	return logr
}

// parseWindows turns "Mo=9:00am-5:00pm" flags into time constraints; a value without a day applies to every day
func parseWindows(values []string) (map[string]model.ClockRange, error) {
	constraints := make(map[string]model.ClockRange)
	for _, value := range values {
		day, bounds, hasDay := strings.Cut(value, "=")
		if !hasDay {
			bounds = value
		}

		start, end, found := strings.Cut(bounds, "-")
		if !found || strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
			return nil, fmt.Errorf("%q must look like Mo=9:00am-5:00pm", value)
		}
		clockRange := model.ClockRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}

		if hasDay {
			constraints[strings.TrimSpace(day)] = clockRange
			continue
		}
		for _, weekday := range model.Weekdays {
			constraints[string(weekday)] = clockRange
		}
	}
	return constraints, nil
}
