package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/schedulebuilder/pkg/model"
)

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	timeout
)

var (
	resultTypes = map[ResultType]string{
		solved:        "solved",
		unsatisfiable: "unsatisfiable",
		timeout:       "timeout",
	}
	dayPatterns = []string{"MoWeFr", "TuTh", "MoWe", "Mo", "We", "Fr"}
	lengths     = []int{50, 75, 110}
)

var (
	seed        int64 = 1
	instances         = 20
	courseSizes       = []int{4, 6, 8, 10}
	sections          = 6
	budget            = "0:05.00"
	outFile           = "benchmark_results.csv"
)

type InstanceMetadata struct {
	Name     string
	Courses  int
	Sections int
}

type BenchmarkResult struct {
	Instance      string  `csv:"Instance"`
	Courses       int     `csv:"Courses"`
	Variables     int     `csv:"Variables"`
	Sections      int     `csv:"Sections"`
	Optimize      bool    `csv:"Optimize"`
	Duration      int64   `csv:"Duration(us)"`
	Nodes         uint64  `csv:"Nodes"`
	Backtracks    uint64  `csv:"Backtracks"`
	AverageRating float64 `csv:"AverageRating"`
	Result        string  `csv:"Result"`
}

func main() {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "solve random course catalogs and write timings to CSV",
		Run:   CommandBenchmark,
	}
	cmd.Flags().Int64Var(&seed, "seed", seed, "random seed")
	cmd.Flags().IntVar(&instances, "instances", instances, "instances per course count")
	cmd.Flags().IntSliceVar(&courseSizes, "courses", courseSizes, "course counts to benchmark")
	cmd.Flags().IntVar(&sections, "sections", sections, "sections per course")
	cmd.Flags().StringVar(&budget, "budget", budget, "time budget per solve as h:mm:ss.hh or m:ss.hh")
	cmd.Flags().StringVar(&outFile, "out", outFile, "path of the CSV results")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func CommandBenchmark(cmd *cobra.Command, args []string) {
	if sections < 1 {
		log.Fatal("sections must be >= 1")
	}
	milliseconds, err := parseDuration(budget)
	if err != nil {
		log.Fatalf("invalid budget: %v", err)
	}
	solveBudget := time.Duration(milliseconds) * time.Millisecond
	random := rand.New(rand.NewSource(seed))
	builder := model.NewDomainBuilder(nil, model.BuilderOptions{})
	results := make([]BenchmarkResult, 0, len(courseSizes)*instances*2)

	for _, size := range courseSizes {
		for i := range instances {
			instance := InstanceMetadata{Name: fmt.Sprintf("c%d-%03d", size, i), Courses: size, Sections: sections}
			courses, catalog := generateInstance(random, instance)
			problem, err := builder.Build(courses, catalog)
			if err != nil {
				log.Fatalf("cannot build instance %v: %v", instance.Name, err)
			}

			for _, optimize := range []bool{false, true} {
				fmt.Printf("Benchmarking instance \"%v\" with optimize \"%v\"\n", instance.Name, optimize)
				results = append(results, measure(instance, problem, optimize, solveBudget))
			}
		}
	}

	toCsv(results)
}

// generateInstance builds a catalog of random lectures plus, for every other course, a lab section
func generateInstance(random *rand.Rand, instance InstanceMetadata) ([]string, map[string][]model.RawSection) {
	courses := make([]string, 0, instance.Courses)
	catalog := make(map[string][]model.RawSection, instance.Courses)
	for c := range instance.Courses {
		course := fmt.Sprintf("CS %d", 1000+c*10)
		courses = append(courses, course)

		for s := range instance.Sections {
			code := fmt.Sprintf("%03d", s+1)
			if c%2 == 1 && s > 0 && s == instance.Sections-1 {
				code = fmt.Sprintf("1%02d", s+1)
			}
			section := model.RawSection{
				SectionNumber: code,
				Instructor:    fmt.Sprintf("Instructor %d", random.Intn(instance.Courses*2)),
				Schedule:      []string{randomSchedule(random)},
			}
			if random.Intn(4) > 0 {
				section.Rating = lo.ToPtr(float64(random.Intn(41)+10) / 10)
			}
			catalog[course] = append(catalog[course], section)
		}
	}
	return courses, catalog
}

func randomSchedule(random *rand.Rand) string {
	start := model.NewTimeOfDay(8+random.Intn(9), 30*random.Intn(2))
	end := start + model.TimeOfDay(lengths[random.Intn(len(lengths))])
	return fmt.Sprintf("%v %v - %v", dayPatterns[random.Intn(len(dayPatterns))], start, end)
}

func measure(instance InstanceMetadata, problem model.Problem, optimize bool, solveBudget time.Duration) BenchmarkResult {
	ctx, cancel := context.WithTimeout(context.Background(), solveBudget)
	defer cancel()

	scheduler := model.NewBacktrackingScheduler(model.SolverOptions{OptimizeByRating: optimize})
	assignment, stats, err := scheduler.Solve(ctx, problem)

	var result ResultType
	if errors.Is(err, model.ErrSearchLimit) {
		result = timeout
	} else if err != nil {
		log.Fatalf("an error occurred while solving instance \"%v\": %v", instance.Name, err)
	} else if assignment == nil {
		result = unsatisfiable
	} else if !scheduler.Verify(assignment, problem) {
		log.Fatalf("invalid assignment for instance \"%v\"", instance.Name)
	}

	return BenchmarkResult{
		Instance:      instance.Name,
		Courses:       instance.Courses,
		Variables:     len(problem.Variables),
		Sections:      instance.Sections,
		Optimize:      optimize,
		Duration:      stats.Duration.Microseconds(),
		Nodes:         stats.Nodes,
		Backtracks:    stats.Backtracks,
		AverageRating: model.Summarize(assignment).AverageRating,
		Result:        resultTypes[result],
	}
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(outFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}

// parseDuration converts "h:mm:ss.hh" or "m:ss.hh" into milliseconds
func parseDuration(durationStr string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(durationStr), ":")
	secondsParts := strings.Split(parts[len(parts)-1], ".")
	if len(parts) < 2 || len(parts) > 3 || len(secondsParts) != 2 {
		return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
	}

	fields := append(parts[:len(parts)-1:len(parts)-1], secondsParts...)
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("unexpected duration format: %v", durationStr)
		}
		values[i] = value
	}

	var hours, minutes, seconds, hundredthOfSeconds int
	if len(parts) == 3 { // h:mm:ss
		hours, minutes, seconds, hundredthOfSeconds = values[0], values[1], values[2], values[3]
	} else { // m:ss
		minutes, seconds, hundredthOfSeconds = values[0], values[1], values[2]
	}
	return int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10), nil
}
