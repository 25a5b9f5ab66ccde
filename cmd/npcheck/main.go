// Command npcheck is a thin driver around the schedulability engine: it
// loads a job set (and optional precedence/abort files) from CSV, runs
// Explore, and prints a one-line verdict per file, mirroring the
// original tool's batch-of-files CLI shape. Full format robustness,
// Graphviz styling, and OS resource reporting are intentionally kept
// minimal here — this binary exists to exercise the engine, not to
// replace a production scheduling toolchain.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/markphelps/optional"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"npsched"
)

type config struct {
	timeModel    string
	timeout      time.Duration
	maxDepth     int
	naive        bool
	iipChoice    string
	precFile     string
	abortFile    string
	numCPUs      int
	dotFile      string
	responseFile string
	continueOnErr bool
	threads      optional.Int
	hasHeader    bool
	verbose      bool
}

func main() {
	cfg := &config{}

	var threadsFlag int

	root := &cobra.Command{
		Use:   "npcheck [job files...]",
		Short: "check non-preemptive job sets for schedulability",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threadsFlag >= 0 {
				cfg.threads = optional.NewInt(threadsFlag)
			}
			return run(cfg, args)
		},
	}

	rf := root.Flags()
	rf.IntVar(&threadsFlag, "threads", -1, "parallel worker count (-1 = sequential)")
	rf.StringVarP(&cfg.timeModel, "time-model", "t", "dense", "discrete or dense; accepted but not used: files are always analyzed in dense (float64) time")
	rf.DurationVarP(&cfg.timeout, "timeout", "l", 0, "wall-clock exploration budget (0 = unlimited)")
	rf.IntVarP(&cfg.maxDepth, "max-depth", "d", 0, "depth cap (0 = unlimited)")
	rf.BoolVarP(&cfg.naive, "naive", "n", false, "disable state merging (baseline for comparison)")
	rf.StringVarP(&cfg.iipChoice, "iip", "i", "none", "none, p-rm, or critical-window")
	rf.StringVarP(&cfg.precFile, "precedence", "p", "", "precedence CSV file")
	rf.StringVarP(&cfg.abortFile, "aborts", "a", "", "abort-action CSV file")
	rf.IntVarP(&cfg.numCPUs, "cpus", "m", 1, "number of processors")
	rf.StringVarP(&cfg.dotFile, "graph", "g", "", "write the search graph to this Graphviz file")
	rf.StringVarP(&cfg.responseFile, "response-times", "r", "", "write a response-time CSV to this file")
	rf.BoolVarP(&cfg.continueOnErr, "continue", "c", false, "keep checking remaining files after a parse error")
	rf.BoolVar(&cfg.hasHeader, "header", false, "input CSVs carry a header row")
	rf.BoolVarP(&cfg.verbose, "verbose", "v", false, "debug-level logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config, files []string) error {
	if cfg.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	var respWriter *csv.Writer
	if cfg.responseFile != "" {
		f, err := os.Create(cfg.responseFile)
		if err != nil {
			return err
		}
		defer f.Close()
		respWriter = csv.NewWriter(f)
		defer respWriter.Flush()
		respWriter.Write([]string{"task_id", "job_id", "BCCT", "WCCT", "BCRT", "WCRT"})
	}

	exitCode := 0
	for _, file := range files {
		if err := checkOne(cfg, file, respWriter); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			exitCode = 1
			if !cfg.continueOnErr {
				break
			}
		}
	}
	// os.Exit skips deferred calls, so flush the response-time rows here.
	if respWriter != nil {
		respWriter.Flush()
	}
	os.Exit(exitCode)
	return nil
}

func checkOne(cfg *config, file string, respWriter *csv.Writer) error {
	var problem *npsched.Problem[float64]

	if isYAMLFile(file) {
		p, err := loadProblemYAML(file, cfg.numCPUs)
		if err != nil {
			return err
		}
		problem = p
	} else {
		jobs, errs := loadJobsCSV(file, cfg.hasHeader)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no jobs loaded")
		}

		var prec []npsched.Precedence
		if cfg.precFile != "" {
			p, errs := loadPrecedenceCSV(cfg.precFile, cfg.hasHeader)
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			prec = p
		}

		var aborts []npsched.AbortAction[float64]
		if cfg.abortFile != "" {
			a, errs := loadAbortsCSV(cfg.abortFile, cfg.hasHeader)
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e)
			}
			aborts = a
		}

		p, err := npsched.NewProblem(jobs, prec, aborts, cfg.numCPUs)
		if err != nil {
			return err
		}
		problem = p
	}

	opts := npsched.Options{
		Timeout:      cfg.timeout,
		MaxDepth:     cfg.maxDepth,
		BeNaive:      cfg.naive,
		CollectGraph: cfg.dotFile != "",
	}
	if v, err := cfg.threads.Get(); err == nil {
		opts.Parallel = v != 0
		opts.NumWorkers = npsched.SomeInt(v)
	}

	var iip npsched.IIP[float64]
	switch cfg.iipChoice {
	case "p-rm":
		iip = npsched.PrecautiousRMIIP[float64]{}
	case "critical-window":
		iip = npsched.CriticalWindowIIP[float64]{}
	default:
		iip = npsched.NoneIIP[float64]{}
	}

	result := npsched.Explore(problem, opts, iip)

	fmt.Printf("%s, %d, %d, %d, %.3f\n", file, boolToInt(result.Schedulable), result.NumStates, result.NumEdges, result.CPUTimeSec)

	if cfg.dotFile != "" && result.Graph != nil {
		if err := os.WriteFile(cfg.dotFile, []byte(result.Graph.DOT()), 0o644); err != nil {
			return err
		}
	}

	if respWriter != nil {
		writeResponseTimes(respWriter, problem, result)
	}

	return nil
}

func writeResponseTimes(w *csv.Writer, problem *npsched.Problem[float64], result npsched.Result[float64]) {
	for _, j := range problem.Jobs {
		finish, ok := result.ResponseTimes[j.ID()]
		if !ok {
			continue
		}
		rt := npsched.ResponseTime(finish, j.Arrival())
		w.Write([]string{
			fmt.Sprint(j.ID().Task),
			fmt.Sprint(j.ID().Job),
			fmt.Sprintf("%.3f", finish.Min()),
			fmt.Sprintf("%.3f", finish.Max()),
			fmt.Sprintf("%.3f", rt.Min()),
			fmt.Sprintf("%.3f", rt.Max()),
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
