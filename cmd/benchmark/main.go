package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/scheduler"
	"github.com/delaneyj/reactivity/watcher"
	"github.com/guptarohit/asciigraph"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	configKey     = "config"
	iterationsKey = "iterations"
	scheduledKey  = "scheduled"
	plotKey       = "plot"
	profileKey    = "profile"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write propagation through chains of computed watchers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "YAML file with widths, heights and iterations",
			},
			&cli.UintFlag{
				Name:  iterationsKey,
				Usage: "Writes per graph",
				Value: DefaultIterations,
			},
			&cli.BoolFlag{
				Name:  scheduledKey,
				Usage: "Queue effects on a scheduler and flush after each write",
			},
			&cli.BoolFlag{
				Name:  plotKey,
				Usage: "Plot average latency per graph",
				Value: true,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := DefaultConfig()
	if path := cmd.String(configKey); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.IsSet(iterationsKey) {
		cfg.Iterations = int(cmd.Uint(iterationsKey))
	}
	if cmd.IsSet(scheduledKey) {
		cfg.Scheduled = cmd.Bool(scheduledKey)
	}
	if cmd.IsSet(plotKey) {
		cfg.Plot = cmd.Bool(plotKey)
	}
	if cmd.IsSet(profileKey) {
		cfg.Profile = cmd.String(profileKey)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Profile != "" {
		f, err := os.Create(cfg.Profile)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	propagate(cfg.Widths[0], cfg.Heights[0], cfg.Iterations, cfg.Scheduled)

	mode := "sync"
	if cfg.Scheduled {
		mode = "scheduled"
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Computed watchers (%s)", mode)))

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "effects"})

	var avgs []float64
	for _, w := range cfg.Widths {
		for _, h := range cfg.Heights {
			r := propagate(w, h, cfg.Iterations, cfg.Scheduled)
			calc := r.metrics
			tbl.AppendRow(table.Row{
				fmt.Sprintf("propagate: %d * %d", w, h),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				r.effects,
			})
			avgs = append(avgs, float64(calc.Time.Avg)/float64(time.Microsecond))
		}
	}
	tbl.Render()

	if cfg.Plot && len(avgs) > 1 {
		fmt.Println(asciigraph.Plot(avgs,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("avg µs per write, by graph in table order"),
		))
	}
	return nil
}

type propagateResult struct {
	metrics *tachymeter.Metrics
	effects int
	last    int
}

// propagate builds w chains of h computed watchers over one reactive
// source, ends each chain in an effect and times iters writes to the
// source.
func propagate(w, h, iters int, scheduled bool) propagateResult {
	sys := observer.NewSystem(observer.Config{Async: scheduled, Production: true})
	var sched *scheduler.Scheduler
	if scheduled {
		sched = scheduler.New(sys)
	}

	src := observer.NewObject().With("v", 1)
	sys.Observe(src, false)

	var r propagateResult
	for range w {
		last := func() int {
			return src.Get("v").(int)
		}
		for range h {
			prev := last
			c := watcher.NewComputed(sys, func() any {
				return prev() + 1
			})
			last = func() int {
				return c.Value().(int)
			}
		}
		watcher.New(sys, func() (any, error) {
			return last(), nil
		}, func(newValue, _ any) error {
			r.effects++
			r.last = newValue.(int)
			return nil
		}, watcher.Options{Scheduler: sched})
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for range iters {
		start := time.Now()
		src.Put("v", src.Get("v").(int)+1)
		if sched != nil {
			sched.Flush()
		}
		tach.AddTime(time.Since(start))
	}
	r.metrics = tach.Calc()
	return r
}
