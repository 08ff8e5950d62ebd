package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/maintops/crewsched/config"
	coremetrics "github.com/maintops/crewsched/core/metrics"
	"github.com/maintops/crewsched/core/model"
	"github.com/maintops/crewsched/core/schedule"
	"github.com/maintops/crewsched/infra/logger"
	"github.com/maintops/crewsched/infra/metrics"
	"github.com/maintops/crewsched/infra/notify"
	"github.com/maintops/crewsched/infra/store"
	"github.com/maintops/crewsched/pkg/export"
)

var (
	backlogPath string
	startDate   string
	horizonDays int
	outPath     string
	outFormat   string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run one optimization over a backlog file",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&backlogPath, "backlog", "b", "", "work order backlog JSON file (required)")
	solveCmd.Flags().StringVar(&startDate, "start", "", "horizon start date YYYY-MM-DD (default: next Monday)")
	solveCmd.Flags().IntVar(&horizonDays, "days", 0, "horizon length in days (default from config)")
	solveCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	solveCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json, csv or events")
	_ = solveCmd.MarkFlagRequired("backlog")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("solve-command")

	orders, err := loadBacklog(backlogPath)
	if err != nil {
		return err
	}
	shifts, err := store.NewShiftStore(cfg.Shifts.Path).Load()
	if err != nil {
		return fmt.Errorf("load shifts: %w", err)
	}

	start := model.NextMonday(time.Now())
	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return fmt.Errorf("parse start date: %w", err)
		}
	}
	days := cfg.Engine.HorizonDays
	if horizonDays > 0 {
		days = horizonDays
	}

	sink, err := buildSink(cfg.Metrics, log)
	if err != nil {
		return err
	}

	engine := schedule.New(logger.New("engine"), sink)
	sched, err := engine.Solve(schedule.SolveRequest{
		WorkOrders: orders,
		Shifts:     shifts,
		Rules:      cfg.Engine.Rules,
		Horizon:    model.HorizonFrom(start, days),
		TimeBudget: cfg.Engine.TimeBudget(),
		NodeBudget: cfg.Engine.NodeBudget,
	})
	if err != nil {
		return err
	}

	if cfg.Notify.Enabled {
		pub, err := notify.NewPahoPublisher(cfg.Notify)
		if err != nil {
			return fmt.Errorf("schedule publisher: %w", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Errorf("publisher close: %v", err)
			}
		}()
		if err := pub.PublishSchedule(sched); err != nil {
			log.Errorf("publish schedule: %v", err)
		}
	}

	return writeSchedule(sched, outPath, outFormat)
}

// loadBacklog decodes and validates the normalized work order records. The
// backlog source already parsed priorities and due dates; here only the
// structural invariants are checked.
func loadBacklog(path string) ([]model.WorkOrder, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backlog: %w", err)
	}
	var orders []model.WorkOrder
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, fmt.Errorf("decode backlog: %w", err)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, w := range orders {
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("work order %s: %w", w.ID, err)
		}
	}
	return orders, nil
}

func buildSink(cfg coremetrics.Config, log logger.Logger) (coremetrics.SolveSink, error) {
	var sinks []coremetrics.SolveSink
	if cfg.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		go func() {
			if err := metrics.StartPromServer(cfg.PrometheusPort); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return metrics.NewMultiSink(sinks...), nil
	}
}

func writeSchedule(sched *model.Schedule, path, format string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch format {
	case "json":
		return export.WriteJSON(w, sched)
	case "csv":
		return export.WriteCSV(w, sched)
	case "events":
		return export.WriteEvents(w, sched)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
