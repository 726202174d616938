package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/metrics"
	"github.com/niktheblak/iot-ntttcp-simulator/internal/simulation"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/buffer"
)

var simulateFor time.Duration

var simulateCmd = &cobra.Command{
	Use:          "simulate",
	Short:        "Run simulated devices only, without a throughput measurement",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := buffer.New(viper.GetInt("buffer.capacity"))
		m := metrics.New()
		cfg := simulationConfig()
		cfg.Metrics = m

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		if simulateFor > 0 {
			ctx, cancel = context.WithTimeout(ctx, simulateFor)
			defer cancel()
		}
		shutdown := startServer(buf, m)
		defer shutdown()

		logger.LogAttrs(ctx, slog.LevelInfo, "Starting devices", slog.Int("devices", cfg.Devices), slog.Duration("for", simulateFor))
		if err := simulation.Simulate(ctx, cfg, buf); err != nil {
			return err
		}
		counts := buf.Counts()
		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out := cmd.OutOrStdout()
		for _, id := range ids {
			fmt.Fprintf(out, "%s\t%d\n", id, counts[id])
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().DurationVar(&simulateFor, "for", 10*time.Second, "how long to run, 0 to run until interrupted")
	rootCmd.AddCommand(simulateCmd)
}
