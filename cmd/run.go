package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/metrics"
	"github.com/niktheblak/iot-ntttcp-simulator/internal/simulation"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/buffer"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/ntttcp"
)

var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Run simulated devices alongside an NTttcp receiver/sender measurement",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		buf := buffer.New(viper.GetInt("buffer.capacity"))
		m := metrics.New()
		cfg := simulationConfig()
		cfg.Metrics = m
		out := cmd.OutOrStdout()
		cfg.Benchmark.OnSender = func(rep *ntttcp.Report) {
			fmt.Fprint(out, senderSection(rep))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		shutdown := startServer(buf, m)
		defer shutdown()

		logger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf("Test of %d devices", cfg.Devices))
		res, err := simulation.Run(ctx, cfg, buf)
		if err != nil {
			return err
		}
		fmt.Fprint(out, receiverSection(res.Receiver))
		logger.LogAttrs(
			ctx,
			slog.LevelInfo,
			"Test finished",
			slog.String("run_id", res.RunID),
			slog.Duration("elapsed", res.Elapsed),
			slog.Int("buffered_readings", buf.Len()),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func senderSection(rep *ntttcp.Report) string {
	return fmt.Sprintf("\n\n===== Sender Output =====\n%s\n", rep.Totals)
}

func receiverSection(rep *ntttcp.Report) string {
	return fmt.Sprintf("\n\n\n===== Receiver Output =====\n%s\n\n\n", rep.Totals)
}
