package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/ntttcptest"
)

// execute runs the root command with args and returns its standard output.
// Flags changed by the invocation are restored afterwards.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Cleanup(resetFlags)
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func resetFlags() {
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	rootCmd.SetArgs(nil)
	rootCmd.SetOut(nil)
}

func TestRunCommand(t *testing.T) {
	tool := ntttcptest.New(t,
		ntttcptest.Behavior{Stdout: ntttcptest.Report("receiver", "RECV TOTALS")},
		ntttcptest.Behavior{Stdout: ntttcptest.Report("sender", "SEND TOTALS")},
	)
	out := execute(t, "run",
		"--ntttcp.path", tool.Path,
		"--ntttcp.grace", "10ms",
		"--devices.min_interval", "10ms",
		"--devices.max_interval", "20ms",
	)
	assert.Equal(t,
		"\n\n===== Sender Output =====\nSEND TOTALS\n\n"+
			"\n\n\n===== Receiver Output =====\nRECV TOTALS\n\n\n\n",
		out,
	)
	assert.Equal(t, []string{
		"-r -m 5,0,127.0.0.1 -p 5001 -t 10",
		"-s -m 5,0,127.0.0.1 -p 5001 -t 10",
	}, tool.Calls(t))
}

func TestRunCommandFlags(t *testing.T) {
	tool := ntttcptest.New(t, ntttcptest.Behavior{}, ntttcptest.Behavior{})
	execute(t, "run",
		"--ntttcp.path", tool.Path,
		"--ntttcp.grace", "10ms",
		"--ntttcp.port", "6001",
		"--ntttcp.duration", "3",
		"--ntttcp.address", "10.0.0.2",
		"--devices.count", "2",
	)
	assert.Equal(t, []string{
		"-r -m 2,0,10.0.0.2 -p 6001 -t 3",
		"-s -m 2,0,10.0.0.2 -p 6001 -t 3",
	}, tool.Calls(t))
}

func TestRunCommandToolNotFound(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "--ntttcp.path", "/nonexistent/ntttcp.exe", "--ntttcp.grace", "10ms"})
	t.Cleanup(resetFlags)
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "ntttcp executable not found")
}

func TestArgsCommand(t *testing.T) {
	out := execute(t, "args", "--ntttcp.path", "/opt/ntttcp", "--devices.count", "3", "--ntttcp.port", "6001")
	assert.Equal(t,
		"receiver: /opt/ntttcp -r -m 3,0,127.0.0.1 -p 6001 -t 10\n"+
			"sender:   /opt/ntttcp -s -m 3,0,127.0.0.1 -p 6001 -t 10\n",
		out,
	)
}

func TestLogLevel(t *testing.T) {
	ctx := context.Background()
	t.Run("flag", func(t *testing.T) {
		execute(t, "args", "--log-level", "debug")
		assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
	})
	t.Run("environment", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		execute(t, "args")
		assert.False(t, logger.Enabled(ctx, slog.LevelWarn))
		assert.True(t, logger.Enabled(ctx, slog.LevelError))
	})
	t.Run("default", func(t *testing.T) {
		execute(t, "args")
		assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
		assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
	})
}
