package cmd

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "iot-simulator",
	Short:        "Simulate IoT devices while measuring TCP throughput with NTttcp",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger = slog.Default()
	cobra.OnInitialize(initConfig, initLogger)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.iot-simulator/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cobra.CheckErr(viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")))

	flags := rootCmd.PersistentFlags()
	flags.Int("devices.count", 5, "number of simulated devices")
	flags.Duration("devices.min_interval", 500*time.Millisecond, "minimum delay between readings of a device")
	flags.Duration("devices.max_interval", 2*time.Second, "maximum delay between readings of a device")
	flags.Int("buffer.capacity", 0, "maximum number of buffered readings, 0 for unbounded")
	flags.String("ntttcp.path", "ntttcp", "path to the ntttcp executable")
	flags.String("ntttcp.address", "127.0.0.1", "address the receiver binds to and the sender targets")
	flags.Int("ntttcp.port", 5001, "base port")
	flags.Int("ntttcp.streams", 0, "number of streams, 0 for one per device")
	flags.Int("ntttcp.duration", 10, "measurement duration in seconds")
	flags.Duration("ntttcp.grace", 2*time.Second, "delay between starting the receiver and the sender")
	flags.Duration("ntttcp.timeout", 0, "timeout for the whole measurement, 0 for none")
	flags.Int("server.port", 0, "port of the inspection HTTP server, 0 to disable")
	flags.StringSlice("server.token", nil, "allowed API access tokens")
	flags.StringToString("columns", nil, "response column names")

	cobra.CheckErr(viper.BindPFlags(flags))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/iot-simulator")
		viper.AddConfigPath("$HOME/.iot-simulator")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err == nil {
		logger.LogAttrs(nil, slog.LevelInfo, "Using config file", slog.String("config", viper.ConfigFileUsed()))
	}
}

func initLogger() {
	logLevel := viper.GetString("log.level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		logger.LogAttrs(nil, slog.LevelWarn, "Invalid log level, using info", slog.String("level", logLevel))
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
