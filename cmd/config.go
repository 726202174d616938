package cmd

import (
	"time"

	"github.com/spf13/viper"

	"github.com/niktheblak/iot-ntttcp-simulator/internal/simulation"
	"github.com/niktheblak/iot-ntttcp-simulator/pkg/ntttcp"
)

func benchmarkConfig() ntttcp.Config {
	return ntttcp.Config{
		Path:     viper.GetString("ntttcp.path"),
		Streams:  viper.GetInt("ntttcp.streams"),
		Address:  viper.GetString("ntttcp.address"),
		Port:     viper.GetInt("ntttcp.port"),
		Duration: time.Duration(viper.GetInt("ntttcp.duration")) * time.Second,
		Grace:    viper.GetDuration("ntttcp.grace"),
		Timeout:  viper.GetDuration("ntttcp.timeout"),
		Logger:   logger,
	}
}

func simulationConfig() simulation.Config {
	return simulation.Config{
		Devices:     viper.GetInt("devices.count"),
		MinInterval: viper.GetDuration("devices.min_interval"),
		MaxInterval: viper.GetDuration("devices.max_interval"),
		Benchmark:   benchmarkConfig(),
		Logger:      logger,
	}
}
