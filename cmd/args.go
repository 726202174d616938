package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/iot-ntttcp-simulator/pkg/ntttcp"
)

var argsCmd = &cobra.Command{
	Use:          "args",
	Short:        "Print the NTttcp command lines a run would execute",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := benchmarkConfig()
		if cfg.Streams == 0 {
			cfg.Streams = viper.GetInt("devices.count")
		}
		cfg = cfg.WithDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "receiver: %s\n", formatCommand(cfg.Command(ntttcp.Receiver)))
		fmt.Fprintf(out, "sender:   %s\n", formatCommand(cfg.Command(ntttcp.Sender)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(argsCmd)
}

func formatCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			quoted[i] = strconv.Quote(a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
