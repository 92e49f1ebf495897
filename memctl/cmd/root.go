// Package cmd provides the command-line interface for memctl.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// flagEnv maps flags to the environment variables that give their defaults.
var flagEnv = map[string]string{
	"chip":         "MEMCTL_CHIP",
	"bank":         "MEMCTL_BANK",
	"kernel-clock": "MEMCTL_KERNEL_CLOCK_HZ",
	"trace":        "MEMCTL_TRACE",
	"record":       "MEMCTL_RECORD",
	"monitor-port": "MEMCTL_MONITOR_PORT",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "memctl brings up SDRAM and NAND parts on a simulated FMC.",
	Long: `memctl translates datasheet timings into FMC register values and ` +
		`runs the SDRAM and NAND drivers against a software model of the ` +
		`controller. Defaults are read from MEMCTL_* variables and from a ` +
		`.env file in the working directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loadEnv(envFile); err != nil {
			return err
		}

		return applyEnv(cmd)
	},
}

func init() {
	defineFlags(rootCmd)
}

func defineFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("env-file", ".env", "file to read MEMCTL_* defaults from")
	f.String("chip", "IS42S32800G-6", "part number of the SDRAM or NAND part")
	f.Int("bank", 1, "SDRAM bank of the controller, 1 or 2")
	f.Uint64("kernel-clock", 200_000_000, "FMC kernel clock in Hz")
	f.String("trace", "", "write a CSV trace to this path; - logs to stderr")
	f.String("record", "", "record the run into this SQLite database")
	f.Int("monitor-port", 0, "port of the monitoring server, 0 picks one")
}

func loadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// applyEnv fills every flag the user did not set from its variable.
func applyEnv(cmd *cobra.Command) error {
	for name, env := range flagEnv {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}

		v, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		if err := cmd.Flags().Set(name, v); err != nil {
			return err
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
