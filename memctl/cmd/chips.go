package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/sdram"
)

var chipsCmd = &cobra.Command{
	Use:   "chips",
	Short: "List the parts that memctl knows.",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PART\tTYPE\tWIDTH\tSIZE\tMAX CLOCK")

		for _, name := range devices.SdramNames() {
			chip, _ := devices.Sdram(name)
			cfg := chip.Config()

			fmt.Fprintf(w, "%s\tSDRAM\t%d\t%d MiB\t%s\n",
				chip.Name(), cfg.MemoryDataWidth,
				sdram.Capacity(cfg)>>20, chip.Timing().MaxSdClock)
		}

		for _, name := range devices.NandNames() {
			chip, _ := devices.Nand(name)

			fmt.Fprintf(w, "%s\tNAND\t%d\t-\t-\n",
				chip.Name(), chip.Config().DataWidth)
		}

		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chipsCmd)
}
