package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/sdram"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Print the register values for a part at a kernel clock.",
	Long: "`translate --chip IS42S32800G-6 --kernel-clock 200000000` prints " +
		"the SD clock, the timing fields and the power-up sequence. NAND " +
		"parts print the memory space timing instead.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		c, err := readConfig(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if chip, err := devices.Sdram(c.chip); err == nil {
			translateSdram(c, chip)
			return
		}

		chip, err := devices.Nand(c.chip)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		regs, err := nand.Translate(chip.Timing(), c.kernel)
		if err != nil {
			log.Fatalf("Error translating %s: %v", chip.Name(), err)
		}

		fmt.Printf("%s at %s\n", chip.Name(), regs.Clock)
		fmt.Printf("SET %d  WAIT %d  HOLD %d  ATTHOLD %d  HIZ %d  TAR %d  TCLR %d\n",
			regs.Set, regs.Wait, regs.Hold, regs.AttHold, regs.HiZ,
			regs.TAR, regs.TCLR)
	},
}

func translateSdram(c config, chip sdram.Chip) {
	sdclk, err := sdram.SdClock(chip.Config(), chip.Timing(), c.kernel)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	regs, err := sdram.TranslateKernel(chip.Config(), chip.Timing(), c.kernel)
	if err != nil {
		log.Fatalf("Error translating %s: %v", chip.Name(), err)
	}

	fmt.Printf("%s on %s, kernel %s, SD clock %s\n",
		chip.Name(), c.bank, c.kernel, sdclk)
	fmt.Printf("TMRD %d  TXSR %d  TRAS %d  TRC %d  TWR %d  TRP %d  TRCD %d\n",
		regs.TMRD, regs.TXSR, regs.TRAS, regs.TRC, regs.TWR, regs.TRP, regs.TRCD)
	fmt.Printf("Refresh count %d\n\n", regs.RefreshCount)

	plan := sdram.NewPlan(c.bank, regs, chip.ModeRegister())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTATE\tCOMMAND\tHOLD")

	for i, s := range plan.Steps {
		command := "arm refresh"
		if s.IssuesCommand() {
			command = s.Command.String()
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", i+1, s.State, command, s.Hold)
	}

	_ = w.Flush()

	fmt.Printf("\nTotal %v\n", plan.Duration())
}

func init() {
	rootCmd.AddCommand(translateCmd)
}
