package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/pins"
)

var nandCmd = &cobra.Command{
	Use:   "nand",
	Short: "Work with a NAND part on the simulated controller.",
}

var nandIDCmd = &cobra.Command{
	Use:   "id",
	Short: "Initialize the NAND part and print its identification.",
	Long: "`nand id` programs the NAND timing on the " +
		"default STM32H7 pins, resets the part and prints READ ID, the " +
		"ONFI parameter page and the unique ID.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		c, err := readConfig(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		if !cmd.Flags().Changed("chip") {
			c.chip = devices.S34ML08G3.Name()
		}

		chip, err := devices.Nand(c.chip)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		bus, err := pins.H7Nand8().Validate()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		sim := fmcsim.MakeBuilder().
			WithKernelClock(c.kernel).
			WithNand(fmcsim.DefaultNandGeometry).
			Build("FMC")

		ctrl, err := nand.New(sim, bus, chip)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		attachTracers(c, ctrl)

		dev, err := ctrl.Init(sim.Clock())
		if err != nil {
			atexit.Fatalf("Error: %v", err)
		}

		fmt.Printf("%s at %s\n", chip.Name(), ctrl.Timing().Clock)
		fmt.Printf("ID         %s\n", dev.ReadID())

		page := dev.ReadParameterPage()
		if page.Valid() {
			fmt.Printf("ONFI       %s %s, %d+%d byte pages, %d pages/block, %d blocks\n",
				page.Manufacturer, page.Model,
				page.DataBytesPerPage, page.SpareBytesPerPage,
				page.PagesPerBlock, page.BlocksPerLUN)
		} else {
			fmt.Println("ONFI       no parameter page")
		}

		fmt.Printf("Unique ID  %x\n", dev.ReadUniqueID())
		fmt.Printf("Status     %s\n", dev.Status())

		for _, f := range sim.Faults() {
			fmt.Printf("fault: %v\n", f)
		}
	},
}

func init() {
	rootCmd.AddCommand(nandCmd)
	nandCmd.AddCommand(nandIDCmd)
}
