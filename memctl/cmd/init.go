package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memctl/datarecording"
	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/fmcsim"
	"github.com/sarchlab/memctl/instrumentation/tracing"
	"github.com/sarchlab/memctl/monitoring"
	"github.com/sarchlab/memctl/sdram"
)

// CommandTable is the table that holds the SDRAM commands of a recorded run.
const CommandTable = "commands"

type commandEntry struct {
	ID           uint64
	AtNs         int64
	Mode         string
	Bank1        bool
	Bank2        bool
	ModeRegister uint32
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Power up an SDRAM part on the simulated controller.",
	Long: "`init --chip MT48LC4M32B2-6 --bank 2` programs the controller, " +
		"runs the power-up sequence and prints the memory window and the " +
		"commands the part received.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		c, err := readConfig(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		chip, err := devices.Sdram(c.chip)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		preset, _ := cmd.Flags().GetString("pins")

		sim, ctrl, err := buildController(c, chip, preset)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		recorder := attachTracers(c, ctrl)

		monitor, _ := cmd.Flags().GetBool("monitor")
		if monitor {
			startMonitor(cmd, c, sim, ctrl)
		}

		region, err := ctrl.Init(sim.Clock())
		if err != nil {
			atexit.Fatalf("Error: %v (state %s)", err, ctrl.State())
		}

		if recorder != nil {
			recordCommands(recorder, sim.Commands())
		}

		report(ctrl, sim, region)

		wait, _ := cmd.Flags().GetBool("wait")
		if monitor && wait {
			fmt.Fprintln(os.Stderr, "Press Ctrl-C to stop the monitor.")

			ch := make(chan os.Signal, 1)
			signal.Notify(ch, os.Interrupt)
			<-ch
		}
	},
}

// buildController attaches the part to a simulated controller and builds
// the driver for it. A pin preset replaces the configured bank.
func buildController(
	c config,
	chip sdram.Chip,
	preset string,
) (*fmcsim.Comp, *sdram.Comp, error) {
	bank, bus, err := sdramTarget(c, preset)
	if err != nil {
		return nil, nil, err
	}

	sdclk, err := sdram.SdClock(chip.Config(), chip.Timing(), c.kernel)
	if err != nil {
		return nil, nil, err
	}

	sim := fmcsim.MakeBuilder().
		WithKernelClock(c.kernel).
		WithSdram(bank, fmcsim.RequirementsFor(chip, sdclk)).
		Build("FMC")

	var ctrl *sdram.Comp
	if bus != nil {
		ctrl, err = sdram.New(sim, *bus, chip)
	} else {
		ctrl, err = sdram.NewUnchecked(sim, bank, chip)
	}

	if err != nil {
		return nil, nil, err
	}

	return sim, ctrl, nil
}

func startMonitor(
	cmd *cobra.Command,
	c config,
	sim *fmcsim.Comp,
	ctrl *sdram.Comp,
) {
	counter := tracing.NewCountTracer()
	tracing.CollectTrace(ctrl, counter)

	m := monitoring.NewMonitor().WithPortNumber(c.monitorPort)
	m.RegisterComponent(ctrl)
	m.RegisterController(sim)
	m.RegisterCounter(counter)
	m.TrackSequence(ctrl)

	port, err := m.StartServer()
	if err != nil {
		atexit.Fatalf("Error starting monitor: %v", err)
	}

	open, _ := cmd.Flags().GetBool("open")
	if !open {
		return
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	if err := browser.OpenURL(url); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open %s: %v\n", url, err)
	}
}

func recordCommands(
	recorder datarecording.DataRecorder,
	cmds []fmcsim.CommandRecord,
) {
	if err := recorder.CreateTable(CommandTable, commandEntry{}); err != nil {
		atexit.Fatalf("Error recording commands: %v", err)
	}

	for _, r := range cmds {
		err := recorder.InsertData(CommandTable, commandEntry{
			ID:           r.ID,
			AtNs:         r.At.Nanoseconds(),
			Mode:         r.Mode.String(),
			Bank1:        r.Bank1,
			Bank2:        r.Bank2,
			ModeRegister: r.ModeRegister,
		})
		if err != nil {
			atexit.Fatalf("Error recording commands: %v", err)
		}
	}
}

func report(ctrl *sdram.Comp, sim *fmcsim.Comp, region sdram.Region) {
	fmt.Printf("%s %s on %s at %s: %s\n",
		ctrl.Chip().Name(), ctrl.State(), ctrl.Bank(), ctrl.SdClock(), region)
	fmt.Println(ctrl.Snapshot())
	fmt.Println()

	for _, r := range sim.Commands() {
		fmt.Println(r)
	}

	faults := sim.Faults()
	for _, f := range faults {
		fmt.Fprintf(os.Stderr, "fault: %v\n", f)
	}

	if len(faults) > 0 {
		atexit.Exit(2)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("monitor", false, "serve the monitoring page during the run")
	initCmd.Flags().Bool("open", false, "open the monitoring page in a browser")
	initCmd.Flags().Bool("wait", false, "keep the monitor running after the run")
	initCmd.Flags().String("pins", "",
		"board pin preset, h747i-disco or h7-bank1-16; overrides --bank")
}
