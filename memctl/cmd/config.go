package cmd

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/memctl/datarecording"
	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/instrumentation/tracing"
	"github.com/sarchlab/memctl/pins"
	"github.com/sarchlab/memctl/timing"
)

// pinPresets are the board wirings that --pins accepts.
var pinPresets = map[string]func() (pins.Sdram, error){
	"h747i-disco": func() (pins.Sdram, error) {
		return pins.H747IDiscoSdram().Validate()
	},
	"h7-bank1-16": func() (pins.Sdram, error) {
		return pins.H7Bank1Sdram16().Validate()
	},
}

func pinPresetNames() []string {
	names := make([]string, 0, len(pinPresets))
	for name := range pinPresets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// sdramTarget resolves the bank the part sits on. Without a preset the bank
// comes from the configuration; with one, the validated bus decides it.
func sdramTarget(c config, preset string) (fmc.SdramBank, *pins.Sdram, error) {
	if preset == "" {
		return c.bank, nil, nil
	}

	validate, ok := pinPresets[strings.ToLower(strings.TrimSpace(preset))]
	if !ok {
		return 0, nil, fmt.Errorf("pins %q: must be one of %s",
			preset, strings.Join(pinPresetNames(), ", "))
	}

	bus, err := validate()
	if err != nil {
		return 0, nil, fmt.Errorf("pins %s: %w", preset, err)
	}

	return bus.Layout().Bank, &bus, nil
}

type config struct {
	chip        string
	bank        fmc.SdramBank
	kernel      timing.Freq
	trace       string
	record      string
	monitorPort int
}

func readConfig(cmd *cobra.Command) (config, error) {
	f := cmd.Flags()

	c := config{}
	c.chip, _ = f.GetString("chip")
	c.trace, _ = f.GetString("trace")
	c.record, _ = f.GetString("record")
	c.monitorPort, _ = f.GetInt("monitor-port")

	bank, _ := f.GetInt("bank")
	c.bank = fmc.SdramBank(bank)

	if !c.bank.Valid() {
		return c, fmt.Errorf("bank %d: must be 1 or 2", bank)
	}

	hz, _ := f.GetUint64("kernel-clock")
	if hz == 0 {
		return c, fmt.Errorf("kernel clock must not be zero")
	}

	c.kernel = timing.Freq(hz)

	return c, nil
}

// attachTracers connects the trace and record outputs to a driver. The
// returned recorder is nil when nothing is recorded.
func attachTracers(c config, domain hooking.Hookable) datarecording.DataRecorder {
	switch c.trace {
	case "":
	case "-":
		tracing.CollectTrace(domain,
			tracing.NewLogTracer(log.New(os.Stderr, "", 0)))
	default:
		w := tracing.NewCSVTraceWriter(c.trace)
		if err := w.Init(); err != nil {
			log.Fatalf("Error creating trace: %v", err)
		}

		tracing.CollectTrace(domain, w)
		fmt.Fprintf(os.Stderr, "Trace written to %s\n", w.Path())
	}

	if c.record == "" {
		return nil
	}

	recorder, err := datarecording.New(c.record)
	if err != nil {
		atexit.Fatalf("Error creating recording: %v", err)
	}

	atexit.Register(func() { _ = recorder.Close() })

	t, err := tracing.NewDBTracer(recorder)
	if err != nil {
		atexit.Fatalf("Error creating recording: %v", err)
	}

	tracing.CollectTrace(domain, t)

	return recorder
}
