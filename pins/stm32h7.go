package pins

import (
	"fmt"
	"sort"
)

// A Catalog maps pin names to the controller signals each pin can carry in
// its memory-controller alternate function.
type Catalog map[string][]Signal

// Pin returns the named pin.
func (c Catalog) Pin(name string) (Pin, error) {
	sigs, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("pins: no pin %q in catalog", name)
	}

	return New(name, sigs...), nil
}

// MustPin is Pin for names fixed at build time.
func (c Catalog) MustPin(name string) Pin {
	p, err := c.Pin(name)
	if err != nil {
		panic(err)
	}

	return p
}

// Names lists the catalog's pins in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// STM32H7 is the AF12 mapping of the STM32H743/H747 LQFP176 and TFBGA240
// packages.
var STM32H7 = Catalog{
	"PF0":  {A0},
	"PF1":  {A1},
	"PF2":  {A2},
	"PF3":  {A3},
	"PF4":  {A4},
	"PF5":  {A5},
	"PF12": {A6},
	"PF13": {A7},
	"PF14": {A8},
	"PF15": {A9},
	"PG0":  {A10},
	"PG1":  {A11},
	"PG2":  {A12},
	"PG3":  {A13},
	"PG4":  {A14, BA0},
	"PG5":  {A15, BA1},
	"PD11": {A16},
	"PD12": {A17},
	"PD13": {A18},

	"PD14": {D0},
	"PD15": {D1},
	"PD0":  {D2},
	"PD1":  {D3},
	"PE7":  {D4},
	"PE8":  {D5},
	"PE9":  {D6},
	"PE10": {D7},
	"PE11": {D8},
	"PE12": {D9},
	"PE13": {D10},
	"PE14": {D11},
	"PE15": {D12},
	"PD8":  {D13},
	"PD9":  {D14},
	"PD10": {D15},
	"PH8":  {D16},
	"PH9":  {D17},
	"PH10": {D18},
	"PH11": {D19},
	"PH12": {D20},
	"PH13": {D21},
	"PH14": {D22},
	"PH15": {D23},
	"PI0":  {D24},
	"PI1":  {D25},
	"PI2":  {D26},
	"PI3":  {D27},
	"PI6":  {D28},
	"PI7":  {D29},
	"PI9":  {D30},
	"PI10": {D31},

	"PE0": {NBL0},
	"PE1": {NBL1},
	"PI4": {NBL2},
	"PI5": {NBL3},

	"PG8":  {SDCLK},
	"PG15": {SDNCAS},
	"PF11": {SDNRAS},
	"PH5":  {SDNWE},
	"PC0":  {SDNWE},
	"PA7":  {SDNWE},
	"PH2":  {SDCKE0},
	"PC3":  {SDCKE0},
	"PC5":  {SDCKE0},
	"PH3":  {SDNE0},
	"PC2":  {SDNE0},
	"PC4":  {SDNE0},
	"PH7":  {SDCKE1},
	"PB5":  {SDCKE1},
	"PH6":  {SDNE1},
	"PB6":  {SDNE1},

	"PD4": {NOE},
	"PD5": {NWE},
	"PG9": {NCE},
	"PD6": {NWAIT},
	"PG7": {INT},
}
