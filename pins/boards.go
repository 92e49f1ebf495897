package pins

// H747IDiscoSdram returns the SDRAM wiring of the STM32H747I-DISCO board: a
// 32-bit IS42S32800G on controller bank 2. A12 is routed to PG2 so the same
// layout serves 8192-row parts.
func H747IDiscoSdram() SdramBus[Address13, Banks4, Data32, SelectBank2] {
	p := STM32H7.MustPin

	return SdramBus[Address13, Banks4, Data32, SelectBank2]{
		Address: Address13{
			p("PF0"), p("PF1"), p("PF2"), p("PF3"), p("PF4"), p("PF5"),
			p("PF12"), p("PF13"), p("PF14"), p("PF15"), p("PG0"), p("PG1"),
			p("PG2"),
		},
		Banks: Banks4{BA0: p("PG4"), BA1: p("PG5")},
		Data: Data32{
			D: [32]Pin{
				p("PD14"), p("PD15"), p("PD0"), p("PD1"),
				p("PE7"), p("PE8"), p("PE9"), p("PE10"),
				p("PE11"), p("PE12"), p("PE13"), p("PE14"),
				p("PE15"), p("PD8"), p("PD9"), p("PD10"),
				p("PH8"), p("PH9"), p("PH10"), p("PH11"),
				p("PH12"), p("PH13"), p("PH14"), p("PH15"),
				p("PI0"), p("PI1"), p("PI2"), p("PI3"),
				p("PI6"), p("PI7"), p("PI9"), p("PI10"),
			},
			NBL: [4]Pin{p("PE0"), p("PE1"), p("PI4"), p("PI5")},
		},
		Select: SelectBank2{SDCKE1: p("PH7"), SDNE1: p("PH6")},
		SDCLK:  p("PG8"),
		SDNCAS: p("PG15"),
		SDNRAS: p("PF11"),
		SDNWE:  p("PH5"),
	}
}

// H7Bank1Sdram16 returns a 16-bit SDRAM wiring on controller bank 1, as
// found on the STM32H743I-EVAL and similar boards.
func H7Bank1Sdram16() SdramBus[Address13, Banks4, Data16, SelectBank1] {
	p := STM32H7.MustPin

	return SdramBus[Address13, Banks4, Data16, SelectBank1]{
		Address: Address13{
			p("PF0"), p("PF1"), p("PF2"), p("PF3"), p("PF4"), p("PF5"),
			p("PF12"), p("PF13"), p("PF14"), p("PF15"), p("PG0"), p("PG1"),
			p("PG2"),
		},
		Banks: Banks4{BA0: p("PG4"), BA1: p("PG5")},
		Data: Data16{
			D: [16]Pin{
				p("PD14"), p("PD15"), p("PD0"), p("PD1"),
				p("PE7"), p("PE8"), p("PE9"), p("PE10"),
				p("PE11"), p("PE12"), p("PE13"), p("PE14"),
				p("PE15"), p("PD8"), p("PD9"), p("PD10"),
			},
			NBL: [2]Pin{p("PE0"), p("PE1")},
		},
		Select: SelectBank1{SDCKE0: p("PH2"), SDNE0: p("PH3")},
		SDCLK:  p("PG8"),
		SDNCAS: p("PG15"),
		SDNRAS: p("PF11"),
		SDNWE:  p("PH5"),
	}
}

// H7Nand8 returns an 8-bit NAND wiring using the default STM32H7 pins.
func H7Nand8() NandBus[NandData8] {
	p := STM32H7.MustPin

	return NandBus[NandData8]{
		Data: NandData8{D: [8]Pin{
			p("PD14"), p("PD15"), p("PD0"), p("PD1"),
			p("PE7"), p("PE8"), p("PE9"), p("PE10"),
		}},
		ALE:   p("PD12"),
		CLE:   p("PD11"),
		NOE:   p("PD4"),
		NWE:   p("PD5"),
		NCE:   p("PG9"),
		NWAIT: p("PD6"),
	}
}
