package nand_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memctl/devices"
	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/timing"
)

var _ = Describe("Translate", func() {
	var t nand.Timing

	BeforeEach(func() {
		t = devices.S34ML08G3.Timing()
	})

	It("should translate a fast part", func() {
		r, err := nand.Translate(t, 200*timing.MHz)

		Expect(err).ToNot(HaveOccurred())
		Expect(r).To(Equal(nand.Registers{
			Clock:   200 * timing.MHz,
			Set:     0,
			Wait:    1,
			Hold:    1,
			AttHold: 6,
			HiZ:     4,
			TAR:     0,
			TCLR:    0,
		}))
	})

	It("should stretch the hold to the cycle time", func() {
		t.ReadCycle = 50 * time.Nanosecond

		r, err := nand.Translate(t, 100*timing.MHz)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.Wait + 1 + r.Hold + r.Set + 1).To(BeNumerically(">=", 5))
		Expect(r.Hold).To(Equal(uint64(2)))
	})

	It("should keep the attribute hold at least the common hold", func() {
		t.WriteToBusy = 0
		t.WriteCycle = 100 * time.Nanosecond

		r, err := nand.Translate(t, 200*timing.MHz)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.AttHold).To(Equal(r.Hold))
	})

	It("should derive TAR and TCLR from the setup time", func() {
		t.AleToRead = 40 * time.Nanosecond
		t.CleToRead = 20 * time.Nanosecond

		r, err := nand.Translate(t, 200*timing.MHz)

		Expect(err).ToNot(HaveOccurred())
		Expect(r.Set).To(Equal(uint64(5)))
		Expect(r.TAR).To(Equal(uint64(1)))
		Expect(r.TCLR).To(BeZero())
	})

	It("should reject a pulse longer than the field", func() {
		t.ReadPulse = 3 * time.Microsecond

		_, err := nand.Translate(t, 200*timing.MHz)

		Expect(err).To(MatchError(timing.ErrOutOfRange))
	})
})
