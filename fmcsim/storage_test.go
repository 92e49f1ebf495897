package fmcsim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var s *Storage

	BeforeEach(func() {
		s = NewStorage(16*1024, 0xFF)
	})

	It("should read the fill byte before any write", func() {
		data, err := s.Read(100, 4)

		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{0xFF, 0xFF, 0xFF, 0xFF}))
	})

	It("should write across units", func() {
		err := s.Write(4094, []byte{1, 2, 3, 4})
		Expect(err).ToNot(HaveOccurred())

		data, err := s.Read(4093, 6)

		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{0xFF, 1, 2, 3, 4, 0xFF}))
	})

	It("should reject accesses past the end", func() {
		_, err := s.Read(16*1024-2, 4)
		Expect(err).To(MatchError(ErrBeyondCapacity))

		err = s.Write(16*1024, []byte{0})
		Expect(err).To(MatchError(ErrBeyondCapacity))
	})

	It("should discard whole and partial units", func() {
		Expect(s.Write(0, make([]byte, 8192))).To(Succeed())

		Expect(s.Discard(4096, 4096)).To(Succeed())
		Expect(s.Discard(10, 2)).To(Succeed())

		Expect(s.data).To(HaveLen(1))

		data, _ := s.Read(9, 4)
		Expect(data).To(Equal([]byte{0, 0xFF, 0xFF, 0}))

		data, _ = s.Read(4096, 1)
		Expect(data).To(Equal([]byte{0xFF}))
	})
})

var _ = Describe("Clock", func() {
	It("should advance on delay", func() {
		c := NewClock()

		c.Delay(3)
		c.Delay(4)

		Expect(int64(c.Now())).To(Equal(int64(7)))
		Expect(c.Delays()).To(HaveLen(2))
	})
})
