package always

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("sequentialRaceTracker", func() {
	It("flags a violation only when both a trigger and another driver glitch in the same tick", func() {
		var t sequentialRaceTracker
		t.ResetTick()
		t.NoteTriggerGlitch()
		Expect(t.Violation()).To(BeFalse())

		t.NoteOtherGlitch()
		Expect(t.Violation()).To(BeTrue())

		t.ResetViolation()
		Expect(t.Violation()).To(BeFalse())
	})

	It("does not flag a violation for repeated glitches on the same side", func() {
		var t sequentialRaceTracker
		t.ResetTick()
		t.NoteTriggerGlitch()
		t.NoteTriggerGlitch()
		Expect(t.Violation()).To(BeFalse())
	})
})
