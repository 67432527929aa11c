package cos_test

import (
	"strings"

	"github.com/arcwake/wake/cmn/cos"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("GenID", func() {
	It("returns a 5-character id drawn from the 16-symbol alphabet", func() {
		id := cos.GenID()
		Expect(id).To(HaveLen(5))
		for _, r := range id {
			Expect(strings.ContainsRune("1234567890abcdef", r)).To(BeTrue())
		}
	})

	It("is not the same id twice in a row with overwhelming probability", func() {
		Expect(cos.GenID()).NotTo(Equal(cos.GenID()))
	})
})

var _ = Describe("Errs", func() {
	It("returns nil when nothing was added", func() {
		var e cos.Errs
		Expect(e.Err()).To(BeNil())
		Expect(e.Cnt()).To(Equal(0))
	})

	It("returns the sole error when exactly one distinct error is added", func() {
		var e cos.Errs
		e.Add(errString("boom"))
		Expect(e.Err()).To(MatchError("boom"))
	})

	It("deduplicates identical error messages", func() {
		var e cos.Errs
		e.Add(errString("boom"))
		e.Add(errString("boom"))
		Expect(e.Cnt()).To(Equal(2))
		Expect(e.Err()).To(MatchError("boom"))
	})

	It("summarizes multiple distinct errors", func() {
		var e cos.Errs
		e.Add(errString("first"))
		e.Add(errString("second"))
		Expect(e.Err().Error()).To(ContainSubstring("first"))
		Expect(e.Err().Error()).To(ContainSubstring("1 more"))
	})

	It("ignores a nil error", func() {
		var e cos.Errs
		e.Add(nil)
		Expect(e.Err()).To(BeNil())
		Expect(e.Cnt()).To(Equal(0))
	})
})

type errString string

func (e errString) Error() string { return string(e) }
