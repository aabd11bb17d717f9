package emulator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
	"github.com/san-kum/nlcemu/internal/emulator/emutest"
	"github.com/san-kum/nlcemu/internal/numeric"
)

var _ = Describe("CoefficientTable", func() {
	It("accepts the synthetic table", func() {
		Expect(emutest.Table().Validate()).To(Succeed())
	})

	It("sizes the production layout like the published file", func() {
		l := emulator.ProductionLayout()
		Expect(l.Len()).To(Equal(962320))
		Expect(emulator.NZ).To(Equal(101))
	})

	DescribeTable("rejects malformed tables",
		func(mutate func(t *emulator.CoefficientTable)) {
			t := emutest.Table()
			mutate(t)
			err := t.Validate()
			Expect(err).To(MatchError(numeric.ErrLoad))
		},
		Entry("too few wavenumbers", func(t *emulator.CoefficientTable) { t.Wavenumbers = t.Wavenumbers[:2] }),
		Entry("non-positive wavenumber", func(t *emulator.CoefficientTable) { t.Wavenumbers[0] = 0 }),
		Entry("unsorted wavenumbers", func(t *emulator.CoefficientTable) { t.Wavenumbers[3] = t.Wavenumbers[2] }),
		Entry("short component", func(t *emulator.CoefficientTable) {
			t.Components[4].Values = t.Components[4].Values[1:]
		}),
		Entry("wrong step count", func(t *emulator.CoefficientTable) { t.Components[0].NZ = 100 }),
		Entry("coefficient without multi-index", func(t *emulator.CoefficientTable) {
			t.Coefficients[2] = append(t.Coefficients[2], 1)
		}),
		Entry("non-finite coefficient", func(t *emulator.CoefficientTable) { t.Coefficients[0][1] = math.Inf(1) }),
		Entry("degree above lmax", func(t *emulator.CoefficientTable) {
			t.MultiIndices[5][0][cosmo.IdxAs] = emulator.LMax + 1
		}),
	)

	Describe("MultiIndicesFromFloats", func() {
		It("converts whole rows", func() {
			mi, err := emulator.MultiIndicesFromFloats([]float64{
				0, 0, 2, 0, 0, 0, 0, 0,
				1, 0, 0, 0, 3, 0, 0, 16,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mi).To(HaveLen(2))
			Expect(mi[0][cosmo.IdxSumMNu]).To(BeEquivalentTo(2))
			Expect(mi[1].Degree()).To(Equal(20))
		})

		DescribeTable("rejects bad entries",
			func(v float64) {
				vals := make([]float64, cosmo.NumParams)
				vals[3] = v
				_, err := emulator.MultiIndicesFromFloats(vals)
				Expect(err).To(MatchError(numeric.ErrDimensionMismatch))
			},
			Entry("fractional", 1.5),
			Entry("negative", -1.0),
			Entry("too large", 17.0),
			Entry("NaN", math.NaN()),
		)

		It("rejects a ragged table", func() {
			_, err := emulator.MultiIndicesFromFloats(make([]float64, 12))
			Expect(err).To(MatchError(numeric.ErrDimensionMismatch))
		})
	})

	Describe("Encode and Decode", func() {
		It("round-trip the synthetic table", func() {
			t := emutest.Table()
			flat := emulator.Encode(t)
			l := emulator.LayoutOf(t)
			Expect(flat).To(HaveLen(l.Len()))

			back, err := emulator.Decode(l, flat)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(Equal(t))
		})

		It("rejects data of the wrong length", func() {
			t := emutest.Table()
			flat := emulator.Encode(t)
			_, err := emulator.Decode(emulator.LayoutOf(t), flat[:len(flat)-1])
			Expect(err).To(MatchError(numeric.ErrLoad))
		})

		It("reports malformed multi-indices as load errors", func() {
			t := emutest.Table()
			l := emulator.LayoutOf(t)
			flat := emulator.Encode(t)
			// first multi-index value sits after the grids and coefficients
			off := emulator.NumComponents*l.NK*emulator.NZ + 3*emulator.NumWeighted
			flat[off] = 0.5
			_, err := emulator.Decode(l, flat)
			Expect(err).To(MatchError(numeric.ErrLoad))
			Expect(err).To(MatchError(numeric.ErrDimensionMismatch))
		})
	})
})
