package cosmo_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/numeric"
)

var _ = Describe("Params", func() {
	It("accepts every parameter at either end of its range", func() {
		Expect(cosmo.ParamsFromVector(cosmo.Minima).Validate()).To(Succeed())
		Expect(cosmo.ParamsFromVector(cosmo.Maxima).Validate()).To(Succeed())
		Expect(cosmo.Fiducial().Validate()).To(Succeed())
	})

	It("round-trips through the vector form", func() {
		p := cosmo.Fiducial()
		Expect(cosmo.ParamsFromVector(p.Vector())).To(Equal(p))
	})

	DescribeTable("rejects a single parameter outside its range",
		func(idx int, bound numeric.Bound) {
			v := cosmo.Fiducial().Vector()
			width := cosmo.Maxima[idx] - cosmo.Minima[idx]
			if bound == numeric.Lower {
				v[idx] = cosmo.Minima[idx] - 1e-6*width
			} else {
				v[idx] = cosmo.Maxima[idx] + 1e-6*width
			}

			err := cosmo.ParamsFromVector(v).Validate()
			Expect(err).To(MatchError(numeric.ErrParameterOutOfRange))

			var pe *numeric.ParameterError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Index).To(Equal(idx))
			Expect(pe.Name).To(Equal(cosmo.ParamNames[idx]))
			Expect(pe.Bound).To(Equal(bound))
		},
		Entry("Omega_b low", cosmo.IdxOmegaB, numeric.Lower),
		Entry("Omega_b high", cosmo.IdxOmegaB, numeric.Upper),
		Entry("Omega_m low", cosmo.IdxOmegaM, numeric.Lower),
		Entry("Omega_m high", cosmo.IdxOmegaM, numeric.Upper),
		Entry("Sum_m_nu low", cosmo.IdxSumMNu, numeric.Lower),
		Entry("Sum_m_nu high", cosmo.IdxSumMNu, numeric.Upper),
		Entry("n_s low", cosmo.IdxNS, numeric.Lower),
		Entry("n_s high", cosmo.IdxNS, numeric.Upper),
		Entry("h low", cosmo.IdxH, numeric.Lower),
		Entry("h high", cosmo.IdxH, numeric.Upper),
		Entry("w_0 low", cosmo.IdxW0, numeric.Lower),
		Entry("w_0 high", cosmo.IdxW0, numeric.Upper),
		Entry("w_a low", cosmo.IdxWA, numeric.Lower),
		Entry("w_a high", cosmo.IdxWA, numeric.Upper),
		Entry("A_s low", cosmo.IdxAs, numeric.Lower),
		Entry("A_s high", cosmo.IdxAs, numeric.Upper),
	)

	It("rejects NaN", func() {
		p := cosmo.Fiducial()
		p.H = math.NaN()
		Expect(p.Validate()).To(MatchError(numeric.ErrParameterOutOfRange))
	})

	It("maps the admissible box onto [-1, 1]", func() {
		lo := cosmo.ParamsFromVector(cosmo.Minima).Normalized()
		hi := cosmo.ParamsFromVector(cosmo.Maxima).Normalized()
		for i := 0; i < cosmo.NumParams; i++ {
			Expect(lo[i]).To(BeNumerically("~", -1, 1e-12))
			Expect(hi[i]).To(BeNumerically("~", 1, 1e-12))
		}

		n := cosmo.Fiducial().Normalized()
		Expect(n[cosmo.IdxOmegaM]).To(BeNumerically("~", 0, 1e-12))
		Expect(n[cosmo.IdxSumMNu]).To(BeNumerically("~", -1, 1e-12))
		Expect(n[cosmo.IdxAs]).To(BeNumerically("~", 0, 1e-9))
	})
})
