package cosmo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/integrators"
	"github.com/san-kum/nlcemu/internal/numeric"
)

func massive() cosmo.Params {
	p := cosmo.Fiducial()
	p.SumMNu = 0.15
	return p
}

func dynamicalDE() cosmo.Params {
	p := cosmo.Fiducial()
	p.W0 = -0.8
	p.WA = -0.5
	return p
}

var _ = Describe("Expansion", func() {
	var q *integrators.Adaptive

	BeforeEach(func() {
		q = integrators.NewAdaptive()
	})

	DescribeTable("is normalised to H0 today and flat at every epoch",
		func(p cosmo.Params) {
			e, err := cosmo.NewExpansion(p, q)
			Expect(err).NotTo(HaveOccurred())

			h, err := e.Hubble(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(h).To(BeNumerically("~", 1, 1e-12))

			for _, a := range []float64{1e-6, 1e-3, 0.09, 0.5, 1} {
				om, err := e.OmegaMatter(a)
				Expect(err).NotTo(HaveOccurred())
				og, err := e.OmegaGamma(a)
				Expect(err).NotTo(HaveOccurred())
				on, err := e.OmegaNu(a)
				Expect(err).NotTo(HaveOccurred())
				ode, err := e.OmegaDE(a)
				Expect(err).NotTo(HaveOccurred())
				Expect(om+og+on+ode).To(BeNumerically("~", 1, 1e-10), "a=%g", a)
			}
		},
		Entry("fiducial", cosmo.Fiducial()),
		Entry("massive neutrinos", massive()),
		Entry("dynamical dark energy", dynamicalDE()),
	)

	It("has the photon density of a 2.7255 K black body", func() {
		e, err := cosmo.NewExpansion(cosmo.Fiducial(), q)
		Expect(err).NotTo(HaveOccurred())
		h := cosmo.Fiducial().H
		Expect(e.OmegaGamma0() * h * h).To(BeNumerically("~", 2.473e-5, 0.01e-5))
	})

	It("treats massless neutrinos as radiation", func() {
		e, err := cosmo.NewExpansion(cosmo.Fiducial(), q)
		Expect(err).NotTo(HaveOccurred())
		ratio := cosmo.NEff * 7.0 / 8.0 * math.Pow(4.0/11.0, 4.0/3.0)
		Expect(e.OmegaNu0() / e.OmegaGamma0()).To(BeNumerically("~", ratio, 1e-12))
		Expect(e.OmegaCB0()).To(Equal(cosmo.Fiducial().OmegaM))
	})

	It("counts massive neutrinos as matter today", func() {
		p := massive()
		e, err := cosmo.NewExpansion(p, q)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.OmegaNu0() * p.H * p.H).To(BeNumerically("~", p.SumMNu/93.0, 0.02*p.SumMNu/93.0))
		Expect(e.OmegaCB0() + e.OmegaNu0()).To(BeNumerically("~", p.OmegaM, 1e-15))
	})

	It("recovers the relativistic neutrino integral numerically", func() {
		v, err := q.Integrate("rho_nu_i", cosmo.RhoNuIntegrand(0), 0, 60)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 7*math.Pow(math.Pi, 4)/120, 1e-8))
	})

	It("keeps the age integrand finite as a approaches zero", func() {
		e, err := cosmo.NewExpansion(massive(), q)
		Expect(err).NotTo(HaveOccurred())

		v, err := e.A2TIntegrand(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeZero())

		for _, a := range []float64{1e-12, 1e-8, 1e-4} {
			v, err := e.A2TIntegrand(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsInf(v, 0) || math.IsNaN(v)).To(BeFalse())
			Expect(v).To(BeNumerically(">", 0))
		}
	})

	It("rejects non-positive scale factors", func() {
		e, err := cosmo.NewExpansion(cosmo.Fiducial(), q)
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Hubble(0)
		Expect(err).To(MatchError(numeric.ErrSplineDomain))
		_, err = e.Hubble(-0.5)
		Expect(err).To(MatchError(numeric.ErrSplineDomain))
	})
})
