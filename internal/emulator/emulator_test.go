package emulator_test

import (
	"context"
	"errors"
	"math"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nlcemu/internal/cosmo"
	"github.com/san-kum/nlcemu/internal/emulator"
	"github.com/san-kum/nlcemu/internal/emulator/emutest"
	"github.com/san-kum/nlcemu/internal/numeric"
)

var _ = Describe("Emulator", func() {
	var (
		ctx context.Context
		emu *emulator.Emulator
		fid *cosmo.Cosmology
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		emu, err = emulator.New(emutest.Table())
		Expect(err).NotTo(HaveOccurred())
		fid, err = cosmo.New(cosmo.Fiducial())
		Expect(err).NotTo(HaveOccurred())
	})

	It("refuses an invalid table", func() {
		t := emutest.Table()
		t.Wavenumbers[1] = -1
		e, err := emulator.New(t)
		Expect(e).To(BeNil())
		Expect(err).To(MatchError(numeric.ErrLoad))
		var le *numeric.LoadError
		Expect(errors.As(err, &le)).To(BeTrue())
	})

	It("refuses a table with a non-finite grid value", func() {
		t := emutest.Table()
		t.Components[7].Values[10] = math.NaN()
		_, err := emulator.New(t)
		Expect(err).To(MatchError(numeric.ErrLoad))
	})

	It("reports the tabulated wavenumber range", func() {
		lo, hi := emu.WavenumberRange()
		Expect(lo).To(Equal(emutest.KMin))
		Expect(hi).To(Equal(emutest.KMax))
	})

	Describe("PCEWeights", func() {
		It("evaluates the expansion at the fiducial cosmology", func() {
			w := emu.PCEWeights(cosmo.Fiducial().Normalized())
			for p, v := range w {
				Expect(v).To(BeNumerically("~", 1+0.375*math.Sqrt(5), 1e-12), "component %d", p+1)
			}
		})

		It("agrees with the closed form across the box", func() {
			for _, v := range [][cosmo.NumParams]float64{cosmo.Minima, cosmo.Maxima} {
				n := cosmo.ParamsFromVector(v).Normalized()
				w := emu.PCEWeights(n)
				Expect(w[0]).To(BeNumerically("~", emutest.Weight(n), 1e-12))
			}
		})

		It("keeps each component's own coefficients", func() {
			t := emutest.Table()
			t.Coefficients[4] = []float64{3, 0, 0}
			e, err := emulator.New(t)
			Expect(err).NotTo(HaveOccurred())
			w := e.PCEWeights(cosmo.Fiducial().Normalized())
			Expect(w[4]).To(BeNumerically("~", 3, 1e-12))
			Expect(w[3]).To(BeNumerically("~", 1+0.375*math.Sqrt(5), 1e-12))
		})
	})

	Describe("ComputeNLC", func() {
		It("matches the golden value at z = 0, k = 0.1", func() {
			m, err := emu.ComputeNLC(ctx, fid, []float64{0}, []float64{0.1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.At(0, 0)).To(BeNumerically("~", 0.634464464924769, 1e-6*0.634464464924769))
		})

		It("reproduces the closed-form surfaces everywhere", func() {
			zs := []float64{0, 0.3, 1, 2.5, 7, cosmo.ZMax}
			ks := []float64{emutest.KMin, 0.017, 0.1, 0.5, 3, emutest.KMax}
			for _, p := range []cosmo.Params{cosmo.Fiducial(), cosmo.ParamsFromVector(cosmo.Maxima)} {
				c, err := cosmo.New(p)
				Expect(err).NotTo(HaveOccurred())
				m, err := emu.ComputeNLC(ctx, c, zs, ks)
				Expect(err).NotTo(HaveOccurred())
				for iz := range zs {
					for ik, k := range ks {
						want := emutest.NLC(p.Normalized(), k, m.Steps[iz])
						Expect(m.At(iz, ik)).To(BeNumerically("~", want, 1e-9), "z=%g k=%g", zs[iz], k)
					}
				}
			}
		})

		It("reduces to the PCA mean when no expansion terms exist", func() {
			e, err := emulator.New(emutest.MeanOnly())
			Expect(err).NotTo(HaveOccurred())
			m, err := e.ComputeNLC(ctx, fid, []float64{0, 1}, []float64{0.05, 2})
			Expect(err).NotTo(HaveOccurred())
			for iz, step := range m.Steps {
				for ik, k := range m.Wavenumbers {
					Expect(m.At(iz, ik)).To(BeNumerically("~", emutest.Mean(math.Log(k), step), 1e-12))
				}
			}
		})

		It("is idempotent", func() {
			zs, ks := []float64{0, 0.5, 2}, emutest.Wavenumbers()
			a, err := emu.ComputeNLC(ctx, fid, zs, ks)
			Expect(err).NotTo(HaveOccurred())
			b, err := emu.ComputeNLC(ctx, fid, zs, ks)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Values).To(Equal(a.Values))
		})

		It("gives the same answer with one worker or many", func() {
			ks := make([]float64, 200)
			for i := range ks {
				ks[i] = emutest.KMin * math.Pow(emutest.KMax/emutest.KMin, float64(i)/199)
			}
			ks[len(ks)-1] = emutest.KMax
			serial, err := emulator.New(emutest.Table(), emulator.WithWorkers(1))
			Expect(err).NotTo(HaveOccurred())
			wide, err := emulator.New(emutest.Table(), emulator.WithWorkers(8))
			Expect(err).NotTo(HaveOccurred())

			a, err := serial.ComputeNLC(ctx, fid, []float64{0, 1}, ks)
			Expect(err).NotTo(HaveOccurred())
			b, err := wide.ComputeNLC(ctx, fid, []float64{0, 1}, ks)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Values).To(Equal(a.Values))
		})

		It("fills the 3x3 fixture with finite values", func() {
			zs := []float64{0, 1, 2}
			m, err := emu.ComputeNLC(ctx, fid, zs, []float64{0.01, 0.1, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Values).To(HaveLen(3))
			for _, row := range m.Values {
				Expect(row).To(HaveLen(3))
			}
			Expect(m.IsFinite()).To(BeTrue())
			Expect(m.Steps[2]).To(BeNumerically("<", m.Steps[1]))
			Expect(m.Steps[1]).To(BeNumerically("<", m.Steps[0]))
			Expect(m.Column(1)).To(Equal([]float64{m.At(0, 1), m.At(1, 1), m.At(2, 1)}))
		})

		It("returns an empty matrix for empty input", func() {
			m, err := emu.ComputeNLC(ctx, fid, nil, []float64{0.1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Empty()).To(BeTrue())
			Expect(m.Values).To(BeEmpty())

			m, err = emu.ComputeNLC(ctx, fid, []float64{0, 1}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Empty()).To(BeTrue())
			Expect(m.Values).To(HaveLen(2))
			Expect(m.Row(0)).To(BeEmpty())
		})

		DescribeTable("rejects lookups outside the table",
			func(zs, ks []float64, axis string) {
				m, err := emu.ComputeNLC(ctx, fid, zs, ks)
				Expect(m).To(BeNil())
				Expect(err).To(MatchError(numeric.ErrSplineDomain))
				var de *numeric.DomainError
				Expect(errors.As(err, &de)).To(BeTrue())
				Expect(de.Axis).To(Equal(axis))
			},
			Entry("wavenumber below the grid", []float64{0}, []float64{0.005}, "wavenumber"),
			Entry("wavenumber above the grid", []float64{0}, []float64{0.1, 11}, "wavenumber"),
			Entry("zero wavenumber", []float64{0}, []float64{0}, "wavenumber"),
			Entry("redshift past the window", []float64{0, 10.5}, []float64{0.1}, "redshift"),
			Entry("negative redshift", []float64{-0.1}, []float64{0.1}, "redshift"),
		)

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := emu.ComputeNLC(cctx, fid, []float64{0}, emutest.Wavenumbers())
			Expect(err).To(MatchError(context.Canceled))
		})

		It("rejects a nil cosmology", func() {
			_, err := emu.ComputeNLC(ctx, nil, []float64{0}, []float64{0.1})
			Expect(err).To(HaveOccurred())
		})
	})

	It("summarises every weighted component", func() {
		info := emu.Info()
		Expect(info).To(HaveLen(emulator.NumWeighted))
		Expect(info[0].Component).To(Equal(1))
		Expect(info[13].Component).To(Equal(14))
		for _, ci := range info {
			Expect(ci.Coefficients).To(Equal(3))
			Expect(ci.MaxAbsCoeff).To(Equal(1.0))
			Expect(ci.MaxDegree).To(Equal(2))
		}
	})

	Context("with the production data file", func() {
		It("reconstructs a finite surface at the fiducial cosmology", func() {
			path := os.Getenv("NLCEMU_DATA")
			if path == "" {
				Skip("NLCEMU_DATA not set")
			}
			t, err := loadProduction(path)
			Expect(err).NotTo(HaveOccurred())
			e, err := emulator.New(t)
			Expect(err).NotTo(HaveOccurred())
			m, err := e.ComputeNLC(ctx, fid, []float64{0, 1, 2}, []float64{0.01, 0.1, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(m.IsFinite()).To(BeTrue())
			// the correction is of order unity across the emulated range
			for _, row := range m.Values {
				for _, v := range row {
					Expect(v).To(BeNumerically(">", 0.5))
					Expect(v).To(BeNumerically("<", 5))
				}
			}
		})
	})
})
