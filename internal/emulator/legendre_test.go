package emulator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nlcemu/internal/emulator"
)

var _ = Describe("LegendreBasis", func() {
	DescribeTable("matches closed forms",
		func(x float64) {
			b := emulator.LegendreBasis(x, emulator.LMax, nil)
			Expect(b).To(HaveLen(emulator.LMax + 1))
			Expect(b[0]).To(BeNumerically("~", 1, 1e-15))
			Expect(b[1]).To(BeNumerically("~", math.Sqrt(3)*x, 1e-15))
			Expect(b[2]).To(BeNumerically("~", math.Sqrt(5)*(3*x*x-1)/2, 1e-14))
			Expect(b[3]).To(BeNumerically("~", math.Sqrt(7)*(5*x*x*x-3*x)/2, 1e-14))
		},
		Entry("left edge", -1.0),
		Entry("centre", 0.0),
		Entry("interior", 0.37),
		Entry("right edge", 1.0),
	)

	It("is sqrt(2l+1) at x = 1 for every degree", func() {
		b := emulator.LegendreBasis(1, emulator.LMax, nil)
		for l, v := range b {
			Expect(v).To(BeNumerically("~", math.Sqrt(float64(2*l+1)), 1e-12), "degree %d", l)
		}
	})

	It("is orthonormal under the uniform measure on [-1, 1]", func() {
		// midpoint rule, exact enough for degree <= 4 products
		const n = 4000
		var gram [5][5]float64
		buf := make([]float64, 0, emulator.LMax+1)
		for i := 0; i < n; i++ {
			x := -1 + (float64(i)+0.5)*2/n
			b := emulator.LegendreBasis(x, 4, buf)
			for a := range gram {
				for c := range gram[a] {
					gram[a][c] += b[a] * b[c] / n
				}
			}
		}
		for a := range gram {
			for c := range gram[a] {
				want := 0.0
				if a == c {
					want = 1
				}
				Expect(gram[a][c]).To(BeNumerically("~", want, 1e-5))
			}
		}
	})

	It("reuses the destination buffer", func() {
		buf := make([]float64, 0, emulator.LMax+1)
		b := emulator.LegendreBasis(0.5, 3, buf)
		Expect(b).To(HaveLen(4))
		Expect(&b[0]).To(BeIdenticalTo(&buf[:1][0]))
	})
})
