package placement

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neonscene/internal/scene"
)

var _ = Describe("Placer", func() {
	var (
		placer    *Placer
		exclusion scene.Rect
	)

	BeforeEach(func() {
		placer = New(DefaultParams(), rand.New(rand.NewSource(42)))
		exclusion = scene.Rect{W: 2.4, H: 0.9}
	})

	Context("with the desktop layout", func() {
		It("returns at most the requested count and keeps every invariant", func() {
			res := placer.Place(40, 4.4, 2.6, 0.18, exclusion)

			Expect(len(res.Elements)).To(BeNumerically("<=", 40))
			Expect(res.Attempts).To(BeNumerically("<=", DefaultMaxAttempts))
			_, _, ok := Verify(res.Elements, DefaultMarginFactor, exclusion)
			Expect(ok).To(BeTrue())
		})

		It("holds the invariants across many seeds", func() {
			for seed := int64(0); seed < 25; seed++ {
				p := New(DefaultParams(), rand.New(rand.NewSource(seed)))
				res := p.Place(40, 4.4, 2.6, 0.18, exclusion)
				i, j, ok := Verify(res.Elements, DefaultMarginFactor, exclusion)
				Expect(ok).To(BeTrue(), "seed %d: violation between %d and %d", seed, i, j)
			}
		})

		It("assigns sequential ids and colors inside the chosen band", func() {
			res := placer.Place(40, 4.4, 2.6, 0.18, exclusion)
			Expect(res.Elements).NotTo(BeEmpty())

			for i, e := range res.Elements {
				Expect(e.ID).To(Equal(i))
				Expect(e.HueRange.Contains(e.Hue)).To(BeTrue())
				Expect(DefaultHueBands).To(ContainElement(e.HueRange))
				Expect(e.Saturation).To(BeNumerically(">=", 70))
				Expect(e.Saturation).To(BeNumerically("<=", 95))
				Expect(e.Lightness).To(BeNumerically(">=", 45))
				Expect(e.Lightness).To(BeNumerically("<=", 70))
				Expect(e.Radius).To(BeNumerically(">=", 0.22))
				Expect(e.Radius).To(BeNumerically("<=", 0.54))
			}
		})

		It("puts each band in its own depth range", func() {
			res := New(DefaultParams(), rand.New(rand.NewSource(7))).Place(40, 4.4, 2.6, 0.5, exclusion)

			for _, e := range res.Elements {
				if e.Band == scene.Foreground {
					Expect(e.Base.Z).To(BeNumerically("~", 0.4, 1e-12))
				} else {
					Expect(e.Base.Z).To(BeNumerically(">=", -3.6))
					Expect(e.Base.Z).To(BeNumerically("<=", -1.4))
				}
			}
		})
	})

	Context("with degenerate requests", func() {
		It("returns an empty layout for zero elements", func() {
			res := placer.Place(0, 4.4, 2.6, 0.18, exclusion)
			Expect(res.Elements).To(BeEmpty())
			Expect(res.Attempts).To(Equal(0))
			Expect(res.Shortfall()).To(Equal(0))
		})

		It("treats a negative count as zero", func() {
			res := placer.Place(-3, 4.4, 2.6, 0.18, exclusion)
			Expect(res.Elements).To(BeEmpty())
			Expect(res.Requested).To(Equal(0))
		})

		It("returns a consistent partial layout when the area is too small", func() {
			res := placer.Place(500, 1.0, 1.0, 0.18, exclusion)

			Expect(len(res.Elements)).To(BeNumerically("<", 500))
			Expect(res.Attempts).To(Equal(DefaultMaxAttempts))
			Expect(res.Shortfall()).To(Equal(500 - len(res.Elements)))
			_, _, ok := Verify(res.Elements, DefaultMarginFactor, exclusion)
			Expect(ok).To(BeTrue())
		})

		It("places no foreground element when the exclusion covers everything", func() {
			res := placer.Place(30, 2.0, 2.0, 1.0, scene.Rect{W: 10, H: 10})
			Expect(res.Elements).To(BeEmpty())
			Expect(res.Attempts).To(Equal(DefaultMaxAttempts))
		})
	})

	Context("with a custom attempt budget", func() {
		It("stops after the budget", func() {
			params := DefaultParams()
			params.MaxAttempts = 5
			res := New(params, rand.New(rand.NewSource(1))).Place(100, 4.4, 2.6, 0.18, exclusion)
			Expect(res.Attempts).To(Equal(5))
			Expect(len(res.Elements)).To(BeNumerically("<=", 5))
		})
	})
})

var _ = Describe("Verify", func() {
	It("flags overlapping pairs", func() {
		elems := []scene.Element{
			{ID: 0, Base: scene.Vec3{X: -2}, Radius: 0.3},
			{ID: 1, Base: scene.Vec3{X: -1.5}, Radius: 0.3},
		}
		i, j, ok := Verify(elems, 1.2, scene.Rect{W: 2.4, H: 0.9})
		Expect(ok).To(BeFalse())
		Expect([]int{i, j}).To(Equal([]int{0, 1}))
	})

	It("flags foreground elements inside the exclusion", func() {
		elems := []scene.Element{{Band: scene.Foreground, Base: scene.Vec3{X: 0.2, Z: 0.4}, Radius: 0.3}}
		_, _, ok := Verify(elems, 1.2, scene.Rect{W: 2.4, H: 0.9})
		Expect(ok).To(BeFalse())
	})

	It("ignores the exclusion for background elements", func() {
		elems := []scene.Element{{Band: scene.Background, Base: scene.Vec3{Z: -2}, Radius: 0.3}}
		_, _, ok := Verify(elems, 1.2, scene.Rect{W: 2.4, H: 0.9})
		Expect(ok).To(BeTrue())
	})
})
