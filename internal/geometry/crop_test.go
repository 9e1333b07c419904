package geometry_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

var _ = Describe("Crop display math", func() {
	It("places a 150% image aligned left and centered vertically", func() {
		c := geometry.Crop{Scale: 150, PosX: 0, PosY: 0.5}

		layout := geometry.Display(200, 100, c, 0)
		Expect(layout.ImageWidth).To(BeNumerically("~", 300, eps))
		// Aspect unknown, so the 1:1 fallback applies.
		Expect(layout.ImageHeight).To(BeNumerically("~", 300, eps))
		Expect(layout.DisplayX).To(BeNumerically("~", 0, eps))
		Expect(layout.DisplayY).To(BeNumerically("~", -(layout.ImageHeight-100)*0.5, eps))

		css := geometry.BackgroundCSS(200, 100, c, 0)
		Expect(css.Position).To(Equal("0% 50%"))
		Expect(geometry.CSSOffset(200, layout.ImageWidth, css.PositionX)).To(BeNumerically("~", layout.DisplayX, eps))
		Expect(geometry.CSSOffset(100, layout.ImageHeight, css.PositionY)).To(BeNumerically("~", layout.DisplayY, eps))
	})

	It("uses the natural aspect for the legacy scale", func() {
		w, h := geometry.ImageSize(200, 100, geometry.Crop{Scale: 100}, 2)
		Expect(w).To(BeNumerically("~", 200, eps))
		Expect(h).To(BeNumerically("~", 100, eps))
	})

	It("prefers per-axis scale when either axis is set", func() {
		w, h := geometry.ImageSize(200, 100, geometry.Crop{Scale: 250, ScaleX: 1.5}, 4)
		Expect(w).To(BeNumerically("~", 300, eps))
		Expect(h).To(BeNumerically("~", 100, eps))

		css := geometry.BackgroundCSS(200, 100, geometry.Crop{ScaleX: 1.5, ScaleY: 2, PosX: 0.25, PosY: 1}, 1)
		Expect(css.Size).To(Equal("150% 200%"))
		Expect(css.Position).To(Equal("25% 100%"))
	})

	It("falls back to safe defaults for malformed state", func() {
		c := geometry.NormalizeCrop(geometry.Crop{Scale: -5, ScaleX: math.NaN(), PosX: math.Inf(1), PosY: 7})
		Expect(c.Scale).To(Equal(geometry.DefaultCropScale))
		Expect(c.ScaleX).To(Equal(0.0))
		Expect(c.PosX).To(Equal(0.5))
		Expect(c.PosY).To(Equal(1.0))

		layout := geometry.Display(100, 100, geometry.Crop{Scale: 0, PosX: 0.5, PosY: 0.5}, math.NaN())
		Expect(math.IsNaN(layout.DisplayX)).To(BeFalse())
		Expect(layout.ImageWidth).To(BeNumerically("~", 100, eps))
	})

	It("round-trips pixel and percentage forms across the domain", func() {
		frames := [][2]float64{{200, 100}, {64, 300}, {333, 333}, {1, 7}}
		scales := []float64{100, 137.5, 200, 300}
		positions := []float64{0, 0.13, 0.5, 0.77, 1}
		aspects := []float64{0.5, 1, 1.777}

		for _, f := range frames {
			for _, s := range scales {
				for _, a := range aspects {
					for _, px := range positions {
						for _, py := range positions {
							c := geometry.Crop{Scale: s, PosX: px, PosY: py}
							layout := geometry.Display(f[0], f[1], c, a)
							css := geometry.BackgroundCSS(f[0], f[1], c, a)

							Expect(geometry.CSSOffset(f[0], layout.ImageWidth, css.PositionX)).
								To(BeNumerically("~", layout.DisplayX, eps))
							Expect(geometry.CSSOffset(f[1], layout.ImageHeight, css.PositionY)).
								To(BeNumerically("~", layout.DisplayY, eps))

							if back, ok := geometry.PositionFromDisplay(layout.DisplayX, layout.ImageWidth, f[0]); ok {
								Expect(back).To(BeNumerically("~", px, eps))
							}
							if back, ok := geometry.PositionFromDisplay(layout.DisplayY, layout.ImageHeight, f[1]); ok {
								Expect(back).To(BeNumerically("~", py, eps))
							}
						}
					}
				}
			}
		}
	})

	It("reports no position when an axis has no excess", func() {
		_, ok := geometry.PositionFromDisplay(0, 100, 100)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("CropPan", func() {
	start := geometry.Crop{Scale: 200, PosX: 0.5, PosY: 0.5}

	It("converts drag into normalized position over the excess", func() {
		// 100x100 frame at 200%: image 200x200, excess 100 on both axes.
		out := geometry.CropPan(start, 100, 100, 10, -20, 1)
		Expect(out.PosX).To(BeNumerically("~", 0.4, eps))
		Expect(out.PosY).To(BeNumerically("~", 0.7, eps))
		Expect(out.Scale).To(Equal(200.0))
	})

	DescribeTable("never leaves [0,1]",
		func(dx, dy float64) {
			out := geometry.CropPan(start, 100, 100, dx, dy, 1)
			Expect(out.PosX).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
			Expect(out.PosY).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
		},
		Entry("huge positive", 1e9, 1e9),
		Entry("huge negative", -1e9, -1e9),
		Entry("mixed past the range", 150.0, -150.0),
		Entry("exactly the range", 50.0, -50.0),
		Entry("zero", 0.0, 0.0),
	)

	It("leaves an axis without excess untouched", func() {
		// 200x100 frame at 100% with aspect 2: image exactly fills.
		c := geometry.Crop{Scale: 100, PosX: 0.3, PosY: 0.8}
		out := geometry.CropPan(c, 200, 100, 40, 40, 2)
		Expect(out.PosX).To(Equal(0.3))
		Expect(out.PosY).To(Equal(0.8))
	})

	It("only pans the axis with excess", func() {
		// 200x100 frame at 100%, aspect 1: image 200x200, no x excess.
		out := geometry.CropPan(geometry.Crop{Scale: 100, PosX: 0.5, PosY: 0.5}, 200, 100, 40, 50, 1)
		Expect(out.PosX).To(Equal(0.5))
		Expect(out.PosY).To(BeNumerically("~", 0, eps))
	})
})

var _ = Describe("CropScale", func() {
	base := geometry.Crop{Scale: 150, PosX: 0.2, PosY: 0.9}

	DescribeTable("combines the drag per corner",
		func(h geometry.Handle, dx, dy, expected float64) {
			Expect(geometry.CropScale(base, h, dx, dy).Scale).To(BeNumerically("~", expected, eps))
		},
		Entry("se outward", geometry.HandleSE, 30.0, 30.0, 170.0),
		Entry("se inward", geometry.HandleSE, -30.0, -30.0, 130.0),
		Entry("nw outward", geometry.HandleNW, -30.0, -30.0, 170.0),
		Entry("ne outward", geometry.HandleNE, 30.0, -30.0, 170.0),
		Entry("sw outward", geometry.HandleSW, -30.0, 30.0, 170.0),
		Entry("edge handle ignored", geometry.HandleE, 300.0, 0.0, 150.0),
	)

	It("clamps to [100, 300]", func() {
		Expect(geometry.CropScale(base, geometry.HandleSE, 1000, 1000).Scale).To(Equal(geometry.MaxCropScale))
		Expect(geometry.CropScale(base, geometry.HandleSE, -1000, -1000).Scale).To(Equal(geometry.MinCropScale))
	})

	It("preserves position", func() {
		out := geometry.CropScale(base, geometry.HandleSE, -1000, -1000)
		Expect(out.PosX).To(Equal(0.2))
		Expect(out.PosY).To(Equal(0.9))
	})

	It("scales both independent axes together", func() {
		out := geometry.CropScale(geometry.Crop{ScaleX: 1.2, ScaleY: 2.9}, geometry.HandleSE, 30, 30)
		Expect(out.ScaleX).To(BeNumerically("~", 1.4, eps))
		Expect(out.ScaleY).To(BeNumerically("~", 3.0, eps))
	})
})
