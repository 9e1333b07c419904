package geometry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
)

const eps = 1e-6

func expectPoint(actual, expected geometry.Point) {
	ExpectWithOffset(1, actual.X).To(BeNumerically("~", expected.X, eps))
	ExpectWithOffset(1, actual.Y).To(BeNumerically("~", expected.Y, eps))
}

var _ = Describe("Box", func() {
	It("maps local corners to world space around the center", func() {
		b := geometry.Box{X: 0, Y: 0, Width: 100, Height: 50, Rotation: 90}
		// Center (50,25); local top-left (-50,-25) from center turns to (25,-50).
		expectPoint(b.HandlePoint(geometry.HandleNW), geometry.Point{X: 75, Y: -25})
		expectPoint(b.HandlePoint(geometry.HandleSE), geometry.Point{X: 25, Y: 75})
	})

	It("round-trips world and local coordinates", func() {
		b := geometry.Box{X: 12, Y: -4, Width: 80, Height: 30, Rotation: 137}
		p := geometry.Point{X: 33, Y: 21}
		expectPoint(b.LocalToWorld(b.WorldToLocal(p)), p)
	})

	It("hit-tests against the rotated frame, not its bounding box", func() {
		b := geometry.Box{X: 0, Y: 0, Width: 100, Height: 10, Rotation: 45}
		Expect(b.Contains(b.Center())).To(BeTrue())
		bounds := b.Bounds()
		corner := geometry.Point{X: bounds.X + 1, Y: bounds.Y + 1}
		Expect(bounds.Contains(corner.X, corner.Y)).To(BeTrue())
		Expect(b.Contains(corner)).To(BeFalse())
	})
})

var _ = Describe("Move", func() {
	It("translates by the delta", func() {
		b := geometry.Move(geometry.Box{X: 5, Y: 6, Width: 10, Height: 10, Rotation: 30}, -3, 4)
		Expect(b).To(Equal(geometry.Box{X: 2, Y: 10, Width: 10, Height: 10, Rotation: 30}))
	})
})

var _ = Describe("Resize", func() {
	DescribeTable("keeps the nw corner fixed while dragging se",
		func(rotation float64) {
			b := geometry.Box{X: 40, Y: 60, Width: 120, Height: 80, Rotation: rotation}
			before := b.HandlePoint(geometry.HandleNW)

			out := geometry.Resize(b, geometry.HandleSE, 25, -13, 10)

			expectPoint(out.HandlePoint(geometry.HandleNW), before)
			Expect(out.Rotation).To(Equal(rotation))
		},
		Entry("0 degrees", 0.0),
		Entry("45 degrees", 45.0),
		Entry("90 degrees", 90.0),
		Entry("137 degrees", 137.0),
	)

	DescribeTable("keeps the opposite handle fixed for every handle",
		func(h geometry.Handle) {
			b := geometry.Box{X: 0, Y: 0, Width: 100, Height: 60, Rotation: 30}
			before := b.HandlePoint(h.Opposite())
			out := geometry.Resize(b, h, 17, 9, 10)
			expectPoint(out.HandlePoint(h.Opposite()), before)
		},
		Entry("n", geometry.HandleN),
		Entry("s", geometry.HandleS),
		Entry("e", geometry.HandleE),
		Entry("w", geometry.HandleW),
		Entry("ne", geometry.HandleNE),
		Entry("nw", geometry.HandleNW),
		Entry("sw", geometry.HandleSW),
	)

	It("grows only width for an east drag without rotation", func() {
		out := geometry.Resize(geometry.Box{Width: 100, Height: 50}, geometry.HandleE, 10, 7, 10)
		Expect(out).To(Equal(geometry.Box{Width: 110, Height: 50}))
	})

	It("moves x when dragging the west edge", func() {
		out := geometry.Resize(geometry.Box{X: 10, Width: 100, Height: 50}, geometry.HandleW, -20, 0, 10)
		Expect(out.X).To(BeNumerically("~", -10, eps))
		Expect(out.Width).To(BeNumerically("~", 120, eps))
	})

	It("clamps to the minimum size", func() {
		out := geometry.Resize(geometry.Box{X: 0, Y: 0, Width: 50, Height: 50}, geometry.HandleSE, -500, -500, 10)
		Expect(out.Width).To(Equal(10.0))
		Expect(out.Height).To(Equal(10.0))
		Expect(out.X).To(BeNumerically("~", 0, eps))
		Expect(out.Y).To(BeNumerically("~", 0, eps))
	})

	It("uses the default minimum when none is given", func() {
		out := geometry.Resize(geometry.Box{Width: 50, Height: 50}, geometry.HandleE, -100, 0, 0)
		Expect(out.Width).To(Equal(geometry.DefaultMinSize))
	})

	Context("on a frame rotated by 90 degrees", func() {
		b := geometry.Box{X: 0, Y: 0, Width: 100, Height: 50, Rotation: 90}

		It("resizes height when the handle facing screen east is dragged east", func() {
			h := geometry.HandleN
			Expect(h.ScreenDirection(90)).To(Equal(geometry.HandleE))

			out := geometry.Resize(b, h, 10, 0, 10)

			Expect(out.Width).To(BeNumerically("~", 100, eps))
			Expect(out.Height).To(BeNumerically("~", 60, eps))
		})

		It("ignores a screen-east drag on the local east handle", func() {
			out := geometry.Resize(b, geometry.HandleE, 10, 0, 10)
			Expect(out.Width).To(BeNumerically("~", 100, eps))
			Expect(out.Height).To(BeNumerically("~", 50, eps))
		})
	})
})

var _ = Describe("Handles", func() {
	It("parses valid names only", func() {
		h, ok := geometry.ParseHandle("se")
		Expect(ok).To(BeTrue())
		Expect(h).To(Equal(geometry.HandleSE))
		_, ok = geometry.ParseHandle("middle")
		Expect(ok).To(BeFalse())
	})

	It("finds opposites", func() {
		Expect(geometry.HandleSE.Opposite()).To(Equal(geometry.HandleNW))
		Expect(geometry.HandleN.Opposite()).To(Equal(geometry.HandleS))
		Expect(geometry.HandleNE.Opposite()).To(Equal(geometry.HandleSW))
	})

	It("reports screen direction and cursor after rotation", func() {
		Expect(geometry.HandleN.ScreenDirection(90)).To(Equal(geometry.HandleE))
		Expect(geometry.HandleE.ScreenDirection(0)).To(Equal(geometry.HandleE))
		Expect(geometry.HandleE.Cursor(90)).To(Equal("ns-resize"))
		Expect(geometry.HandleSE.Cursor(0)).To(Equal("nwse-resize"))
		Expect(geometry.HandleSE.Cursor(90)).To(Equal("nesw-resize"))
	})

	It("maps every handle back to itself without rotation", func() {
		for _, h := range geometry.Handles {
			Expect(h.ScreenDirection(0)).To(Equal(h))
			Expect(h.ScreenDirection(360)).To(Equal(h))
		}
	})
})

var _ = Describe("Rotation", func() {
	It("measures the angle from center to pointer", func() {
		c := geometry.Point{X: 0, Y: 0}
		Expect(geometry.RotationAngle(c, geometry.Point{X: 10, Y: 0})).To(BeNumerically("~", 0, eps))
		Expect(geometry.RotationAngle(c, geometry.Point{X: 0, Y: 10})).To(BeNumerically("~", 90, eps))
		Expect(geometry.RotationAngle(c, geometry.Point{X: -10, Y: 0})).To(BeNumerically("~", 180, eps))
		Expect(geometry.RotationAngle(c, geometry.Point{X: 0, Y: -10})).To(BeNumerically("~", 270, eps))
	})

	It("normalizes into [0, 360)", func() {
		Expect(geometry.NormalizeAngle(-30)).To(BeNumerically("~", 330, eps))
		Expect(geometry.NormalizeAngle(720)).To(BeNumerically("~", 0, eps))
		Expect(geometry.NormalizeAngle(361)).To(BeNumerically("~", 1, eps))
	})

	It("sets rotation from the pointer", func() {
		b := geometry.Rotate(geometry.Box{Width: 10, Height: 10}, geometry.Point{X: 5, Y: 50})
		Expect(b.Rotation).To(BeNumerically("~", 90, eps))
	})

	It("rotates by the swept angle without jumping on grab", func() {
		b := geometry.Box{Width: 100, Height: 100, Rotation: 30}
		grab := geometry.Point{X: 50, Y: -20}

		Expect(geometry.RotateBy(b, grab, grab).Rotation).To(BeNumerically("~", 30, eps))

		out := geometry.RotateBy(b, grab, geometry.Point{X: 120, Y: 50})
		Expect(out.Rotation).To(BeNumerically("~", 120, eps))
	})

	It("snaps to steps", func() {
		Expect(geometry.SnapAngle(44, 15)).To(BeNumerically("~", 45, eps))
		Expect(geometry.SnapAngle(359, 15)).To(BeNumerically("~", 0, eps))
	})
})
