package render_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/geometry"
	"github.com/kimahnho/worksheet/editor-go/internal/render"
)

func shapeAt(x, y, w, h, rotation float64) document.Element {
	el := document.NewElement(document.KindShape)
	el.X, el.Y, el.Width, el.Height, el.Rotation = x, y, w, h, rotation
	return el
}

var _ = Describe("Page compilation", func() {
	var (
		page         *document.Page
		below, onTop document.Element
	)

	BeforeEach(func() {
		page = document.NewPage(document.PageDefaults{Width: 800, Height: 600})
		below = page.AddElement(shapeAt(0, 0, 100, 100, 0))
		onTop = page.AddElement(shapeAt(50, 50, 100, 100, 0))
	})

	It("compiles in paint order with per-element state", func() {
		page.ReorderZIndex(below.ID, document.ZFront)
		nodes := render.CompilePage(page, []string{onTop.ID}, below.ID, render.Env{})

		Expect(nodes).To(HaveLen(2))
		Expect(nodes[0].ElementID).To(Equal(onTop.ID))
		Expect(nodes[0].Overlay).NotTo(BeNil())
		Expect(nodes[1].ElementID).To(Equal(below.ID))
		Expect(nodes[1].Overlay).To(BeNil())
	})

	It("serializes nodes as a JSON array", func() {
		out, err := render.NodesToJSON(render.CompilePage(page, nil, "", render.Env{}))
		Expect(err).NotTo(HaveOccurred())

		var decoded []map[string]any
		Expect(json.Unmarshal([]byte(out), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(2))
		Expect(decoded[0]).To(HaveKeyWithValue("domId", "element-"+below.ID))

		empty, err := render.NodesToJSON(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(empty).To(Equal("[]"))
	})

	Describe("HitTest", func() {
		It("returns the topmost element", func() {
			Expect(render.HitTest(page, 75, 75)).To(Equal(onTop.ID))
			Expect(render.HitTest(page, 25, 25)).To(Equal(below.ID))
			Expect(render.HitTest(page, 500, 500)).To(BeEmpty())

			page.ReorderZIndex(below.ID, document.ZFront)
			Expect(render.HitTest(page, 75, 75)).To(Equal(below.ID))
		})

		It("skips pass-through elements", func() {
			page.UpdateElement(onTop.ID, document.Patch{IsPassThrough: document.Ptr(true)})
			Expect(render.HitTest(page, 75, 75)).To(Equal(below.ID))
			Expect(render.HitTest(page, 140, 140)).To(BeEmpty())
		})

		It("uses the rotated frame", func() {
			thin := page.AddElement(shapeAt(300, 290, 100, 20, 90))
			// Rotated 90 degrees about (350, 300) it spans x 340..360, y 250..350.
			Expect(render.HitTest(page, 350, 260)).To(Equal(thin.ID))
			Expect(render.HitTest(page, 310, 300)).To(BeEmpty())
		})
	})

	Describe("HitGrip", func() {
		It("finds resize and rotation grips before the body", func() {
			el, _ := page.Element(below.ID)
			n := render.Dispatch(el, render.State{Selected: true}, render.Env{})

			Expect(render.HitGrip(n, 101, 99, 0)).To(Equal(render.Grip{Target: render.TargetResize, Handle: geometry.HandleSE}))
			Expect(render.HitGrip(n, 50, -24, 0)).To(Equal(render.Grip{Target: render.TargetRotate}))
			Expect(render.HitGrip(n, 40, 40, 0)).To(Equal(render.Grip{Target: render.TargetBody}))
			Expect(render.HitGrip(n, 300, 300, 0).Target).To(Equal(render.TargetNone))
		})

		It("finds crop grips in the element's local frame", func() {
			el := document.NewElement(document.KindImage)
			el.ID = "img"
			el.Width, el.Height = 200, 100
			el.Content = "https://x/a.png"
			el.BackgroundPosition = &document.Position{X: 0, Y: 0}
			n := render.Dispatch(el, render.State{Editing: true}, loaded(200, 100))

			Expect(render.HitGrip(n, 200, 100, 0)).To(Equal(render.Grip{Target: render.TargetCropScale, Handle: geometry.HandleSE}))
			Expect(render.HitGrip(n, 100, 50, 0)).To(Equal(render.Grip{Target: render.TargetCropBody}))
			Expect(render.HitGrip(n, 400, 50, 0).Target).To(Equal(render.TargetNone))
		})
	})

	It("unions selection bounds and ignores unknown ids", func() {
		r := render.SelectionBounds(page, []string{below.ID, onTop.ID, "missing"})
		Expect(r).To(Equal(geometry.Rect{X: 0, Y: 0, Width: 150, Height: 150}))
		Expect(render.SelectionBounds(page, nil)).To(Equal(geometry.Rect{}))
		Expect(render.RectToJSON(r)).To(MatchJSON(`{"x":0,"y":0,"width":150,"height":150}`))
	})
})
