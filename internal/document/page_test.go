package document_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
)

func ids(els []document.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ID
	}
	return out
}

var _ = Describe("Page", func() {
	var page *document.Page

	BeforeEach(func() {
		page = document.NewPage(document.PageDefaults{Width: 800, Height: 600, Background: "#fff"})
	})

	Describe("AddElement", func() {
		It("generates ids and stacks on top", func() {
			a := page.AddElement(document.NewElement(document.KindShape))
			b := page.AddElement(document.NewElement(document.KindText))

			Expect(a.ID).To(HavePrefix("el_"))
			Expect(b.ID).NotTo(Equal(a.ID))
			Expect(a.ZIndex).To(Equal(0))
			Expect(b.ZIndex).To(Equal(1))
			Expect(page.Elements).To(HaveLen(2))
		})

		It("keeps a caller id and re-keys a duplicate one", func() {
			el := document.NewElement(document.KindShape)
			el.ID = "fixed"
			first := page.AddElement(el)
			second := page.AddElement(el)

			Expect(first.ID).To(Equal("fixed"))
			Expect(second.ID).NotTo(Equal("fixed"))
		})
	})

	Describe("UpdateElement", func() {
		It("merges only the given fields and leaves siblings alone", func() {
			a := page.AddElement(document.NewElement(document.KindShape))
			b := page.AddElement(document.NewElement(document.KindShape))
			before, _ := page.Element(b.ID)

			ok := page.UpdateElement(a.ID, document.Patch{X: document.Ptr(42.0), BackgroundColor: document.Ptr("#f00")})
			Expect(ok).To(BeTrue())

			got, _ := page.Element(a.ID)
			Expect(got.X).To(Equal(42.0))
			Expect(got.BackgroundColor).To(Equal("#f00"))
			Expect(got.Width).To(Equal(a.Width))

			after, _ := page.Element(b.ID)
			Expect(after).To(Equal(before))
		})

		It("is a no-op for unknown ids", func() {
			page.AddElement(document.NewElement(document.KindShape))
			snapshot := append([]document.Element(nil), page.Elements...)

			Expect(page.UpdateElement("missing", document.Patch{X: document.Ptr(1.0)})).To(BeFalse())
			Expect(page.Elements).To(Equal(snapshot))
		})

		It("replaces backgroundPosition whole and merges metadata", func() {
			el := document.NewElement(document.KindCard)
			el.BackgroundPosition = &document.Position{X: 0.1, Y: 0.2}
			el.Metadata = &document.Metadata{
				IsAACCard: true,
				AACData:   &document.AACData{Label: "eat", Emoji: "🍎", FontSize: 18},
			}
			el = page.AddElement(el)
			original := el.Metadata.AACData

			page.UpdateElement(el.ID, document.Patch{
				BackgroundPosition: &document.Position{X: 0.9},
				Metadata: &document.MetadataPatch{
					AACData: &document.AACDataPatch{Label: document.Ptr("drink")},
				},
			})

			got, _ := page.Element(el.ID)
			Expect(*got.BackgroundPosition).To(Equal(document.Position{X: 0.9, Y: 0}))
			Expect(got.Metadata.IsAACCard).To(BeTrue())
			Expect(got.Metadata.AACData.Label).To(Equal("drink"))
			Expect(got.Metadata.AACData.Emoji).To(Equal("🍎"))
			Expect(got.Metadata.AACData.FontSize).To(Equal(18.0))
			// The pre-update snapshot is untouched.
			Expect(original.Label).To(Equal("eat"))
		})

		It("re-tags the variant when flags change", func() {
			el := page.AddElement(document.NewElement(document.KindCard))
			Expect(el.Variant()).To(Equal(document.VariantImageShape))

			page.UpdateElement(el.ID, document.Patch{Metadata: &document.MetadataPatch{IsEmotionCard: document.Ptr(true)}})
			got, _ := page.Element(el.ID)
			Expect(got.Variant()).To(Equal(document.VariantEmotionCard))
		})
	})

	Describe("DeleteElement", func() {
		It("removes by id and ignores unknown ids", func() {
			a := page.AddElement(document.NewElement(document.KindShape))
			b := page.AddElement(document.NewElement(document.KindShape))

			Expect(page.DeleteElement(a.ID)).To(BeTrue())
			Expect(page.DeleteElement(a.ID)).To(BeFalse())
			Expect(ids(page.Elements)).To(Equal([]string{b.ID}))
		})

		It("restores at the original position", func() {
			a := page.AddElement(document.NewElement(document.KindShape))
			b := page.AddElement(document.NewElement(document.KindShape))
			c := page.AddElement(document.NewElement(document.KindShape))

			page.DeleteElement(b.ID)
			Expect(page.InsertElement(b, 1)).To(BeTrue())
			Expect(ids(page.Elements)).To(Equal([]string{a.ID, b.ID, c.ID}))
			Expect(page.InsertElement(b, 0)).To(BeFalse())
		})
	})

	Describe("DuplicateElement", func() {
		It("copies with an offset, a new id and no shared nested objects", func() {
			el := document.NewElement(document.KindImage)
			el.BackgroundPosition = &document.Position{X: 0.3, Y: 0.3}
			src := page.AddElement(el)

			dup, ok := page.DuplicateElement(src.ID, 20)
			Expect(ok).To(BeTrue())
			Expect(dup.ID).NotTo(Equal(src.ID))
			Expect(dup.X).To(Equal(src.X + 20))
			Expect(dup.ZIndex).To(Equal(src.ZIndex + 1))

			page.UpdateElement(dup.ID, document.Patch{BackgroundPosition: &document.Position{X: 1, Y: 1}})
			got, _ := page.Element(src.ID)
			Expect(*got.BackgroundPosition).To(Equal(document.Position{X: 0.3, Y: 0.3}))
		})
	})

	Describe("ReorderZIndex", func() {
		var all []document.Element

		BeforeEach(func() {
			all = nil
			for range 5 {
				all = append(all, page.AddElement(document.NewElement(document.KindShape)))
			}
		})

		It("sends the last element to the back without disturbing the rest", func() {
			last := all[4]
			Expect(page.ReorderZIndex(last.ID, document.ZBack)).To(BeTrue())

			order := page.PaintOrder()
			Expect(order[0].ID).To(Equal(last.ID))
			for _, el := range page.Elements {
				if el.ID != last.ID {
					Expect(el.ZIndex).To(BeNumerically(">", order[0].ZIndex))
				}
			}
			Expect(ids(order[1:])).To(Equal(ids(all[:4])))
		})

		It("brings an element to the front", func() {
			page.ReorderZIndex(all[0].ID, document.ZFront)
			order := page.PaintOrder()
			Expect(order[len(order)-1].ID).To(Equal(all[0].ID))
			Expect(ids(order[:4])).To(Equal(ids(all[1:])))
		})

		It("swaps with the neighbor for forward and backward", func() {
			page.ReorderZIndex(all[1].ID, document.ZForward)
			Expect(ids(page.PaintOrder())).To(Equal([]string{all[0].ID, all[2].ID, all[1].ID, all[3].ID, all[4].ID}))

			page.ReorderZIndex(all[1].ID, document.ZBackward)
			page.ReorderZIndex(all[1].ID, document.ZBackward)
			Expect(ids(page.PaintOrder())).To(Equal([]string{all[1].ID, all[0].ID, all[2].ID, all[3].ID, all[4].ID}))
		})

		It("resolves ties by list position before swapping", func() {
			for i := range page.Elements {
				page.Elements[i].ZIndex = 0
			}
			page.ReorderZIndex(all[0].ID, document.ZForward)
			Expect(ids(page.PaintOrder())).To(Equal([]string{all[1].ID, all[0].ID, all[2].ID, all[3].ID, all[4].ID}))
		})

		It("leaves the top element in place when moved forward", func() {
			page.ReorderZIndex(all[4].ID, document.ZForward)
			Expect(ids(page.PaintOrder())).To(Equal(ids(all)))
		})

		It("returns hit order front to back", func() {
			hit := page.HitOrder()
			Expect(hit[0].ID).To(Equal(all[4].ID))
			Expect(hit[4].ID).To(Equal(all[0].ID))
		})
	})
})
