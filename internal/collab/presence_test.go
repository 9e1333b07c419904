package collab_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/collab"
)

var _ = Describe("PresenceManager", func() {
	var pm *collab.PresenceManager

	BeforeEach(func() {
		pm = collab.NewPresenceManager()
		pm.Update("ada", &collab.PresencePayload{PageID: "page_1", Selection: []string{"el_a", "el_b"}, EditingID: "el_a"})
		pm.Update("bob", &collab.PresencePayload{PageID: "page_2", Selection: []string{"el_c"}, Cursor: &collab.CursorPos{X: 1, Y: 2}})
	})

	It("drops a deleted element from selections and edit targets", func() {
		original, _ := pm.Get("ada")

		Expect(pm.DropElement("el_a")).To(Equal([]string{"ada"}))

		p, _ := pm.Get("ada")
		Expect(p.Selection).To(Equal([]string{"el_b"}))
		Expect(p.EditingID).To(BeEmpty())
		Expect(original.Selection).To(Equal([]string{"el_a", "el_b"}), "stored payloads are replaced, not mutated")

		Expect(pm.DropElement("el_zzz")).To(BeEmpty())
	})

	It("resets users on a deleted page but keeps their cursor", func() {
		Expect(pm.DropPage("page_2")).To(Equal([]string{"bob"}))

		p, _ := pm.Get("bob")
		Expect(p.PageID).To(BeEmpty())
		Expect(p.Selection).To(BeEmpty())
		Expect(p.Cursor).To(Equal(&collab.CursorPos{X: 1, Y: 2}))
	})

	It("encodes every presence in the state message", func() {
		pm.Remove("bob")
		msg := pm.StateMessage()
		Expect(msg.Type).To(Equal(collab.TypePresenceState))

		var payload collab.PresenceStatePayload
		Expect(json.Unmarshal(msg.Payload, &payload)).To(Succeed())
		Expect(payload.Presences).To(HaveLen(1))
		Expect(payload.Presences).To(HaveKey("ada"))
	})
})
