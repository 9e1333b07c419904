package collab_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/collab"
	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/store"
)

// gatedStore holds loads of one project until gate is closed.
type gatedStore struct {
	store.Store
	projectID string
	gate      chan struct{}
}

func (g *gatedStore) Latest(ctx context.Context, projectID string) (store.Snapshot, error) {
	if projectID == g.projectID {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return store.Snapshot{}, ctx.Err()
		}
	}
	return g.Store.Latest(ctx, projectID)
}

var _ = Describe("Hub", func() {
	var (
		ctx    context.Context
		st     *store.Memory
		gated  *gatedStore
		hub    *collab.Hub
		server *httptest.Server
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		DeferCleanup(cancel)

		st = store.NewMemory()
		gated = &gatedStore{Store: st, projectID: "proj_slow", gate: make(chan struct{})}
		hub = collab.NewHub(gated, time.Hour, document.PageDefaults{})
		go hub.Run()

		r := mux.NewRouter()
		r.Handle("/ws/project/{projectId}", collab.NewHandler(hub, nil))
		server = httptest.NewServer(r)

		DeferCleanup(func() {
			server.Close()
			hub.Stop()
		})
	})

	dial := func(projectID, name string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/project/" + projectID + "?name=" + name
		conn, _, err := websocket.Dial(ctx, url, nil)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { conn.CloseNow() })
		return conn
	}

	// next reads messages until one of the given type arrives.
	next := func(conn *websocket.Conn, msgType string) collab.Message {
		for {
			var msg collab.Message
			Expect(wsjson.Read(ctx, conn, &msg)).To(Succeed())
			if msg.Type == msgType {
				return msg
			}
		}
	}

	submit := func(conn *websocket.Conn, op collab.Operation) {
		payload, err := json.Marshal(collab.OperationSubmitPayload{Operation: op})
		Expect(err).NotTo(HaveOccurred())
		Expect(wsjson.Write(ctx, conn, collab.Message{Type: collab.TypeOpSubmit, Payload: payload})).To(Succeed())
	}

	syncedProject := func(msg collab.Message) (*document.Project, int64) {
		var payload collab.DocSyncPayload
		Expect(json.Unmarshal(msg.Payload, &payload)).To(Succeed())
		p, err := document.Deserialize(payload.Project)
		Expect(err).NotTo(HaveOccurred())
		return p, payload.ServerSeq
	}

	It("greets a client and syncs a new project", func() {
		conn := dial("proj_new", "Ada")

		var welcome collab.WelcomePayload
		Expect(json.Unmarshal(next(conn, collab.TypeWelcome).Payload, &welcome)).To(Succeed())
		Expect(welcome.DisplayName).To(Equal("Ada"))
		Expect(welcome.UserID).To(HavePrefix("anon-"))
		Expect(welcome.ClientID).NotTo(BeEmpty())

		p, seq := syncedProject(next(conn, collab.TypeDocSync))
		Expect(p.ID).To(Equal("proj_new"))
		Expect(p.Pages).To(HaveLen(1))
		Expect(seq).To(BeZero())
	})

	It("serves other rooms while a project is still loading", func() {
		ada := dial("proj_slow", "Ada")
		Consistently(func() bool {
			_, live := hub.State("proj_slow")
			return live
		}, 100*time.Millisecond).Should(BeFalse())

		bob := dial("proj_fast", "Bob")
		next(bob, collab.TypeWelcome)
		_, live := hub.State("proj_fast")
		Expect(live).To(BeTrue())

		carol := dial("proj_slow", "Carol")
		close(gated.gate)

		p, _ := syncedProject(next(ada, collab.TypeDocSync))
		Expect(p.ID).To(Equal("proj_slow"))
		next(carol, collab.TypeWelcome)
		_, live = hub.State("proj_slow")
		Expect(live).To(BeTrue())
	})

	It("loads a saved project from the store", func() {
		_, err := store.SaveProject(ctx, st, document.NewSampleProject("proj_sample"))
		Expect(err).NotTo(HaveOccurred())

		conn := dial("proj_sample", "Ada")
		p, _ := syncedProject(next(conn, collab.TypeDocSync))
		Expect(p.Name).To(Equal("Feelings worksheet"))
		Expect(p.FirstPage().Elements).NotTo(BeEmpty())
	})

	It("acks, broadcasts and persists operations", func() {
		ada := dial("proj_live", "Ada")
		p, _ := syncedProject(next(ada, collab.TypeDocSync))
		pageID := p.FirstPage().ID

		el := document.NewElement(document.KindShape)
		submit(ada, collab.Operation{Type: collab.OpElementAdd, PageID: pageID, Element: &el})

		var ack collab.OperationAckPayload
		Expect(json.Unmarshal(next(ada, collab.TypeOpAck).Payload, &ack)).To(Succeed())
		Expect(ack.ServerSeq).To(Equal(int64(1)))
		Expect(ack.Operation).NotTo(BeNil())
		elementID := ack.Operation.ElementID
		Expect(elementID).NotTo(BeEmpty())

		bob := dial("proj_live", "Bob")
		joined, seq := syncedProject(next(bob, collab.TypeDocSync))
		Expect(seq).To(Equal(int64(1)))
		_, ok := joined.FirstPage().Element(elementID)
		Expect(ok).To(BeTrue())

		var join collab.PresenceJoinPayload
		Expect(json.Unmarshal(next(ada, collab.TypePresenceJoin).Payload, &join)).To(Succeed())
		Expect(join.DisplayName).To(Equal("Bob"))

		submit(bob, collab.Operation{Type: collab.OpElementUpdate, PageID: pageID, ElementID: "el_missing", Patch: &document.Patch{}})
		var nack collab.OperationNackPayload
		Expect(json.Unmarshal(next(bob, collab.TypeOpNack).Payload, &nack)).To(Succeed())
		Expect(nack.Reason).To(ContainSubstring("element not found"))

		submit(bob, collab.Operation{Type: collab.OpElementDelete, PageID: pageID, ElementID: elementID})
		var broadcast collab.OperationBroadcastPayload
		Expect(json.Unmarshal(next(ada, collab.TypeOpBroadcast).Payload, &broadcast)).To(Succeed())
		Expect(broadcast.Operation.ElementID).To(Equal(elementID))
		Expect(broadcast.ServerSeq).To(Equal(int64(2)))

		ada.Close(websocket.StatusNormalClosure, "")
		bob.Close(websocket.StatusNormalClosure, "")

		Eventually(func(g Gomega) {
			saved, err := store.LoadProject(ctx, st, "proj_live")
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(saved.FirstPage().Elements).To(BeEmpty())
		}).Should(Succeed())
	})

	It("clears presence that points at a deleted element", func() {
		ada := dial("proj_presence", "Ada")
		p, _ := syncedProject(next(ada, collab.TypeDocSync))
		pg := p.FirstPage()

		bob := dial("proj_presence", "Bob")
		next(bob, collab.TypeDocSync)
		next(ada, collab.TypePresenceJoin)

		el := document.NewElement(document.KindShape)
		submit(ada, collab.Operation{Type: collab.OpElementAdd, PageID: pg.ID, Element: &el})
		var ack collab.OperationAckPayload
		Expect(json.Unmarshal(next(ada, collab.TypeOpAck).Payload, &ack)).To(Succeed())

		presence, err := json.Marshal(collab.PresencePayload{PageID: pg.ID, Selection: []string{ack.Operation.ElementID}})
		Expect(err).NotTo(HaveOccurred())
		Expect(wsjson.Write(ctx, bob, collab.Message{Type: collab.TypePresenceUpdate, Payload: presence})).To(Succeed())
		next(ada, collab.TypePresenceUpdate)

		submit(ada, collab.Operation{Type: collab.OpElementDelete, PageID: pg.ID, ElementID: ack.Operation.ElementID})

		var cleared collab.PresencePayload
		Expect(json.Unmarshal(next(bob, collab.TypePresenceUpdate).Payload, &cleared)).To(Succeed())
		Expect(cleared.Selection).To(BeEmpty())
		Expect(cleared.DisplayName).To(Equal("Bob"))
	})
})
