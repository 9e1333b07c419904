package store_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/kimahnho/worksheet/editor-go/internal/document"
	"github.com/kimahnho/worksheet/editor-go/internal/store"
)

func itBehavesLikeAStore(open func() store.Store) {
	var (
		ctx = context.Background()
		s   store.Store
		run string
	)
	// Keep ids unique so a shared database does not leak between runs.
	id := func(name string) string { return name + "_" + run }

	BeforeEach(func() {
		s = open()
		run = uuid.NewString()
		DeferCleanup(s.Close)
	})

	It("reports a project without snapshots as not found", func() {
		_, err := s.Latest(ctx, id("proj_none"))
		Expect(err).To(MatchError(store.ErrNotFound))

		_, err = store.LoadProject(ctx, s, id("proj_none"))
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("numbers versions per project and returns the newest", func() {
		first, err := s.Save(ctx, id("proj_a"), []byte(`{"v":1}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Version).To(Equal(1))

		second, err := s.Save(ctx, id("proj_a"), []byte(`{"v":2}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Version).To(Equal(2))
		Expect(second.ID).NotTo(Equal(first.ID))

		other, err := s.Save(ctx, id("proj_b"), []byte(`{"v":9}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Version).To(Equal(1))

		latest, err := s.Latest(ctx, id("proj_a"))
		Expect(err).NotTo(HaveOccurred())
		Expect(latest.Version).To(Equal(2))
		Expect(latest.ProjectID).To(Equal(id("proj_a")))
		Expect(string(latest.Document)).To(MatchJSON(`{"v":2}`))
	})

	It("round trips a project", func() {
		p := document.NewSampleProject(id("proj_sample"))
		_, err := store.SaveProject(ctx, s, p)
		Expect(err).NotTo(HaveOccurred())

		got, err := store.LoadProject(ctx, s, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal(p.Name))
		Expect(got.Pages).To(HaveLen(len(p.Pages)))
		Expect(got.FirstPage().Elements).To(HaveLen(len(p.FirstPage().Elements)))
	})

	It("fails to load a snapshot that is not a project", func() {
		_, err := s.Save(ctx, id("proj_bad"), []byte(`[]`))
		Expect(err).NotTo(HaveOccurred())
		_, err = store.LoadProject(ctx, s, id("proj_bad"))
		Expect(err).To(HaveOccurred())
	})
}

var _ = Describe("Memory", func() {
	itBehavesLikeAStore(func() store.Store { return store.NewMemory() })

	It("copies documents in and out", func() {
		m := store.NewMemory()
		doc := []byte(`{"a":1}`)
		m.Save(context.Background(), "p", doc)
		doc[2] = 'b'

		snap, _ := m.Latest(context.Background(), "p")
		Expect(string(snap.Document)).To(Equal(`{"a":1}`))
	})
})

var _ = Describe("SQLite", func() {
	itBehavesLikeAStore(func() store.Store {
		s, err := store.NewSQLite(context.Background(), filepath.Join(GinkgoT().TempDir(), "nested", "snapshots.db"))
		Expect(err).NotTo(HaveOccurred())
		return s
	})
})

var _ = Describe("Postgres", func() {
	itBehavesLikeAStore(func() store.Store {
		url := os.Getenv("TEST_DATABASE_URL")
		if url == "" {
			Skip("TEST_DATABASE_URL not set")
		}
		s, err := store.NewPostgres(context.Background(), url)
		Expect(err).NotTo(HaveOccurred())
		return s
	})
})

var _ = Describe("Open", func() {
	It("selects the driver", func() {
		s, err := store.Open(context.Background(), "memory", "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(BeAssignableToTypeOf(&store.Memory{}))

		_, err = store.Open(context.Background(), "mongo", "", "")
		Expect(err).To(MatchError(ContainSubstring("unknown store driver")))
	})
})
