package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/config"
)

var _ = Describe("Config", func() {
	It("loads defaults and environment overrides", func() {
		GinkgoT().Setenv("PORT", "9090")
		GinkgoT().Setenv("STORE_DRIVER", "sqlite")
		GinkgoT().Setenv("ALLOWED_ORIGINS", " http://a , ,http://b")
		GinkgoT().Setenv("LOG_LEVEL", "debug")
		GinkgoT().Setenv("AUTOSAVE_INTERVAL", "5s")

		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal(9090))
		Expect(cfg.StoreDriver).To(Equal("sqlite"))
		Expect(cfg.AssetDir).To(Equal("./data/assets"))
		Expect(cfg.Origins()).To(Equal([]string{"http://a", "http://b"}))
		Expect(cfg.OriginHosts()).To(Equal([]string{"a", "b"}))
		Expect(cfg.SlogLevel()).To(Equal(slog.LevelDebug))
		Expect(cfg.Autosave).To(Equal(5 * time.Second))
	})

	It("keeps bare host patterns", func() {
		cfg := config.Config{AllowedOrigins: "localhost:5173,https://*.example.com"}
		Expect(cfg.OriginHosts()).To(Equal([]string{"localhost:5173", "*.example.com"}))
	})

	It("falls back to info for an unknown log level", func() {
		cfg := config.Config{LogLevel: "chatty"}
		Expect(cfg.SlogLevel()).To(Equal(slog.LevelInfo))
	})

	It("rejects a malformed port", func() {
		GinkgoT().Setenv("PORT", "eighty")
		_, err := config.Load()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Editor config", func() {
	It("returns defaults without a file", func() {
		cfg, err := config.LoadEditor("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.DefaultEditor()))
	})

	It("overlays YAML onto the defaults", func() {
		path := filepath.Join(GinkgoT().TempDir(), "editor.yaml")
		Expect(os.WriteFile(path, []byte("pageWidth: 1000\nsnapAngle: 15\nhistoryLimit: 5\n"), 0o644)).To(Succeed())

		cfg, err := config.LoadEditor(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.PageWidth).To(Equal(1000.0))
		Expect(cfg.PageHeight).To(Equal(1123.0))
		Expect(cfg.SnapAngle).To(Equal(15.0))
		Expect(cfg.HistoryLimit).To(Equal(5))
		Expect(cfg.DuplicateOffset).To(Equal(20.0))
	})

	DescribeTable("rejects invalid values",
		func(doc string) {
			_, err := config.ParseEditor([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("negative page", "pageWidth: -1"),
		Entry("zero min size", "minElementSize: 0"),
		Entry("full turn snap", "snapAngle: 360"),
		Entry("no history", "historyLimit: 0"),
		Entry("not yaml", "pageWidth: [1,"),
	)

	It("reports a missing file", func() {
		_, err := config.LoadEditor(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(MatchError(ContainSubstring("read editor config")))
	})
})
