package middleware_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kimahnho/worksheet/editor-go/internal/middleware"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500", func() {
		h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("Logger", func() {
	It("passes the response through", func() {
		rec := httptest.NewRecorder()
		middleware.Logger(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		Expect(rec.Code).To(Equal(http.StatusTeapot))
	})
})

var _ = Describe("CORS", func() {
	cors := middleware.CORS([]string{"http://localhost:5173"})

	It("echoes an allowed origin", func() {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		cors(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
		Expect(rec.Code).To(Equal(http.StatusTeapot))
	})

	It("ignores other origins", func() {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()
		cors(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests", func() {
		req := httptest.NewRequest("OPTIONS", "/assets/upload", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		cors(ok).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("allows any origin with a wildcard", func() {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://anywhere.test")
		rec := httptest.NewRecorder()
		middleware.CORS([]string{"*"})(ok).ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://anywhere.test"))
	})
})
