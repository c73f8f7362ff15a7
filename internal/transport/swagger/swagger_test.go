package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/frahmantamala/pos-backoffice/internal/transport/swagger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

const documentPath = "../../../api/openapi.yml"

var _ = Describe("OpenAPI document", func() {
	ctx := context.Background()

	It("loads and validates the shipped document", func() {
		doc, err := swagger.Load(ctx, documentPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("POS Back Office API"))

		for _, path := range []string{
			"/api/auth/login",
			"/api/orders/{id}/refund",
			"/api/shifts/current",
			"/api/reports/sales-summary",
			"/api/stores/{id}/settings",
		} {
			Expect(doc.Paths.Value(path)).NotTo(BeNil(), path)
		}
	})

	It("rejects a document that is not valid OpenAPI", func() {
		path := filepath.Join(GinkgoT().TempDir(), "broken.yml")
		Expect(os.WriteFile(path, []byte("openapi: 3.0.3\ninfo: {}\npaths: {}\n"), 0o600)).To(Succeed())

		_, err := swagger.Load(ctx, path)
		Expect(err).To(HaveOccurred())
	})

	Describe("Mount", func() {
		It("serves the document once it validates", func() {
			router := chi.NewRouter()
			Expect(swagger.Mount(ctx, router, documentPath)).To(Succeed())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
		})

		It("registers nothing when the file is missing", func() {
			router := chi.NewRouter()
			Expect(swagger.Mount(ctx, router, "does-not-exist.yml")).NotTo(Succeed())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
