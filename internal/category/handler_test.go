package category_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/pos-backoffice/internal/category"
	categoryPostgres "github.com/frahmantamala/pos-backoffice/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/category"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		service *category.Service
		router  chi.Router
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.Category{})
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler := category.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)

		ctx := context.Background()
		for _, name := range []string{"Coffee", "Pastry"} {
			Expect(repo.Create(ctx, &categoryDatamodel.Category{Name: name, IsActive: true})).To(Succeed())
		}
		inactive := &categoryDatamodel.Category{Name: "Seasonal", IsActive: true}
		Expect(repo.Create(ctx, inactive)).To(Succeed())
		Expect(repo.Delete(ctx, inactive.ID)).To(Succeed())
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should handle GET /categories request successfully", func() {
		w := do(http.MethodGet, "/categories", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response []category.Category
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())

		names := make([]string, len(response))
		for i, cat := range response {
			names[i] = cat.Name
		}
		Expect(names).To(ConsistOf("Coffee", "Pastry"))
	})

	It("should create a category and return 201", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"name": "Tea", "color": "#00aa00", "sortOrder": 3})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.Category
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created.SortOrder).To(Equal(3))
	})

	It("should return 409 for a duplicate name", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"name": "Coffee"})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should reject unknown fields", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"name": "Tea", "icon": "leaf"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 when updating a missing category", func() {
		w := do(http.MethodPut, "/categories/999", map[string]interface{}{"name": "Juice"})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should soft delete", func() {
		var coffee categoryDatamodel.Category
		Expect(db.Where("name = ?", "Coffee").First(&coffee).Error).To(Succeed())

		w := do(http.MethodDelete, "/categories/"+itoa(coffee.ID), nil)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		Expect(db.First(&coffee, coffee.ID).Error).To(Succeed())
		Expect(coffee.IsActive).To(BeFalse())
	})
})
