package store_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
	"github.com/frahmantamala/pos-backoffice/internal/store"
	storePostgres "github.com/frahmantamala/pos-backoffice/internal/store/postgres"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("Store Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *store.Service
		main    *store.Store
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&storeDatamodel.Store{},
			&storeDatamodel.Settings{},
			&storeDatamodel.PosDevice{},
			&storeDatamodel.DiningOption{},
			&storeDatamodel.KitchenQueue{},
		)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = store.NewService(storePostgres.NewStoreRepository(db), slogger)

		main, err = service.CreateStore(ctx, store.StoreDTO{Name: "Main Street"})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Stores", func() {
		It("returns 409 for a duplicate store name", func() {
			_, err := service.CreateStore(ctx, store.StoreDTO{Name: "Main Street"})
			Expect(errors.Is(err, store.ErrDuplicate)).To(BeTrue())
		})

		It("returns 404 for unknown stores", func() {
			_, err := service.GetStore(ctx, 999)
			Expect(errors.Is(err, store.ErrStoreNotFound)).To(BeTrue())
		})
	})

	Describe("Settings", func() {
		It("reports defaults before anything is saved", func() {
			s, err := service.GetSettings(ctx, main.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Currency).To(Equal(store.DefaultCurrency))
			Expect(s.StoreID).To(Equal(main.ID))
		})

		It("upserts a single row per store", func() {
			_, err := service.UpdateSettings(ctx, main.ID, store.SettingsDTO{Currency: "idr", Timezone: "Asia/Jakarta"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UpdateSettings(ctx, main.ID, store.SettingsDTO{Currency: "EUR", ReceiptFooter: "Thanks!"})
			Expect(err).NotTo(HaveOccurred())

			var count int64
			Expect(db.Model(&storeDatamodel.Settings{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))

			s, err := service.GetSettings(ctx, main.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Currency).To(Equal("EUR"))
			Expect(s.Timezone).To(Equal("UTC"))
			Expect(s.ReceiptFooter).To(Equal("Thanks!"))
		})

		It("rejects unknown timezones and bad currency codes", func() {
			_, err := service.UpdateSettings(ctx, main.ID, store.SettingsDTO{Currency: "EURO", Timezone: "Mars/Base"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("currency"))
		})

		It("returns 404 for settings of unknown stores", func() {
			_, err := service.UpdateSettings(ctx, 999, store.SettingsDTO{Currency: "USD"})
			Expect(errors.Is(err, store.ErrStoreNotFound)).To(BeTrue())
		})
	})

	Describe("POS devices", func() {
		It("returns 409 for a reused device code", func() {
			_, err := service.SaveDevice(ctx, 0, store.PosDeviceDTO{StoreID: main.ID, Name: "Front", DeviceCode: "REG1"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SaveDevice(ctx, 0, store.PosDeviceDTO{StoreID: main.ID, Name: "Back", DeviceCode: "REG1"})
			Expect(errors.Is(err, store.ErrDuplicate)).To(BeTrue())
		})

		It("rejects devices for stores that do not exist", func() {
			_, err := service.SaveDevice(ctx, 0, store.PosDeviceDTO{StoreID: 999, Name: "Ghost", DeviceCode: "X1"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("store does not exist"))
		})
	})

	Describe("Dining options", func() {
		It("keeps one default per store", func() {
			dineIn, err := service.SaveDiningOption(ctx, 0, store.DiningOptionDTO{StoreID: main.ID, Name: "Dine in", IsDefault: true})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SaveDiningOption(ctx, 0, store.DiningOptionDTO{StoreID: main.ID, Name: "Takeaway", IsDefault: true})
			Expect(err).NotTo(HaveOccurred())

			options, err := service.ListDiningOptions(ctx, &main.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(options).To(HaveLen(2))
			Expect(options[0].Name).To(Equal("Takeaway"))
			Expect(options[0].IsDefault).To(BeTrue())

			for _, o := range options {
				if o.ID == dineIn.ID {
					Expect(o.IsDefault).To(BeFalse())
				}
			}
		})

		It("returns 404 when updating an unknown option", func() {
			_, err := service.SaveDiningOption(ctx, 404, store.DiningOptionDTO{StoreID: main.ID, Name: "Delivery"})
			Expect(errors.Is(err, store.ErrResourceNotFound)).To(BeTrue())
		})
	})

	Describe("Kitchen queues", func() {
		It("round-trips category routing and lists [] rather than null", func() {
			q, err := service.SaveKitchenQueue(ctx, 0, store.KitchenQueueDTO{StoreID: main.ID, Name: "Bar", CategoryIDs: []int64{3, 5}})
			Expect(err).NotTo(HaveOccurred())

			queues, err := service.ListKitchenQueues(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(queues).To(HaveLen(1))
			Expect(queues[0].CategoryIDs).To(Equal([]int64{3, 5}))

			empty, err := service.SaveKitchenQueue(ctx, 0, store.KitchenQueueDTO{StoreID: main.ID, Name: "Grill"})
			Expect(err).NotTo(HaveOccurred())
			Expect(empty.CategoryIDs).NotTo(BeNil())

			Expect(service.DeleteKitchenQueue(ctx, q.ID)).To(Succeed())
			Expect(errors.Is(service.DeleteKitchenQueue(ctx, 999), store.ErrResourceNotFound)).To(BeTrue())
		})
	})

	Describe("Handler", func() {
		var router chi.Router

		BeforeEach(func() {
			slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			handler := store.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
			router = chi.NewRouter()
			router.Post("/pos-devices", handler.SaveDevice)
			router.Put("/pos-devices/{id}", handler.SaveDevice)
			router.Get("/pos-devices", handler.ListDevices)
			router.Get("/stores/{id}/settings", handler.GetSettings)
		})

		do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
			var buf bytes.Buffer
			if body != nil {
				Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
			return w
		}

		It("creates with 201 and updates with 200 through one handler", func() {
			w := do(http.MethodPost, "/pos-devices", map[string]interface{}{"storeId": main.ID, "name": "Front", "deviceCode": "REG1"})
			Expect(w.Code).To(Equal(http.StatusCreated))

			var created store.PosDevice
			Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())

			w = do(http.MethodPut, "/pos-devices/"+itoa(created.ID), map[string]interface{}{"storeId": main.ID, "name": "Counter", "deviceCode": "REG1"})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"name":"Counter"`))
		})

		It("lists an empty store as []", func() {
			w := do(http.MethodGet, "/pos-devices?store=77", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`[]`))
		})

		It("returns 404 for settings of an unknown store", func() {
			Expect(do(http.MethodGet, "/stores/999/settings", nil).Code).To(Equal(http.StatusNotFound))
		})
	})
})
