package role_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/frahmantamala/pos-backoffice/internal"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	"github.com/frahmantamala/pos-backoffice/internal/role/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Role Suite")
}

func statusOf(err error) int {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return 0
	}
	return appErr.StatusCode
}

var _ = Describe("Role Service", func() {
	var (
		ctx     context.Context
		repo    *memory.Repository
		service *role.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = memory.NewRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(repo, logger)
	})

	Describe("List", func() {
		It("includes the built-in roles even when none are stored", func() {
			roles, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(3))
			Expect(roles[0].Name).To(Equal("admin"))
			Expect(roles[0].IsSystem).To(BeTrue())
			Expect(roles[2].Permissions.CanManageOrders).To(BeTrue())
		})

		It("lists custom roles after the built-in ones", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())

			roles, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(4))
			Expect(roles[3].Name).To(Equal("barista"))
		})

		It("does not duplicate seeded built-in rows", func() {
			for _, row := range role.SystemRows() {
				row.IsSystem = true
				repo.Seed(row)
			}
			roles, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(3))
			Expect(roles[0].ID).NotTo(BeZero())
		})
	})

	Describe("Create", func() {
		It("stores the permission set", func() {
			created, err := service.Create(ctx, role.CreateRoleDTO{
				Name:        "shift-lead",
				Permissions: permission.Set{CanViewReports: true, CanManageOrders: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())

			set, err := service.PermissionsForRole(ctx, "shift-lead")
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Granted()).To(ConsistOf(permission.CanManageOrders, permission.CanViewReports))
		})

		It("rejects duplicate names with 409", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(statusOf(err)).To(Equal(http.StatusConflict))
		})

		It("rejects built-in names in any case with 409", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "Admin"})
			Expect(statusOf(err)).To(Equal(http.StatusConflict))
		})

		It("validates the name", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: " "})
			Expect(statusOf(err)).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Update", func() {
		It("replaces name, description and permissions", func() {
			created, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())
			repo.Assign("barista", 2)

			updated, err := service.Update(ctx, created.ID, role.UpdateRoleDTO{
				Name:        "head-barista",
				Permissions: permission.Set{CanManageProducts: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("head-barista"))

			n, err := repo.CountActiveUsers(ctx, "head-barista")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))
		})

		It("refuses to touch system rows with 403", func() {
			row := repo.Seed(&roleDatamodel.Role{Name: "auditor", IsSystem: true})

			_, err := service.Update(ctx, row.ID, role.UpdateRoleDTO{Name: "auditor2"})
			Expect(statusOf(err)).To(Equal(http.StatusForbidden))
		})

		It("returns 404 for unknown ids", func() {
			_, err := service.Update(ctx, 99, role.UpdateRoleDTO{Name: "ghost"})
			Expect(statusOf(err)).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Delete", func() {
		It("rejects deleting a system role with 403 and keeps the row", func() {
			row := repo.Seed(&roleDatamodel.Role{Name: "admin", IsSystem: true})

			err := service.Delete(ctx, row.ID)
			Expect(statusOf(err)).To(Equal(http.StatusForbidden))

			still, err := repo.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(still).NotTo(BeNil())
		})

		It("rejects deleting a role held by active users with 409", func() {
			created, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())
			repo.Assign("barista", 1)

			Expect(statusOf(service.Delete(ctx, created.ID))).To(Equal(http.StatusConflict))
		})

		It("deletes unused custom roles", func() {
			created, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, created.ID)).To(Succeed())
			_, err = service.PermissionsForRole(ctx, "barista")
			Expect(errors.Is(err, permission.ErrUnknownRole)).To(BeTrue())
		})
	})

	Describe("Exists", func() {
		It("accepts built-in and stored names only", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "barista"})
			Expect(err).NotTo(HaveOccurred())

			for name, want := range map[string]bool{"cashier": true, "barista": true, "Cashier": false, "ghost": false} {
				ok, err := service.Exists(ctx, name)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(Equal(want), name)
			}
		})
	})
})
