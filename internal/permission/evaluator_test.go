package permission_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/role"
	"github.com/frahmantamala/pos-backoffice/internal/role/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPermission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Permission Suite")
}

type countingStore struct {
	inner permission.RoleStore
	calls int
}

func (c *countingStore) PermissionsForRole(ctx context.Context, name string) (permission.Set, error) {
	c.calls++
	return c.inner.PermissionsForRole(ctx, name)
}

var _ = Describe("Evaluator", func() {
	var (
		ctx       context.Context
		repo      *memory.Repository
		store     *countingStore
		evaluator *permission.Evaluator
		logger    *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = memory.NewRepository()
		store = &countingStore{inner: role.NewService(repo, logger)}
		evaluator = permission.NewEvaluator(store, logger)
	})

	Describe("system roles", func() {
		BeforeEach(func() {
			// stored rows under the built-in names grant everything and must be ignored
			for _, name := range permission.SystemRoleNames() {
				repo.Seed(&roleDatamodel.Role{Name: name, Permissions: permission.FromList(permission.All())})
			}
		})

		It("returns the fixed sets without consulting the store", func() {
			admin, err := evaluator.Resolve(ctx, "admin")
			Expect(err).NotTo(HaveOccurred())
			Expect(admin.Granted()).To(Equal(permission.All()))

			manager, err := evaluator.Resolve(ctx, "manager")
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.CanManageSettings).To(BeFalse())
			Expect(manager.CanManageUsers).To(BeFalse())
			Expect(manager.CanViewReports).To(BeTrue())

			cashier, err := evaluator.Resolve(ctx, "cashier")
			Expect(err).NotTo(HaveOccurred())
			Expect(cashier.Granted()).To(ConsistOf(permission.CanManageOrders, permission.CanViewCustomers))

			Expect(store.calls).To(BeZero())
		})

		It("treats case variants as custom names", func() {
			_, err := evaluator.Resolve(ctx, "Admin")
			Expect(errors.Is(err, permission.ErrUnknownRole)).To(BeTrue())
			Expect(store.calls).To(Equal(1))
		})
	})

	Describe("custom roles", func() {
		BeforeEach(func() {
			repo.Seed(&roleDatamodel.Role{Name: "barista", Permissions: permission.Set{CanManageOrders: true}})
		})

		It("resolves stored permissions", func() {
			Expect(evaluator.Allowed(ctx, "barista", permission.CanManageOrders)).To(BeTrue())
			Expect(evaluator.Allowed(ctx, "barista", permission.CanViewReports)).To(BeFalse())
		})

		It("fails closed for unknown roles", func() {
			set, err := evaluator.Resolve(ctx, "ghost")
			Expect(errors.Is(err, permission.ErrUnknownRole)).To(BeTrue())
			Expect(set.Granted()).To(BeEmpty())

			for _, p := range permission.All() {
				Expect(evaluator.Allowed(ctx, "ghost", p)).To(BeFalse())
			}
		})

		It("reports an unknown role as a plain deny from Check", func() {
			ok, err := evaluator.Check(ctx, "ghost", permission.CanManageOrders)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("fails closed when the store errors", func() {
			repo.SetShouldFail(errors.New("connection refused"))

			ok, err := evaluator.Check(ctx, "barista", permission.CanManageOrders)
			Expect(err).To(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(evaluator.Allowed(ctx, "barista", permission.CanManageOrders)).To(BeFalse())
			Expect(evaluator.Effective(ctx, "barista").Granted()).To(BeEmpty())
		})

		It("never grants unknown permission keys", func() {
			Expect(evaluator.Allowed(ctx, "admin", permission.Permission("canLaunchRockets"))).To(BeFalse())
		})
	})

	It("rejects an empty role name", func() {
		_, err := evaluator.Resolve(ctx, "")
		Expect(errors.Is(err, permission.ErrUnknownRole)).To(BeTrue())
	})

	It("errors instead of panicking without a store", func() {
		bare := permission.NewEvaluator(nil, logger)
		Expect(bare.Allowed(ctx, "barista", permission.CanManageOrders)).To(BeFalse())
		Expect(bare.Allowed(ctx, "admin", permission.CanManageOrders)).To(BeTrue())
	})
})

var _ = Describe("Set", func() {
	It("round-trips through FromList and Granted", func() {
		perms := []permission.Permission{permission.CanViewReports, permission.CanManageUsers}
		Expect(permission.FromList(perms).Granted()).To(ConsistOf(perms))
	})

	It("ignores unknown keys", func() {
		s := permission.FromList([]permission.Permission{"canFly"})
		Expect(s.Granted()).To(BeEmpty())
		Expect(permission.Permission("canFly").Valid()).To(BeFalse())
	})

	It("reserves built-in names case-insensitively", func() {
		Expect(permission.IsReservedName(" Manager ")).To(BeTrue())
		Expect(permission.IsSystemRole("Manager")).To(BeFalse())
	})
})
