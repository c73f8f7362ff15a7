package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Suite")
}

var _ = Describe("error classification", func() {
	DescribeTable("IsUniqueViolation",
		func(err error, want bool) {
			Expect(database.IsUniqueViolation(err)).To(Equal(want))
		},
		Entry("nil", nil, false),
		Entry("gorm translated", gorm.ErrDuplicatedKey, true),
		Entry("postgres 23505", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true),
		Entry("postgres foreign key", &pgconn.PgError{Code: "23503"}, false),
		Entry("sqlite", errors.New("UNIQUE constraint failed: categories.name"), true),
		Entry("other", errors.New("connection refused"), false),
	)

	It("recognizes a missing record", func() {
		Expect(database.IsNotFound(fmt.Errorf("first: %w", gorm.ErrRecordNotFound))).To(BeTrue())
		Expect(database.IsNotFound(errors.New("boom"))).To(BeFalse())
	})
})
