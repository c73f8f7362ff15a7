package cmd

import (
	"context"
	"fmt"

	authDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/auth"
	categoryDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/category"
	discountDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/discount"
	orderDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/order"
	productDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/product"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	shiftDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/shift"
	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
	taxDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/taxcategory"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Driver == "sqlite" {
		if migrateRollback {
			return fmt.Errorf("rollback is only supported for postgres migrations")
		}
		lg.Info("auto-migrating sqlite schema")
		return autoMigrate(db.Gorm)
	}

	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if migrateRollback {
		lg.Info("rolling back latest migration", "dir", migrateDir)
		if err := goose.DownContext(ctx, db.SQLX.DB, migrateDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}

	lg.Info("applying migrations", "dir", migrateDir)
	if err := goose.UpContext(ctx, db.SQLX.DB, migrateDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// autoMigrate builds the schema from the data models for single-file sqlite deployments.
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&storeDatamodel.Store{},
		&roleDatamodel.Role{},
		&userDatamodel.User{},
		&authDatamodel.RefreshToken{},
		&categoryDatamodel.Category{},
		&taxDatamodel.TaxCategory{},
		&discountDatamodel.Discount{},
		&productDatamodel.Product{},
		&productDatamodel.Variant{},
		&productDatamodel.ProductStore{},
		&productDatamodel.Modifier{},
		&productDatamodel.ProductModifier{},
		&storeDatamodel.Settings{},
		&storeDatamodel.PosDevice{},
		&storeDatamodel.DiningOption{},
		&storeDatamodel.KitchenQueue{},
		&shiftDatamodel.Shift{},
		&orderDatamodel.Order{},
		&orderDatamodel.OrderItem{},
	)
}
