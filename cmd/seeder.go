package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/pos-backoffice/internal/auth"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/store"
	"github.com/frahmantamala/pos-backoffice/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const defaultStoreName = "Main Store"

var (
	adminUsername string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed system roles, a default store and the admin user",
	Long:  `Seed the database with the rows a fresh install needs. Running it again leaves existing rows untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		hash, err := auth.HashPassword(adminPassword, cfg.Security.BCryptCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		err = db.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return seed(tx, adminUsername, hash)
		})
		if err != nil {
			return err
		}

		lg.Info("seed complete", "admin", adminUsername, "store", defaultStoreName)
		return nil
	},
}

func seed(tx *gorm.DB, username, passwordHash string) error {
	for _, name := range permission.SystemRoleNames() {
		set, _ := permission.SystemSet(name)
		row := roleDatamodel.Role{
			Name:        name,
			Description: permission.SystemDescription(name),
			IsSystem:    true,
			Permissions: set,
		}
		if err := tx.Where("name = ?", name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	mainStore := storeDatamodel.Store{Name: defaultStoreName, IsActive: true}
	if err := tx.Where("name = ?", defaultStoreName).FirstOrCreate(&mainStore).Error; err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	settings := storeDatamodel.Settings{StoreID: mainStore.ID, Currency: store.DefaultCurrency, Timezone: "UTC"}
	if err := tx.Where("store_id = ?", mainStore.ID).FirstOrCreate(&settings).Error; err != nil {
		return fmt.Errorf("seed store settings: %w", err)
	}

	admin := userDatamodel.User{
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  "Administrator",
		Role:         permission.RoleAdmin,
		StoreID:      &mainStore.ID,
		IsActive:     true,
	}
	if err := tx.Where("username = ?", username).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&adminUsername, "admin-username", "admin", "username of the seeded administrator")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "admin123", "password of the seeded administrator")
}
