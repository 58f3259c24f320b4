package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-commands/models"
	"github.com/yeremiapane/restaurant-commands/utils"
)

// openCommandIndex backs the one-open-command-per-table invariant at the
// storage layer on dialects with partial indexes.
const openCommandIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_commands_one_open_per_table ON commands (table_id) WHERE status = 'open'`

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.Table{},
		&models.StaffUser{},
		&models.Product{},
		&models.Command{},
		&models.CommandItem{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		if err := db.Exec(openCommandIndex).Error; err != nil {
			return fmt.Errorf("create open command index: %w", err)
		}
	default:
		logf("dialect %s has no partial indexes; open commands are guarded by conditional table updates only", db.Dialector.Name())
	}
	return nil
}

func logf(format string, args ...interface{}) {
	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf(format, args...)
	}
}
