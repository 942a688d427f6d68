package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sambdun/ferro-animus/models"

	"gorm.io/gorm"
)

// BackupDatabase creates a SQL dump via mysqldump when it is on PATH.
// Invocation flags come from DB_BACKUP_FLAGS; output goes to outPath.
func BackupDatabase(outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	args := []string{os.Getenv("DB_BACKUP_FLAGS")}
	cmd := exec.CommandContext(context.Background(), "mysqldump", args...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup attempts a best-effort backup (when
// DB_BACKUP_PATH is set) and then runs AutoMigrate inside a transaction.
func RunMigrationsWithBackup(db *gorm.DB, entities ...interface{}) error {
	backupPath := os.Getenv("DB_BACKUP_PATH")
	if backupPath != "" {
		go func() {
			_ = BackupDatabase(backupPath)
		}()
		// allow a small window for the backup to start
		time.Sleep(500 * time.Millisecond)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(entities...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// SeedStaticData installs the region table and the default settings row
// when they are empty. Idempotent; safe to run at every startup.
func SeedStaticData(db *gorm.DB) error {
	var regionCount int64
	if err := db.Model(&models.Region{}).Count(&regionCount).Error; err != nil {
		return err
	}
	if regionCount == 0 {
		if err := db.Create(&models.SeedRegions).Error; err != nil {
			return err
		}
	}

	var settingCount int64
	if err := db.Model(&models.Setting{}).Count(&settingCount).Error; err != nil {
		return err
	}
	if settingCount == 0 {
		if err := db.Create(&models.Setting{Name: "Ferro Animus"}).Error; err != nil {
			return err
		}
	}
	return nil
}
