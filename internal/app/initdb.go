package app

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emprendia/emprendia/internal/domain"
	"github.com/emprendia/emprendia/pkg/common"
)

// checkAdmin ensures a usable platform admin account exists, repairing role
// and status drift on restart.
func (a *Application) checkAdmin() {
	const adminEmail = "admin@emprendia.local"
	const defaultPassword = "emprendia"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}

	var admin domain.User
	err = a.gormDB.Where("email = ?", adminEmail).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.User{
			ID:       common.UUIDint64(),
			Name:     "Platform Admin",
			Username: "admin",
			Email:    adminEmail,
			Password: string(hashed),
			Role:     domain.RoleAdmin,
			Status:   common.ENABLED,
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("email", adminEmail))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	resetRole := !strings.EqualFold(admin.Role, domain.RoleAdmin)
	resetStatus := !strings.EqualFold(admin.Status, common.ENABLED)
	if !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("email", adminEmail),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}
