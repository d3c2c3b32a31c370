package seed

import (
	"log/slog"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/repository"
	"github.com/caresupportcom/care-schedule/backend/internal/utils"
)

const dateLayout = "2006-01-02"

// SeedDemoData 生成一套演示数据：照护者、未来两周的班次、空闲状态、模板和覆盖要求
func SeedDemoData(r *repository.Repository, password string, emailDomain string, caregiverCount int, days int) {
	// 照护者
	caregiverIDs := make([]int64, 0, caregiverCount)
	for i := 0; i < caregiverCount; i++ {
		user, err := utils.GenerateRandomUser(domain.RoleCaregiver, password, emailDomain)
		if err != nil {
			slog.Error("无法生成随机照护者", "error", err)
			continue
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("无法插入照护者", "error", err)
			continue
		}
		caregiverIDs = append(caregiverIDs, user.ID)
	}
	slog.Info("插入照护者成功", "count", len(caregiverIDs))

	if len(caregiverIDs) == 0 {
		slog.Error("没有可用的照护者，停止生成")
		return
	}

	// 每位照护者的空闲状态
	for _, id := range caregiverIDs {
		av := utils.GenerateRandomAvailability(id)
		if err := r.CreateAvailability(av); err != nil {
			slog.Error("无法插入空闲状态", "user_id", id, "error", err)
		}
	}

	// 未来 days 天的班次
	shiftCount := 0
	today := time.Now()
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i).Format(dateLayout)
		for j := 0; j < 3; j++ {
			shift := utils.GenerateRandomShift(date, caregiverIDs, caregiverIDs[0])
			if err := r.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", "date", date, "error", err)
				continue
			}
			shiftCount++
		}
	}
	slog.Info("插入班次成功", "count", shiftCount)

	// 班次模板
	for i := 0; i < 3; i++ {
		tpl := utils.GenerateRandomTemplate()
		if err := r.CreateTemplate(tpl); err != nil {
			slog.Error("无法插入模板", "error", err)
		}
	}

	// 覆盖要求
	prefs := utils.GenerateRandomPreferences(caregiverIDs)
	if err := r.SavePreferences(prefs); err != nil {
		slog.Error("无法保存覆盖要求", "error", err)
		return
	}

	slog.Info("演示数据生成完成")
}
