// Package activity 最近动态：记录器与查询接口
package activity

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	activitymodel "myspace/storage-api/internal/model/activity"
)

// Recorder 把动态写入数据库。即发即弃：写入失败只记日志，
// 调用方（生命周期引擎）不感知也不回滚。
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{db: db, logger: logger}
}

// Record 写入一条动态
func (r *Recorder) Record(userID uint, activityType string, targetID uint, targetType string, data map[string]any) {
	payload := ""
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			r.logger.Warn("序列化动态数据失败", zap.String("type", activityType), zap.Error(err))
		} else {
			payload = string(raw)
		}
	}

	a := &activitymodel.Activity{
		UserID:     userID,
		Type:       activityType,
		TargetID:   targetID,
		TargetType: targetType,
		Data:       payload,
	}
	if err := r.db.Create(a).Error; err != nil {
		r.logger.Warn("写入动态失败",
			zap.Uint("user_id", userID),
			zap.String("type", activityType),
			zap.Error(err),
		)
	}
}

// ListByUser 按时间倒序列出用户动态
func (r *Recorder) ListByUser(userID uint, limit int) ([]activitymodel.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var activities []activitymodel.Activity
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// ClearByUser 清空用户的全部动态
func (r *Recorder) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&activitymodel.Activity{}).Error
}
