// Package notification 通知中心
package notification

import (
	"gorm.io/gorm"

	notificationmodel "myspace/storage-api/internal/model/notification"
)

// Repository 通知数据访问
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser 列出未归档通知，新的在前
func (r *Repository) ListByUser(userID uint) ([]notificationmodel.Notification, error) {
	var notifications []notificationmodel.Notification
	err := r.db.Where("user_id = ? AND archived = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount 未读数量
func (r *Repository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&notificationmodel.Notification{}).
		Where("user_id = ? AND read = ? AND archived = ?", userID, false, false).
		Count(&count).Error
	return count, err
}

// Create 创建通知
func (r *Repository) Create(n *notificationmodel.Notification) error {
	return r.db.Create(n).Error
}

// SetProperty 更新单条通知的布尔属性（read / starred / archived）
func (r *Repository) SetProperty(userID, notificationID uint, property string, value bool) (int64, error) {
	result := r.db.Model(&notificationmodel.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update(property, value)
	return result.RowsAffected, result.Error
}

// MarkAllRead 全部标为已读
func (r *Repository) MarkAllRead(userID uint) error {
	return r.db.Model(&notificationmodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// Delete 删除单条通知
func (r *Repository) Delete(userID, notificationID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&notificationmodel.Notification{})
	return result.RowsAffected, result.Error
}

// ClearByUser 清空用户的全部通知
func (r *Repository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&notificationmodel.Notification{}).Error
}
