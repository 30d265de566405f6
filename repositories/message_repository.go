package repositories

import (
	"gorm.io/gorm"

	"warbler/models"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Delete(message *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", message.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(message).Error
	})
}

func (r *messageRepository) ByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Feed returns the newest messages posted by the user or anyone they follow.
func (r *messageRepository) Feed(userID uint, limit int) ([]models.Message, error) {
	followed := r.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	var messages []models.Message
	err := r.db.Where("user_id = ? OR user_id IN (?)", userID, followed).
		Preload("User").
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
