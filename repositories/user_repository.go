package repositories

import (
	"gorm.io/gorm"

	"warbler/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Search returns all users, or those whose username contains the query.
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	tx := r.db.Order("username")
	if query != "" {
		tx = tx.Where("username LIKE ?", "%"+query+"%")
	}
	err := tx.Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes the user together with their messages and every follow and
// like row touching them, in one transaction. The explicit deletes keep the
// cascade independent of driver-level foreign key enforcement.
func (r *userRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var messageIDs []uint
		if err := tx.Model(&models.Message{}).Where("user_id = ?", user.ID).Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

func (r *userRepository) Follow(follower, followed *models.User) error {
	follow := models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
	return r.db.Create(&follow).Error
}

func (r *userRepository) Unfollow(follower, followed *models.User) error {
	return r.db.Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Delete(&models.Follow{}).Error
}

func (r *userRepository) IsFollowing(follower, followed *models.User) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Following(user *models.User) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", user.ID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Followers(user *models.User) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", user.ID).
		Order("users.username").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Like(user *models.User, message *models.Message) error {
	like := models.Like{UserID: user.ID, MessageID: message.ID}
	return r.db.Create(&like).Error
}

func (r *userRepository) Unlike(user *models.User, message *models.Message) error {
	return r.db.Where("user_id = ? AND message_id = ?", user.ID, message.ID).
		Delete(&models.Like{}).Error
}

func (r *userRepository) HasLiked(user *models.User, message *models.Message) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", user.ID, message.ID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) LikedMessages(user *models.User, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", user.ID).
		Preload("User").
		Order("messages.timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// LikedMessageIDs returns the IDs of every message the user has liked, used to
// mark like state across a rendered timeline in one query.
func (r *userRepository) LikedMessageIDs(user *models.User) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("user_id = ?", user.ID).Pluck("message_id", &ids).Error
	return ids, err
}

func (r *userRepository) Stats(user *models.User) (models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.Model(&models.Message{}).Where("user_id = ?", user.ID).Count(&stats.Messages).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&stats.Following).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Follow{}).Where("followed_id = ?", user.ID).Count(&stats.Followers).Error; err != nil {
		return stats, err
	}
	err := r.db.Model(&models.Like{}).Where("user_id = ?", user.ID).Count(&stats.Liked).Error
	return stats, err
}
