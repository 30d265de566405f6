package repositories

import "warbler/models"

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Search(query string) ([]models.User, error)
	Update(user *models.User) error
	Delete(user *models.User) error

	Follow(follower, followed *models.User) error
	Unfollow(follower, followed *models.User) error
	IsFollowing(follower, followed *models.User) (bool, error)
	Following(user *models.User) ([]models.User, error)
	Followers(user *models.User) ([]models.User, error)

	Like(user *models.User, message *models.Message) error
	Unlike(user *models.User, message *models.Message) error
	HasLiked(user *models.User, message *models.Message) (bool, error)
	LikedMessages(user *models.User, limit int) ([]models.Message, error)
	LikedMessageIDs(user *models.User) ([]uint, error)

	Stats(user *models.User) (models.UserStats, error)
}

type MessageRepository interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	Delete(message *models.Message) error
	ByUser(userID uint, limit int) ([]models.Message, error)
	Feed(userID uint, limit int) ([]models.Message, error)
}
