package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"warbler/database"
	"warbler/models"
	"warbler/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps one in-memory database per test across
	// the pool's connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo repositories.UserRepository, username, email string) *models.User {
	t.Helper()
	user, err := models.NewUser(username, email, "password", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(user))
	return user
}

func TestCreateUserDefaults(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	u1 := createUser(t, repo, "u1", "u1@email.com")

	assert.Equal(t, models.DefaultImageURL, u1.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, u1.HeaderImageURL)
	assert.True(t, u1.CheckPassword("password"))
	assert.False(t, u1.CheckPassword("notpassword"))

	// A fresh user has no messages, followers or likes.
	stats, err := repo.Stats(u1)
	require.NoError(t, err)
	assert.Zero(t, stats.Messages)
	assert.Zero(t, stats.Following)
	assert.Zero(t, stats.Followers)
	assert.Zero(t, stats.Liked)
}

func TestDuplicateUsername(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	createUser(t, repo, "u1", "u1@email.com")
	createUser(t, repo, "u2", "u2@email.com")

	dup, err := models.NewUser("u1", "other@email.com", "password", "")
	require.NoError(t, err)
	err = repo.Create(dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFollowingIsDirectional(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	u1 := createUser(t, repo, "u1", "u1@email.com")
	u2 := createUser(t, repo, "u2", "u2@email.com")

	require.NoError(t, repo.Follow(u1, u2))

	following, err := repo.IsFollowing(u1, u2)
	require.NoError(t, err)
	assert.True(t, following)

	// u2 does not automatically follow u1 back.
	reverse, err := repo.IsFollowing(u2, u1)
	require.NoError(t, err)
	assert.False(t, reverse)

	u1Following, err := repo.Following(u1)
	require.NoError(t, err)
	require.Len(t, u1Following, 1)
	assert.Equal(t, "u2", u1Following[0].Username)

	u2Followers, err := repo.Followers(u2)
	require.NoError(t, err)
	require.Len(t, u2Followers, 1)
	assert.Equal(t, "u1", u2Followers[0].Username)
}

func TestFollowPairIsUnique(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	u1 := createUser(t, repo, "u1", "u1@email.com")
	u2 := createUser(t, repo, "u2", "u2@email.com")

	require.NoError(t, repo.Follow(u1, u2))
	assert.ErrorIs(t, repo.Follow(u1, u2), gorm.ErrDuplicatedKey)
}

func TestUnfollow(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	u1 := createUser(t, repo, "u1", "u1@email.com")
	u2 := createUser(t, repo, "u2", "u2@email.com")

	require.NoError(t, repo.Follow(u1, u2))
	require.NoError(t, repo.Unfollow(u1, u2))

	following, err := repo.IsFollowing(u1, u2)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestLikes(t *testing.T) {
	db := openTestDB(t)
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db)

	u1 := createUser(t, users, "u1", "u1@email.com")
	u2 := createUser(t, users, "u2", "u2@email.com")

	msg := &models.Message{Text: "warble", UserID: u2.ID}
	require.NoError(t, messages.Create(msg))

	liked, err := users.HasLiked(u1, msg)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, users.Like(u1, msg))

	liked, err = users.HasLiked(u1, msg)
	require.NoError(t, err)
	assert.True(t, liked)

	likedMsgs, err := users.LikedMessages(u1, 100)
	require.NoError(t, err)
	require.Len(t, likedMsgs, 1)
	assert.Equal(t, "warble", likedMsgs[0].Text)
	assert.Equal(t, "u2", likedMsgs[0].User.Username)

	ids, err := users.LikedMessageIDs(u1)
	require.NoError(t, err)
	assert.Equal(t, []uint{msg.ID}, ids)

	require.NoError(t, users.Unlike(u1, msg))
	liked, err = users.HasLiked(u1, msg)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestDeleteUserCascades(t *testing.T) {
	db := openTestDB(t)
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db)

	u1 := createUser(t, users, "u1", "u1@email.com")
	u2 := createUser(t, users, "u2", "u2@email.com")

	msg := &models.Message{Text: "soon gone", UserID: u1.ID}
	require.NoError(t, messages.Create(msg))
	require.NoError(t, users.Follow(u2, u1))
	require.NoError(t, users.Like(u2, msg))

	require.NoError(t, users.Delete(u1))

	_, err := users.FindByID(u1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = messages.FindByID(msg.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var followCount int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&followCount).Error)
	assert.Zero(t, followCount)

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	assert.Zero(t, likeCount)

	// The other user is untouched.
	_, err = users.FindByID(u2.ID)
	assert.NoError(t, err)
}

func TestSearch(t *testing.T) {
	repo := repositories.NewUserRepository(openTestDB(t))

	createUser(t, repo, "alice", "alice@email.com")
	createUser(t, repo, "alicia", "alicia@email.com")
	createUser(t, repo, "bob", "bob@email.com")

	all, err := repo.Search("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matches, err := repo.Search("alic")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "alice", matches[0].Username)
	assert.Equal(t, "alicia", matches[1].Username)

	none, err := repo.Search("zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
