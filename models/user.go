package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Default profile images used when a signup or profile edit leaves the fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents an account. Messages are cascade-deleted with their owner;
// follows and likes are directed many-to-many self relations kept in explicit
// join models so the pair carries a composite primary key.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:30;not null"`
	Email          string `gorm:"uniqueIndex;size:50;not null"`
	Password       string `gorm:"column:pw_hash;not null"`
	Bio            string `gorm:"type:text"`
	ImageURL       string `gorm:"not null;default:''"`
	HeaderImageURL string `gorm:"not null;default:''"`

	Messages      []Message  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Following     []*User    `gorm:"many2many:follows;joinForeignKey:FollowerID;joinReferences:FollowedID"`
	Followers     []*User    `gorm:"many2many:follows;joinForeignKey:FollowedID;joinReferences:FollowerID"`
	LikedMessages []*Message `gorm:"many2many:likes;joinForeignKey:UserID;joinReferences:MessageID"`
}

// UserStats carries the counts shown on a profile header.
type UserStats struct {
	Messages  int64
	Following int64
	Followers int64
	Liked     int64
}

// NewUser builds an unsaved user with a hashed password and defaulted image URLs.
func NewUser(username, email, password, imageURL string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	return &User{
		Username:       username,
		Email:          email,
		Password:       string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}, nil
}

// SetPassword replaces the stored hash with one for the given plaintext.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
