package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
)

// UserRepository handles users and their API tokens.
type UserRepository struct{ base }

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{base{db}}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return NewUserRepository(tx)
}

// FindByUsername returns ok=false when there is no such user.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	return u, err == nil, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.q(ctx).Where("id = ?", id).First(&u, "Unauthorized User")
	return u, err
}

// Taken reports whether another user already holds username or email.
func (r *UserRepository) Taken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// TokenByKey returns ok=false for an unknown key.
func (r *UserRepository) TokenByKey(ctx context.Context, key string) (models.Token, bool, error) {
	var t models.Token
	err := r.db.WithContext(ctx).Where(&models.Token{Key: key}).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Token{}, false, nil
	}
	return t, err == nil, err
}

// TokenForUser returns ok=false when the user is logged out.
func (r *UserRepository) TokenForUser(ctx context.Context, userID uint) (models.Token, bool, error) {
	var t models.Token
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Token{}, false, nil
	}
	return t, err == nil, err
}

func (r *UserRepository) CreateToken(ctx context.Context, t *models.Token) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *UserRepository) DeleteTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error
}
