package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/pkg/apperr"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

type RegisterInput struct {
	FirstName string `json:"firstname" validate:"max=150"`
	LastName  string `json:"lastname" validate:"max=150"`
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Email     string `json:"email" validate:"required,email,max=254"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate lists the profile fields a user may change on themselves.
type UserUpdate struct {
	FirstName *string `json:"firstname" validate:"omitnil,max=150"`
	LastName  *string `json:"lastname" validate:"omitnil,max=150"`
	Username  *string `json:"username" validate:"omitnil,min=1,max=150"`
	Password  *string `json:"password" validate:"omitnil,min=8,max=128"`
	Email     *string `json:"email" validate:"omitnil,email,max=254"`
}

// Session is an auth key together with the user it belongs to.
type Session struct {
	Key  string
	User resource.Record
}

// AuthService manages accounts and their opaque API keys. It also resolves
// bearer keys for the auth middleware.
type AuthService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

var _ auth.Authenticator = (*AuthService)(nil)

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, users: repositories.NewUserRepository(db)}
}

func duplicateUser() error {
	return apperr.Conflictf("Username or email already exists")
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	var (
		u   models.User
		key string
	)
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		taken, err := users.Taken(ctx, in.Username, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return duplicateUser()
		}

		u = models.User{
			Username:  in.Username,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Password:  hash,
		}
		if err := users.Create(ctx, &u); err != nil {
			if repositories.IsDuplicate(err) {
				return duplicateUser()
			}
			return err
		}
		key, err = issue(ctx, users, u.ID)
		return err
	})
	if err != nil {
		return Session{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "username", u.Username)
	return Session{Key: key, User: resource.New(u)}, nil
}

// Login returns the user's current key, issuing one if they have none.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	u, ok, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if !ok || !auth.CheckPassword(u.Password, in.Password) {
		return "", apperr.New(apperr.Unauthenticated, "Invalid credentials")
	}

	var key string
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		t, ok, err := users.TokenForUser(ctx, u.ID)
		if err != nil {
			return err
		}
		if ok {
			key = t.Key
			return nil
		}
		key, err = issue(ctx, users, u.ID)
		return err
	})
	return key, err
}

// Logout revokes every key of the user.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.users.DeleteTokens(ctx, userID)
}

func (s *AuthService) Retrieve(ctx context.Context, userID uint) (resource.Record, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(u), nil
}

func (s *AuthService) Update(ctx context.Context, userID uint, in UserUpdate) (resource.Record, error) {
	var hash string
	if in.Password != nil {
		var err error
		if hash, err = auth.HashPassword(*in.Password); err != nil {
			return resource.Record{}, err
		}
	}

	var u models.User
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		var err error
		if u, err = users.FindByID(ctx, userID); err != nil {
			return err
		}
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Username != nil {
			u.Username = *in.Username
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if hash != "" {
			u.Password = hash
		}

		taken, err := users.Taken(ctx, u.Username, u.Email, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return duplicateUser()
		}
		if err := users.Save(ctx, &u); err != nil {
			if repositories.IsDuplicate(err) {
				return duplicateUser()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return resource.Record{}, err
	}
	return resource.New(u), nil
}

// Delete removes the user and revokes their keys.
func (s *AuthService) Delete(ctx context.Context, userID uint) error {
	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if _, err := users.FindByID(ctx, userID); err != nil {
			return err
		}
		if err := users.DeleteTokens(ctx, userID); err != nil {
			return err
		}
		return users.Delete(ctx, userID)
	})
}

// RefreshKey replaces the user's key with a new one.
func (s *AuthService) RefreshKey(ctx context.Context, userID uint) (string, error) {
	var key string
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if err := users.DeleteTokens(ctx, userID); err != nil {
			return err
		}
		var err error
		key, err = issue(ctx, users, userID)
		return err
	})
	return key, err
}

// Authenticate resolves a bearer key to its user.
func (s *AuthService) Authenticate(ctx context.Context, key string) (auth.Identity, error) {
	if key == "" {
		return auth.Identity{}, apperr.New(apperr.Unauthorized, "Unauthorized AuthKey")
	}
	t, ok, err := s.users.TokenByKey(ctx, key)
	if err != nil {
		return auth.Identity{}, err
	}
	if !ok {
		return auth.Identity{}, apperr.New(apperr.Unauthorized, "Unauthorized AuthKey")
	}
	u, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		return auth.Identity{}, apperr.Wrap(apperr.Unauthorized, err, "Unauthorized User")
	}
	return auth.Identity{UserID: u.ID, Username: u.Username, Email: u.Email, Key: t.Key}, nil
}

func issue(ctx context.Context, users *repositories.UserRepository, userID uint) (string, error) {
	key, err := auth.GenerateKey()
	if err != nil {
		return "", err
	}
	if err := users.CreateToken(ctx, &models.Token{Key: key, UserID: userID}); err != nil {
		return "", err
	}
	return key, nil
}
