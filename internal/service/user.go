package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"technestia/internal/auth"
	"technestia/internal/config"
	"technestia/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const searchResultCap = 12

// UserService owns identity and profile logic.
type UserService struct {
	db  *gorm.DB
	cfg config.Config
	rdb *redis.Client
}

// NewUserService builds a UserService. rdb may be nil; search then skips the
// cache.
func NewUserService(db *gorm.DB, cfg config.Config, rdb *redis.Client) *UserService {
	return &UserService{db: db, cfg: cfg, rdb: rdb}
}

// GenerateUniqueUsername appends fresh random suffixes to the email-derived
// prefix until the lookup finds no existing row. The loop is intentionally
// uncapped: four alphanumeric characters make repeated collisions negligible.
func (s *UserService) GenerateUniqueUsername(email string) (string, error) {
	prefix := UsernamePrefix(email)
	for {
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}
		candidate := prefix + "_" + suffix
		var count int64
		if err := s.db.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

type RegisterResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a user with a generated unique username.
func (s *UserService) Register(email, password, name string) (*RegisterResult, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	username, err := s.GenerateUniqueUsername(email)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: username, Email: email, Name: name, PasswordHash: &hash}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &RegisterResult{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"-"`
}

// Login checks credentials and issues a token pair.
func (s *UserService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil || !auth.VerifyPassword(*user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	at, err := auth.GenerateAccessToken(user.ID, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	rt, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	exp := time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDays) * 24 * time.Hour)
	if err := auth.SaveRefreshToken(s.db, user.ID, rt, exp); err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: at, RefreshToken: rt, User: user}, nil
}

type RefreshResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokens validates the old refresh token and rotates in a new pair.
func (s *UserService) RefreshTokens(oldRT string) (*RefreshResult, error) {
	var result RefreshResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec, err := auth.ValidateRefreshToken(tx, oldRT)
		if err != nil {
			return err
		}
		if err := auth.RevokeRefreshToken(tx, oldRT); err != nil {
			return err
		}
		at, err := auth.GenerateAccessToken(rec.UserID, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
		if err != nil {
			return err
		}
		newRT, err := auth.GenerateRefreshToken()
		if err != nil {
			return err
		}
		exp := time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDays) * 24 * time.Hour)
		if err := auth.SaveRefreshToken(tx, rec.UserID, newRT, exp); err != nil {
			return err
		}
		result.AccessToken = at
		result.RefreshToken = newRT
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByUsername returns the public profile for any user.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type ProfileUpdate struct {
	Name  *string
	Bio   *string
	Links datatypes.JSON
}

// UpdateProfile applies the non-nil fields to the caller's profile.
func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) error {
	changes := map[string]interface{}{}
	if upd.Name != nil {
		changes["name"] = *upd.Name
	}
	if upd.Bio != nil {
		changes["bio"] = *upd.Bio
	}
	if upd.Links != nil {
		changes["links"] = upd.Links
	}
	if len(changes) == 0 {
		return nil
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Updates(changes).Error
}

// UpdateUsername changes the caller's username; a taken name is a conflict.
func (s *UserService) UpdateUsername(userID uint, username string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ? AND id <> ?", username, userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("username", username).Error
}

// SetPassword sets or replaces the caller's password hash. Accounts created
// through an external identity provider start without one.
func (s *UserService) SetPassword(userID uint, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
}

// UpdateImage stores the media host reference for the caller's avatar.
func (s *UserService) UpdateImage(userID uint, url, publicID string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"image_url": url, "image_public_id": publicID}).Error
}

// DeleteAccount removes the user row; owned projects and collaborations go
// with it via store-level cascades, not application logic.
func (s *UserService) DeleteAccount(userID uint) error {
	return s.db.Delete(&models.User{}, userID).Error
}

// SearchUser is the leaderboard-ordered public search result shape.
type SearchUser struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ImageURL          string `json:"image_url"`
	AchievementPoints int    `json:"achievement_points"`
}

// SearchVerified returns up to 12 verified users matching the query, ordered
// by descending achievement points. Results are cached briefly in redis keyed
// by the normalized query.
func (s *UserService) SearchVerified(ctx context.Context, query string) ([]SearchUser, error) {
	cacheKey := "search:users:" + query
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var out []SearchUser
			if err := json.Unmarshal([]byte(cached), &out); err == nil {
				return out, nil
			}
		}
	}

	q := s.db.Model(&models.User{}).Where("is_verified = ?", true)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("username LIKE ? OR name LIKE ?", like, like)
	}
	var users []models.User
	if err := q.Order("achievement_points desc").Limit(searchResultCap).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]SearchUser, 0, len(users))
	for _, u := range users {
		out = append(out, SearchUser{ID: u.ID, Username: u.Username, Name: u.Name, ImageURL: u.ImageURL, AchievementPoints: u.AchievementPoints})
	}

	if s.rdb != nil {
		if b, err := json.Marshal(out); err == nil {
			ttl := time.Duration(s.cfg.SearchCacheTTLSeconds) * time.Second
			if err := s.rdb.Set(ctx, cacheKey, b, ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("search cache set")
			}
		}
	}
	return out, nil
}
