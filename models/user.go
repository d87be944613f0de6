package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dshank05/nextjs-sub001/config"
	"github.com/dshank05/nextjs-sub001/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"password,omitempty"`
	Role      UserRole  `gorm:"size:10;not null;default:staff" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" validate:"required,max=100"`
	Name     string   `json:"name" validate:"required,max=100"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"role"`
	IsActive *bool    `json:"is_active"`
}

type LoginInfo struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

/*
caches:
	User:$username
	Token:$token -> username
	Tokens:$username (set of live tokens)
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

func (result *User) PrepareGive() {
	result.Password = ""
}

var (
	ErrInvalidLogin = errors.New("invalid username or password")
	ErrUserDisabled = errors.New("user is disabled")
)

// Login checks credentials and opens a session: a signed token stored in redis.
func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidLogin
	}

	var user User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = config.GetDB().WithContext(ctx).Where("username = ?", username).Take(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLogin
		}
		if err != nil {
			return nil, err
		}
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, ErrInvalidLogin
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrUserDisabled
	}

	token, err := utils.JwtGenerate(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	lifespan := utils.TokenLifespan()
	if err := config.AddRedisSet("Tokens:"+user.Username, token); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token, user.Username, lifespan); err != nil {
		return nil, err
	}
	if !exists {
		if err := config.SetRedisObject("User:"+user.Username, &user, lifespan); err != nil {
			return nil, err
		}
	}

	return &LoginInfo{
		Token:     token,
		Name:      user.Name,
		Username:  user.Username,
		Role:      string(user.Role),
		ExpiresAt: time.Now().Add(lifespan).Unix(),
	}, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	if err := config.RemoveRedisKey("Token:" + token); err != nil {
		return false, err
	}
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

// SessionUsername resolves a live session token to its username.
func SessionUsername(token string) (string, bool, error) {
	return config.GetRedisValue("Token:" + token)
}

// DestroyAllSessions drops every live token of the user.
func (user *User) DestroyAllSessions() error {
	tokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+2)
	for _, t := range tokens {
		keys = append(keys, "Token:"+t)
	}
	keys = append(keys, "Tokens:"+user.Username, "User:"+user.Username)
	return config.RemoveRedisKey(keys...)
}

// ProvisionUser creates the user or, when the username exists, resets its
// name, role and password. Used by cmd/create-user.
func ProvisionUser(ctx context.Context, input *NewUser) (*User, bool, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Name = strings.TrimSpace(input.Name)
	if input.Role == "" {
		input.Role = UserRoleStaff
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, false, err
	}
	if !input.Role.IsValid() {
		return nil, false, NewValidationError("invalid role", "role")
	}
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, false, NewValidationError(err.Error(), "password")
	}

	db := config.GetDB()
	var user User
	err = db.WithContext(ctx).Where("username = ?", input.Username).Take(&user).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return nil, false, err
	}

	if created {
		user = User{
			Username: input.Username,
			Name:     input.Name,
			Password: string(hashed),
			Role:     input.Role,
			IsActive: utils.NewTrueIfNil(input.IsActive),
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, false, err
		}
	} else {
		updates := map[string]interface{}{
			"Name":     input.Name,
			"Password": string(hashed),
			"Role":     input.Role,
		}
		if input.IsActive != nil {
			updates["IsActive"] = *input.IsActive
		}
		if err := db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		// password changed: old sessions must not survive
		if err := user.DestroyAllSessions(); err != nil {
			return nil, false, err
		}
	}
	user.PrepareGive()
	return &user, created, nil
}
