package service

import (
	"errors"
	"time"

	"smartnotes/config"
	"smartnotes/dao"
	"smartnotes/internal/auth"
	"smartnotes/model"
	"smartnotes/utils"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserExists = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown user and wrong password so
	// the response never reveals which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService bundles the DAO, session storage and authentication helpers.
type UserService struct {
	dao     *dao.UserDAO
	Session *auth.SessionManager
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(dao *dao.UserDAO, rdb *redis.Client) *UserService {
	return &UserService{
		dao:     dao,
		Session: auth.NewSessionManager(rdb),
	}
}

// Register persists a freshly created user after hashing the password.
func (s *UserService) Register(username, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	user := &model.User{Username: username, PasswordHash: hashed}
	if err := s.dao.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login handles username/password authentication and issues the identity token.
func (s *UserService) Login(username, password string) (string, *model.User, error) {
	user, err := s.dao.GetByUsername(username)
	if err != nil || user.ID == 0 {
		return "", nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CurrentUser returns the public record of a verified identity.
func (s *UserService) CurrentUser(userID uint64) (*model.User, error) {
	return s.dao.GetByID(userID)
}

// Logout blacklists the presented token for its remaining lifetime. The
// token scheme itself is stateless, so this is what makes logout stick.
func (s *UserService) Logout(token string) error {
	ttl := time.Duration(config.GlobalConfig.JWT.Expire) * time.Second
	return s.Session.AddBlackList(token, ttl)
}
