package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"testhub/bizerror"
	"testhub/idgen"
	"testhub/persistence"
	"testhub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
	"golang.org/x/time/rate"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	// a process wide brake on credential guessing
	loginLimiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 10)

	CreateUserFunc        = CreateUser
	QueryAccountNamesFunc = QueryAccountNames
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// CheckBasicAuth verifies name/secret credentials for login.
func CheckBasicAuth(name, secret string, s *session.Session) (*User, error) {
	if !loginLimiter.Allow() {
		return nil, bizerror.ErrTooManyAttempts
	}

	user := User{}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&User{Name: name, Secret: HashSha256(secret)}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrInvalidPassword
		}
		return nil, err
	}
	return &user, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	if err := db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrInvalidPassword
		}
		return err
	}

	return db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

// CreateUser is open sign-up: there is no system wide administrator tier,
// capability is granted per organization membership.
func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Nickname: c.Nickname, Secret: HashSha256(c.Secret)}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname}, nil
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.TODO())
	var records []UserInfo
	if err := db.Model(&User{}).Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}

// DefaultConfiguration seeds the initial admin user when the user table is empty.
func DefaultConfiguration() error {
	return persistence.ActiveDataSourceManager.GormDB(context.TODO()).Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{ID: 1}).First(&admin).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			initialAdminPassword := os.ExpandEnv("${INITIAL_ADMIN_PASSWORD}")
			if initialAdminPassword == "" {
				initialAdminPassword = "admin123"
			}
			return tx.Save(&User{ID: 1, Name: "admin", Secret: HashSha256(initialAdminPassword)}).Error
		}
		return err
	})
}
