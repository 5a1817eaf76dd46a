// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/javajoker/marketplace-backend/internal/market"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(20);not null"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData  JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Collections []Collection `json:"collections,omitempty" gorm:"foreignKey:CreatorID"`
	Purchases   []Trade      `json:"purchases,omitempty" gorm:"foreignKey:BuyerID"`
	Sales       []Trade      `json:"sales,omitempty" gorm:"foreignKey:SellerID"`
}

// Account is the user's identity on the in-process ledgers. Usernames are
// unique, so they double as ledger account names.
func (u *User) Account() market.Account {
	return market.Account(u.Username)
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
