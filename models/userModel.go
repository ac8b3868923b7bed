package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email                   string     `json:"email" gorm:"uniqueIndex;not null"`
	Password                string     `json:"-"`
	FirstName               string     `json:"firstName"`
	LastName                string     `json:"lastName"`
	Phone                   string     `json:"phone" gorm:"uniqueIndex"`
	Role                    string     `json:"role"`
	EmailVerified           bool       `json:"emailVerified"`
	EmailVerificationToken  string     `json:"-"`
	EmailVerificationExpiry *time.Time `json:"-"`
	Otp                     string     `json:"-"`
	OtpExpiry               *time.Time `json:"-"`
	PasswordResetToken      string     `json:"-"`
	PasswordResetExpiry     *time.Time `json:"-"`
	ProfileImage            string     `json:"profileImage"`
	Address                 string     `json:"address"`
	City                    string     `json:"city"`
	State                   string     `json:"state"`
	Country                 string     `json:"country"`
	ZipCode                 string     `json:"zipCode"`
}

type RegisterData struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileUpdateData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
}

// Principal is the authenticated identity the auth middleware attaches to
// the request context.
type Principal struct {
	ID    uint
	Email string
	Role  string
}
