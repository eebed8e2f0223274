package database

import (
	"gatekeeper/internal/domain"
)

func GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := DB.Where("email = ?", email).First(&user).Error
	return user, err
}

func CreateUser(user *domain.User) error {
	return DB.Create(user).Error
}

func CountUsers() (int64, error) {
	var count int64
	err := DB.Model(&domain.User{}).Count(&count).Error
	return count, err
}
