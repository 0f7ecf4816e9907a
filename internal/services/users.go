package services

import (
	"gorm.io/gorm"

	"taskdesk/internal/models"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// ListUsers returns the assignable users, sorted by email. Inactive accounts
// are kept out so stale assignees never show up in pickers.
func (s *UserService) ListUsers(db *gorm.DB) ([]models.UserListing, error) {
	var users []models.User
	if err := db.Where("is_active = ?", true).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	listings := make([]models.UserListing, 0, len(users))
	for _, u := range users {
		listings = append(listings, u.Listing())
	}
	return listings, nil
}
