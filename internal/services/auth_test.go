package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskdesk/internal/config"
	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.AuthService
	users   *services.UserService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}))

	suite.db = db
	suite.service = services.NewAuthService(config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "taskdesk-backend",
	})
	suite.users = services.NewUserService()
}

func (suite *AuthServiceTestSuite) TestRegisterAndLogin() {
	user, err := suite.service.RegisterUser(suite.db, "Ana@Example.com", "hunter2hunter2", "Ana")
	suite.Require().NoError(err)
	suite.Equal("ana@example.com", user.Email)
	suite.NotEqual("hunter2hunter2", user.Password)
	suite.True(user.IsActive)

	loggedIn, token, err := suite.service.LoginUser(suite.db, "ana@example.com", "hunter2hunter2")
	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.NotNil(loggedIn.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestRegisterValidation() {
	_, err := suite.service.RegisterUser(suite.db, "not-an-email", "hunter2hunter2", "")
	suite.ErrorIs(err, services.ErrValidation)

	_, err = suite.service.RegisterUser(suite.db, "ana@example.com", "short", "")
	suite.ErrorIs(err, services.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := suite.service.RegisterUser(suite.db, "ana@example.com", "hunter2hunter2", "Ana")
	suite.Require().NoError(err)

	_, _, err = suite.service.LoginUser(suite.db, "ana@example.com", "wrong-password")
	suite.ErrorIs(err, services.ErrInvalidCredentials)

	_, _, err = suite.service.LoginUser(suite.db, "nobody@example.com", "hunter2hunter2")
	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestTokenClaims() {
	user, err := suite.service.RegisterUser(suite.db, "ana@example.com", "hunter2hunter2", "Ana")
	suite.Require().NoError(err)

	tokenString, err := suite.service.GenerateToken(user)
	suite.Require().NoError(err)

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	suite.Require().True(ok)
	suite.Equal(user.ID.String(), claims["user_id"])
	suite.Equal("ana@example.com", claims["email"])
	suite.Equal("taskdesk-backend", claims["iss"])
}

func (suite *AuthServiceTestSuite) TestListUsersSkipsInactive() {
	active, err := suite.service.RegisterUser(suite.db, "b@example.com", "hunter2hunter2", "B")
	suite.Require().NoError(err)
	_, err = suite.service.RegisterUser(suite.db, "a@example.com", "hunter2hunter2", "A")
	suite.Require().NoError(err)

	gone, err := suite.service.RegisterUser(suite.db, "gone@example.com", "hunter2hunter2", "Gone")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(&models.User{}).
		Where("id = ?", gone.ID).
		Update("is_active", false).Error)

	listings, err := suite.users.ListUsers(suite.db)
	suite.Require().NoError(err)
	suite.Require().Len(listings, 2)
	suite.Equal("a@example.com", listings[0].Email)
	suite.Equal(active.ID, listings[1].ID)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
