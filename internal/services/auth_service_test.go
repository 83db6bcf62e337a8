package services_test

import (
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(id string, role string) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func TestAuthService_RegisterUserHashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	mockRepo.On("GetByUsername", "amina").Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("GetByEmail", "amina@example.com").Return(nil, repositories.ErrUserNotFound).Once()

	var stored *models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*models.User)
	}).Return(nil).Once()

	err := service.RegisterUser(&models.User{
		Username: "amina",
		Email:    "amina@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserRejectsDuplicates(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	mockRepo.On("GetByUsername", "amina").
		Return(&models.User{Username: "amina"}, nil).Once()

	err := service.RegisterUser(&models.User{Username: "amina", Email: "x@example.com", Password: "pw1234"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-1", Username: "amina", Role: models.RoleManager, Password: string(hashed)}
	mockRepo.On("GetByUsername", "amina").Return(user, nil).Twice()

	token, err := service.LoginUser("amina", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "amina", claims["username"])
	assert.Equal(t, models.RoleManager, claims["role"])

	_, err = service.LoginUser("amina", "wrong-password")
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateUserRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "secret")

	mockRepo.On("UpdateRole", "user-1", models.RoleManager).Return(nil).Once()
	assert.NoError(t, service.UpdateUserRole("user-1", models.RoleManager))

	err := service.UpdateUserRole("user-1", "superuser")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
	mockRepo.AssertExpectations(t)
}
