package services

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rmartinsanz/gin-userbase-api/internal/models"
)

// UserUpdate carries the optional fields of an update request. Nil fields are
// left untouched; a non-nil Password is re-hashed before storage.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserService provides registration, authentication and account management
// on top of the users table.
type UserService interface {
	// Register creates a self-service account with the "user" role.
	Register(name, email, password string) (*models.User, error)
	// Authenticate verifies an email/password pair and returns the user.
	Authenticate(email, password string) (*models.User, error)
	// ListUsers retrieves all users.
	ListUsers() ([]models.User, error)
	// GetUser retrieves a user by its ID.
	GetUser(id uint) (*models.User, error)
	// CreateUser creates an account on behalf of an operator.
	CreateUser(name, email, password string) (*models.User, error)
	// UpdateUser applies the given partial update to a user.
	UpdateUser(id uint, update UserUpdate) (*models.User, error)
	// DeleteUser removes a user and returns its last state.
	DeleteUser(id uint) (*models.User, error)
	// EnsureAdmin seeds the protected admin account if it does not exist yet.
	EnsureAdmin(name, email, password string) error
}

type userService struct {
	db         *gorm.DB
	adminEmail string
}

// NewUserService creates a new instance of UserService. adminEmail is the
// address reserved for the protected admin account; creation requests for it
// are refused even before the account is seeded.
func NewUserService(db *gorm.DB, adminEmail string) UserService {
	return &userService{db: db, adminEmail: models.NormalizeEmail(adminEmail)}
}

func (s *userService) Register(name, email, password string) (*models.User, error) {
	return s.createUser(name, email, password, models.RoleUser)
}

func (s *userService) CreateUser(name, email, password string) (*models.User, error) {
	return s.createUser(name, email, password, models.RoleUser)
}

// createUser inserts a user with a hashed password. Duplicate emails are
// detected through the unique constraint rather than a read-then-write
// pre-check, so two concurrent registrations cannot both slip through.
func (s *userService) createUser(name, email, password, role string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == s.adminEmail {
		return nil, ErrProtectedUser
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) Authenticate(email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		// Lookup failures of any kind surface as invalid credentials so the
		// caller cannot probe which emails exist.
		log.WithField("email", email).Debug("Login lookup failed")
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *userService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateUser(id uint, update UserUpdate) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.IsProtected() {
		return nil, ErrProtectedUser
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		email := models.NormalizeEmail(*update.Email)
		if email == s.adminEmail {
			return nil, ErrProtectedUser
		}
		user.Email = email
	}
	if update.Password != nil {
		user.Password = *update.Password
		if err := user.HashPassword(); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(id uint) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.IsProtected() {
		return nil, ErrProtectedUser
	}

	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) EnsureAdmin(name, email, password string) error {
	email = models.NormalizeEmail(email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.WithField("email", email).Debug("Admin account already seeded")
		return nil
	}

	admin := models.User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	if err := s.db.Create(&admin).Error; err != nil {
		// Another instance may have seeded concurrently.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	log.WithField("email", email).Info("Seeded admin account")
	return nil
}
