package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/princinho/portfoliobackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MinPasswordLength = 6
	bootstrapName     = "Portfolio Admin"
)

// Credentials is the administrator store. Passwords are only ever persisted as
// bcrypt hashes.
type Credentials struct {
	admins        repository.AdminRepository
	now           func() time.Time
	checkPassword func(hash, password string) error
}

func NewCredentials(admins repository.AdminRepository) *Credentials {
	return &Credentials{
		admins:        admins,
		now:           func() time.Time { return time.Now().UTC() },
		checkPassword: utils.CheckPassword,
	}
}

// unknownEmailHash is compared against when no admin matches, so a failed
// login costs one bcrypt comparison whether or not the email exists.
var unknownEmailHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword("no-such-admin")
	if err != nil {
		panic(err)
	}
	return hash
})

type NewAdmin struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return invalid("name", "must be between 2 and 50 characters")
	}
	return nil
}

func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid(field, "must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func (c *Credentials) Create(ctx context.Context, in NewAdmin) (*models.Admin, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = models.RoleAdmin
	}

	if err := validateName(name); err != nil {
		return nil, err
	}
	if !validEmail(email) {
		return nil, invalid("email", "please provide a valid email")
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("role", "must be either admin or super-admin")
	}

	if _, err := c.admins.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := c.now()
	admin := &models.Admin{
		ID:           bson.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.admins.Insert(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return admin, nil
}

// BootstrapDefault creates the first super-admin when the store is empty. It
// reports whether an account was created.
func (c *Credentials) BootstrapDefault(ctx context.Context, email, password string) (bool, error) {
	n, err := c.admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return false, ErrMissingBootstrapCredentials
	}
	_, err = c.Create(ctx, NewAdmin{
		Name:     bootstrapName,
		Email:    email,
		Password: password,
		Role:     models.RoleSuperAdmin,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		// Another instance bootstrapped concurrently.
		return false, nil
	}
	return err == nil, err
}

// Verify checks an email/password pair and stamps the last login time.
func (c *Credentials) Verify(ctx context.Context, email, password string) (*models.Admin, error) {
	admin, err := c.admins.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		_ = c.checkPassword(unknownEmailHash(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := c.checkPassword(admin.PasswordHash, password); err != nil || !admin.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := c.now()
	updated, err := c.admins.Update(ctx, admin.ID, repository.AdminChanges{LastLogin: &now})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Credentials) Get(ctx context.Context, id bson.ObjectID) (*models.Admin, error) {
	admin, err := c.admins.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("admin")
	}
	return admin, err
}

func (c *Credentials) List(ctx context.Context) ([]models.Admin, error) {
	return c.admins.List(ctx)
}

// Update applies a partial update. A new password is re-hashed before storing.
func (c *Credentials) Update(ctx context.Context, id bson.ObjectID, in models.AdminUpdate) (*models.Admin, error) {
	var changes repository.AdminChanges

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		changes.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !validEmail(email) {
			return nil, invalid("email", "please provide a valid email")
		}
		existing, err := c.admins.FindByEmail(ctx, email)
		if err == nil && existing.ID != id {
			return nil, ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		changes.Email = &email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, invalid("role", "must be either admin or super-admin")
		}
		changes.Role = in.Role
	}
	if in.Password != nil {
		if err := validatePassword("password", *in.Password); err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = &hash
	}
	changes.IsActive = in.IsActive

	if changes.Empty() {
		return nil, invalid("", "no updates provided")
	}

	admin, err := c.admins.Update(ctx, id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("admin")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrDuplicateEmail
	}
	return admin, err
}

// ChangePassword replaces the password of id after checking the current one.
func (c *Credentials) ChangePassword(ctx context.Context, id bson.ObjectID, current, next string) error {
	if err := validatePassword("currentPassword", current); err != nil {
		return err
	}
	if err := validatePassword("newPassword", next); err != nil {
		return err
	}
	admin, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.checkPassword(admin.PasswordHash, current); err != nil {
		return invalid("currentPassword", "current password is incorrect")
	}
	_, err = c.Update(ctx, id, models.AdminUpdate{Password: &next})
	return err
}

func (c *Credentials) Delete(ctx context.Context, id bson.ObjectID) error {
	err := c.admins.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("admin")
	}
	return err
}

// ParseID parses a hex object id taken from a request path.
func ParseID(entity, hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, invalid("id", "invalid %s id", entity)
	}
	return id, nil
}
