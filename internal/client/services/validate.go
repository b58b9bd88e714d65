package services

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
)

const (
	MinPasswordLen = 6
	MaxAvatarSize  = 5 << 20
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateProfile checks the fields shared by the create and edit forms.
func validateProfile(first, last, email string) error {
	if strings.TrimSpace(first) == "" {
		return common.Invalid("first_name", "first name is required")
	}
	if strings.TrimSpace(last) == "" {
		return common.Invalid("last_name", "last name is required")
	}
	if strings.TrimSpace(email) == "" {
		return common.Invalid("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return common.Invalid("email", "email is not valid")
	}
	return nil
}

// ValidateCreate reports the first rule in that fails, in form order.
func ValidateCreate(in CreateUserInput) error {
	if err := validateProfile(in.FirstName, in.LastName, in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return common.Invalid("password", "password is required")
	}
	if len([]rune(in.Password)) < MinPasswordLen {
		return common.Invalid("password", "password must be at least 6 characters")
	}
	if in.ConfirmPassword != in.Password {
		return common.Invalid("confirm_password", "passwords do not match")
	}
	return ValidateAvatar(in.Avatar)
}

// ValidateAvatar accepts a nil attachment or a non-empty image of at most
// MaxAvatarSize bytes.
func ValidateAvatar(a *models.Attachment) error {
	if a == nil {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(a.ContentType), "image/") {
		return common.Invalid("avatar", "avatar must be an image")
	}
	if a.Size() == 0 {
		return common.Invalid("avatar", "avatar file is empty")
	}
	if a.Size() > MaxAvatarSize {
		return common.Invalid("avatar", "avatar must be at most 5 MiB")
	}
	return nil
}
