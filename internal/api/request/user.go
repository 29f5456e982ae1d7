package request

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/fixdesk/fixdesk/internal/domain"
)

var phonePattern = regexp.MustCompile(`^(0|\+84)[0-9]{9}$`)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

// Validate returns messages keyed by the JSON field they belong to.
func (r *CreateUserRequest) Validate() map[string]string {
	errs := fieldErrors{}

	if strings.TrimSpace(r.Username) == "" {
		errs.add("username", "username is required")
	}
	if strings.TrimSpace(r.FullName) == "" {
		errs.add("full_name", "full name is required")
	}
	if r.Role == "" {
		errs.add("role", "role is required")
	} else if !r.Role.IsValid() {
		errs.add("role", "unknown role")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			errs.add("email", "email is not valid")
		}
	}
	if r.Phone != "" && !phonePattern.MatchString(r.Phone) {
		errs.add("phone", "phone must be 10 digits starting with 0 or +84 followed by 9 digits")
	}
	if msg := checkPassword(r.Password); msg != "" {
		errs.add("password", msg)
	}

	return errs
}

func checkPassword(p string) string {
	if len(p) < MinPasswordLength {
		return "password must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, c := range p {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "password must contain an uppercase letter, a lowercase letter and a digit"
	}
	return ""
}

// ParseRole extracts the role filter from query parameters.
func ParseRole(role string) *domain.Role {
	if role == "" {
		return nil
	}
	r := domain.Role(role)
	if !r.IsValid() {
		return nil
	}
	return &r
}
