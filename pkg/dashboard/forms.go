package dashboard

import (
	"errors"
	"maps"
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

var phonePattern = regexp.MustCompile(`^(0|\+84)[0-9]{9}$`)

// FieldErrors returns the server's per-field messages for a failed submit,
// keyed by JSON field name exactly as the server sent them. Errors that are
// not validation failures are reported under the empty key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	if fields := fixdesk.FieldErrors(err); len(fields) > 0 {
		return maps.Clone(fields)
	}
	var apiErr *fixdesk.Error
	if errors.As(err, &apiErr) {
		return map[string]string{"": apiErr.Message}
	}
	return map[string]string{"": err.Error()}
}

// ValidateNewUser checks a create-user form before it is submitted.
func ValidateNewUser(u fixdesk.NewUser) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(u.Username) == "" {
		errs["username"] = "username is required"
	}
	if strings.TrimSpace(u.FullName) == "" {
		errs["full_name"] = "full name is required"
	}
	switch u.Role {
	case fixdesk.RoleAdmin, fixdesk.RoleManager, fixdesk.RoleTechnician, fixdesk.RoleStaff:
	case "":
		errs["role"] = "role is required"
	default:
		errs["role"] = "unknown role"
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			errs["email"] = "email is not valid"
		}
	}
	if u.Phone != "" && !phonePattern.MatchString(u.Phone) {
		errs["phone"] = "phone must be 10 digits starting with 0 or +84 followed by 9 digits"
	}
	if msg := checkPassword(u.Password); msg != "" {
		errs["password"] = msg
	}
	return errs
}

func checkPassword(p string) string {
	if len(p) < 8 {
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

// SparePartForm fills an update form with every editable value of p.
// Submitting it unchanged leaves the part as it was.
func SparePartForm(p *fixdesk.SparePart) fixdesk.SparePartInput {
	c := *p
	in := fixdesk.SparePartInput{
		Name:         &c.Name,
		Category:     &c.Category,
		MachineType:  &c.MachineType,
		Quantity:     &c.Quantity,
		MinThreshold: &c.MinThreshold,
		Unit:         &c.Unit,
		Supplier:     &c.Supplier,
		Price:        &c.Price,
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		in.ImageURL = &url
	}
	return in
}

// ValidateSparePart checks a spare part form. creating requires a name.
func ValidateSparePart(in fixdesk.SparePartInput, creating bool) map[string]string {
	errs := map[string]string{}
	switch {
	case in.Name == nil && creating:
		errs["name"] = "name is required"
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		errs["name"] = "name cannot be empty"
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		errs["quantity"] = "quantity cannot be negative"
	}
	if in.MinThreshold != nil && *in.MinThreshold < 0 {
		errs["min_threshold"] = "min_threshold cannot be negative"
	}
	if in.Price != nil && *in.Price < 0 {
		errs["price"] = "price cannot be negative"
	}
	return errs
}
