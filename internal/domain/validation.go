package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxClientNameLength  = 255
	MaxDescriptionLength = 2048
)

var (
	phoneRegex  = regexp.MustCompile(`^[0-9]{10}$`)
	panRegex    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadharRegex = regexp.MustCompile(`^[0-9]{12}$`)
)

// ValidateClientName validates a client display name.
func ValidateClientName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return ErrInvalidClientName
	}

	if len(name) > MaxClientNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidClientName, MaxClientNameLength)
	}

	return nil
}

// ValidatePhone validates a 10-digit phone number. Empty is allowed.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	return nil
}

// ValidatePAN validates a PAN in its canonical uppercase form. Empty is
// allowed.
func ValidatePAN(pan string) error {
	if pan == "" {
		return nil
	}

	if !panRegex.MatchString(pan) {
		return fmt.Errorf("%w: %q", ErrInvalidPAN, pan)
	}

	return nil
}

// ValidateAadhar validates a 12-digit Aadhar number. Empty is allowed.
func ValidateAadhar(aadhar string) error {
	if aadhar == "" {
		return nil
	}

	if !aadharRegex.MatchString(aadhar) {
		return fmt.Errorf("%w: %q", ErrInvalidAadhar, aadhar)
	}

	return nil
}

// ValidateAmounts validates work-transaction amounts. Both must be
// non-negative; paid exceeding total is permitted and collapses to a
// "paid" status.
func ValidateAmounts(totalPrice, paidAmount int64) error {
	if totalPrice < 0 {
		return fmt.Errorf("%w: total price %d", ErrInvalidAmount, totalPrice)
	}

	if paidAmount < 0 {
		return fmt.Errorf("%w: paid amount %d", ErrInvalidAmount, paidAmount)
	}

	return nil
}

// NormalizeWorkTypes trims, deduplicates, and drops empty work types while
// preserving first-seen order.
func NormalizeWorkTypes(workTypes []string) []string {
	seen := make(map[string]bool, len(workTypes))

	var out []string

	for _, wt := range workTypes {
		wt = strings.TrimSpace(wt)
		if wt == "" || seen[wt] {
			continue
		}

		seen[wt] = true

		out = append(out, wt)
	}

	return out
}
