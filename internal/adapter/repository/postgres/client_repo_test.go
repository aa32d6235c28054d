package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/khatahq/khata/internal/domain"
)

func TestMapClientConstraintErr(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"clients_phone_uniq", domain.ErrDuplicatePhone},
		{"clients_pan_uniq", domain.ErrDuplicatePAN},
		{"clients_aadhar_uniq", domain.ErrDuplicateAadhar},
	}

	for _, tt := range tests {
		err := mapClientConstraintErr(&pgconn.PgError{
			Code:           pgErrUniqueViolation,
			ConstraintName: tt.constraint,
		})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.constraint, tt.want, err)
		}
	}

	other := &pgconn.PgError{Code: "23503"}
	if mapClientConstraintErr(other) != other {
		t.Error("non-unique violations must pass through untouched")
	}

	if mapClientConstraintErr(nil) != nil {
		t.Error("nil must pass through untouched")
	}
}

func TestEmptyIfNil(t *testing.T) {
	if got := emptyIfNil(nil); got == nil || len(got) != 0 {
		t.Errorf("nil slice must map to an empty array, got %#v", got)
	}

	wt := []string{"audit"}
	if got := emptyIfNil(wt); len(got) != 1 || got[0] != "audit" {
		t.Errorf("non-nil slice must pass through, got %#v", got)
	}
}

func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("empty string must map to NULL")
	}

	if nullIfEmpty("x") != "x" {
		t.Error("non-empty string must pass through")
	}
}
