package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsSlotConstraintViolation recognizes the database backstop firing: the
// unique/exclusion constraint that forbids overlapping non-cancelled
// bookings. The pre-write check is advisory; this is the guarantee.
func IsSlotConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" && pgErr.Code != "23P01" {
			return false
		}
		return strings.Contains(pgErr.ConstraintName, "no_slot_overlap") ||
			strings.Contains(pgErr.ConstraintName, "no_stay_overlap")
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
