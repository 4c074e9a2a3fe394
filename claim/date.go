// Package claim converts extracted document values into hashed,
// privacy-preserving fingerprints and exposes the pure predicates the
// proof circuits mirror. Raw names, addresses and birth dates never
// leave the constructors; only hashes and day counts are retained.
package claim

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate marks unparseable dates and dates that would produce
// a negative age or day number.
var ErrInvalidDate = errors.New("invalid date")

// DaysPerYear is the integer year used by every age threshold. The
// verified documents were issued under this exact arithmetic, so it is
// kept as contract rather than corrected for leap years.
const DaysPerYear = 365

const daysPerMonth = 30

// AdultAgeDays is the majority threshold in days.
const AdultAgeDays = 18 * DaysPerYear

var dateLayouts = []string{"02/01/2006", "2006-01-02"}

// dayEpoch anchors DayNumber well before any date a scanned document
// can carry, keeping day numbers positive for the circuits.
var dayEpoch = time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseDate accepts the two formats extraction produces, DD/MM/YYYY
// and YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// AgeInDays computes the age between birth and reference, counting
// years as 365 days and months as 30 and ignoring the day of month.
// The approximation is part of the verified contract: the circuits
// compare exactly this value.
func AgeInDays(birth, reference time.Time) (int64, error) {
	days := int64(reference.Year()-birth.Year())*DaysPerYear +
		int64(int(reference.Month())-int(birth.Month()))*daysPerMonth
	if days < 0 {
		return 0, fmt.Errorf("%w: birth date %s after reference %s",
			ErrInvalidDate, birth.Format("02/01/2006"), reference.Format("02/01/2006"))
	}
	return days, nil
}

// DayNumber counts whole days since 1800-01-01, the monotone encoding
// the date circuits compare in.
func DayNumber(t time.Time) (int64, error) {
	d := (t.Unix() - dayEpoch.Unix()) / 86400
	if d < 0 {
		return 0, fmt.Errorf("%w: %s precedes the supported range", ErrInvalidDate, t.Format("2006-01-02"))
	}
	return d, nil
}

// daysBetween is the true day difference, used for validity windows
// where the source kept calendar arithmetic.
func daysBetween(from, to time.Time) int64 {
	return (to.Unix() - from.Unix()) / 86400
}
