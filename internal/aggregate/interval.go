package aggregate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Unit is the time unit of an Interval.
type Unit string

const (
	UnitSecond Unit = "s"
	UnitMinute Unit = "m"
	UnitHour   Unit = "h"
	UnitDay    Unit = "d"
)

var unitAliases = map[string]Unit{
	"s": UnitSecond, "sec": UnitSecond, "secs": UnitSecond, "second": UnitSecond, "seconds": UnitSecond,
	"m": UnitMinute, "min": UnitMinute, "mins": UnitMinute, "minute": UnitMinute, "minutes": UnitMinute,
	"h": UnitHour, "hr": UnitHour, "hour": UnitHour, "hours": UnitHour,
	"d": UnitDay, "day": UnitDay, "days": UnitDay,
}

func (u Unit) seconds() int64 {
	switch u {
	case UnitSecond:
		return 1
	case UnitMinute:
		return 60
	case UnitHour:
		return 3600
	case UnitDay:
		return 86400
	default:
		return 0
	}
}

// Interval is a bucket width expressed as a count of a unit, e.g. 5 minutes.
//
// Buckets are aligned to the Unix epoch in UTC: a bucket starts at every multiple
// of the interval counted from 1970-01-01T00:00:00Z. Daily buckets therefore start
// at UTC midnight and hourly buckets on the hour, independent of the first tick.
type Interval struct {
	Count int
	Unit  Unit
}

// ParseInterval parses strings such as "30s", "5min", "1h", "1 day" or "2d".
func ParseInterval(value string) (Interval, error) {
	trimmed := strings.TrimSpace(strings.ToLower(value))

	digits := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits == -1 {
		return Interval{}, errors.Newf(errors.ErrCodeInvalidInterval, "interval %q has no unit", value)
	}

	count := 1

	if digits > 0 {
		parsed, err := strconv.Atoi(trimmed[:digits])
		if err != nil {
			return Interval{}, errors.Wrapf(errors.ErrCodeInvalidInterval, err, "invalid interval count in %q", value)
		}

		count = parsed
	}

	unit, ok := unitAliases[strings.TrimSpace(trimmed[digits:])]
	if !ok {
		return Interval{}, errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval unit in %q", value)
	}

	interval := Interval{Count: count, Unit: unit}
	if err := interval.Validate(); err != nil {
		return Interval{}, err
	}

	return interval, nil
}

// MustParseInterval is ParseInterval that panics on error. For constants and tests.
func MustParseInterval(value string) Interval {
	interval, err := ParseInterval(value)
	if err != nil {
		panic(err)
	}

	return interval
}

// Validate checks the count is positive and the unit is known.
func (i Interval) Validate() error {
	if i.Count <= 0 {
		return errors.Newf(errors.ErrCodeInvalidInterval, "interval count must be positive, got %d", i.Count)
	}

	if i.Unit.seconds() == 0 {
		return errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval unit %q", i.Unit)
	}

	return nil
}

// Seconds returns the width of the interval in seconds.
func (i Interval) Seconds() int64 {
	return int64(i.Count) * i.Unit.seconds()
}

// Duration returns the width of the interval.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Seconds()) * time.Second
}

func (i Interval) String() string {
	return fmt.Sprintf("%d%s", i.Count, i.Unit)
}

// BucketStart returns the start of the bucket containing t.
func (i Interval) BucketStart(t time.Time) time.Time {
	width := i.Seconds()
	sec := t.Unix()

	bucket := sec / width
	if sec%width < 0 {
		bucket--
	}

	return time.Unix(bucket*width, 0).UTC()
}

// MarshalText lets an Interval be used directly in YAML and JSON configs.
func (i Interval) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Interval) UnmarshalText(text []byte) error {
	parsed, err := ParseInterval(string(text))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}
