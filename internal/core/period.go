package core

import (
	"errors"
	"fmt"
	"time"
)

// PeriodMode is the filter kind chosen in the dashboard header.
type PeriodMode string

const (
	PeriodMonth  PeriodMode = "mes"
	PeriodYear   PeriodMode = "ano"
	PeriodCustom PeriodMode = "personalizado"
)

var ErrInvalidPeriod = errors.New("invalid period")

// PeriodFilter is the user selection. Year and Month apply to the month and
// year modes; Start and End (both inclusive) to the custom one.
type PeriodFilter struct {
	Mode  PeriodMode
	Year  int
	Month int
	Start string
	End   string
}

// Period is a half-open [Start, End) range of YYYY-MM-DD dates.
type Period struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// Resolve turns the filter into concrete bounds. An empty mode means the
// current month of now.
func (f PeriodFilter) Resolve(now time.Time) (Period, error) {
	switch f.Mode {
	case "":
		return MonthPeriod(now.Year(), int(now.Month())), nil
	case PeriodMonth:
		year, month := f.Year, f.Month
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
		}
		if year < 1 {
			return Period{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
		}
		return MonthPeriod(year, month), nil
	case PeriodYear:
		year := f.Year
		if year == 0 {
			year = now.Year()
		}
		if year < 1 {
			return Period{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
		}
		return Period{
			Start: NewDate(year, 1, 1).String(),
			End:   NewDate(year+1, 1, 1).String(),
		}, nil
	case PeriodCustom:
		start, err := ParseDate(f.Start)
		if err != nil {
			return Period{}, fmt.Errorf("%w: start %q", ErrInvalidPeriod, f.Start)
		}
		end, err := ParseDate(f.End)
		if err != nil {
			return Period{}, fmt.Errorf("%w: end %q", ErrInvalidPeriod, f.End)
		}
		if end.Before(start.Time) {
			return Period{}, fmt.Errorf("%w: end before start", ErrInvalidPeriod)
		}
		return Period{
			Start: start.String(),
			End:   end.AddDate(0, 0, 1).Format(DateLayout),
		}, nil
	}
	return Period{}, fmt.Errorf("%w: mode %q", ErrInvalidPeriod, f.Mode)
}

// MonthPeriod covers one calendar month. December ends on January 1st of the
// following year.
func MonthPeriod(year, month int) Period {
	endYear, endMonth := year, month+1
	if endMonth > 12 {
		endYear, endMonth = year+1, 1
	}
	return Period{
		Start: fmt.Sprintf("%04d-%02d-01", year, month),
		End:   fmt.Sprintf("%04d-%02d-01", endYear, endMonth),
	}
}

// Contains reports whether d falls in [Start, End).
func (p Period) Contains(d Date) bool {
	s := d.String()
	return s >= p.Start && s < p.End
}
