package report

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
	allSentinel      = "all"
)

// Filter is the normalized date range plus optional store and employee scoping shared by
// every report and by order listing.
type Filter struct {
	Start      time.Time `json:"-"`
	End        time.Time `json:"-"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	SameDay    bool      `json:"sameDay"`
	StoreID    *int64    `json:"store"`
	EmployeeID *int64    `json:"employee"`
}

// ParseFilter reads startDate, endDate, store and employee. Missing or unparsable dates
// fall back to the last 30 days ending at now. A reversed range is swapped only when both
// bounds were given; a lone bound on the wrong side of a default yields an empty range.
func ParseFilter(q url.Values, now time.Time) Filter {
	loc := now.Location()

	end, hasEnd := parseDay(q.Get("endDate"), loc)
	if !hasEnd {
		end = day(now)
	}
	start, hasStart := parseDay(q.Get("startDate"), loc)
	if !hasStart {
		start = day(now.AddDate(0, 0, -defaultRangeDays))
	}
	if hasStart && hasEnd && start.After(end) {
		start, end = end, start
	}

	f := Filter{
		Start:      start,
		End:        time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), loc),
		StartDate:  start.Format(dateLayout),
		EndDate:    end.Format(dateLayout),
		StoreID:    parseScope(q.Get("store")),
		EmployeeID: parseScope(q.Get("employee")),
	}
	f.SameDay = f.StartDate == f.EndDate
	return f
}

// parseDay accepts YYYY-MM-DD or RFC3339 and returns local midnight of that calendar date.
func parseDay(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseScope maps "all", empty and anything that is not a positive integer to no filter.
func parseScope(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, allSentinel) {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// Where renders the predicate over alias.created_at, alias.store_id and alias.user_id.
// Placeholders are "?"; sqlx.Rebind adapts them per driver.
func (f Filter) Where(alias string) (string, []interface{}) {
	return f.WhereOn(alias, "created_at")
}

// WhereOn is Where with a different timestamp column.
func (f Filter) WhereOn(alias, timeColumn string) (string, []interface{}) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	var (
		clauses []string
		args    []interface{}
	)
	if f.SameDay {
		clauses = append(clauses, col(timeColumn)+" >= ? AND "+col(timeColumn)+" < ?")
		args = append(args, f.Start, f.Start.AddDate(0, 0, 1))
	} else {
		clauses = append(clauses, col(timeColumn)+" >= ? AND "+col(timeColumn)+" <= ?")
		args = append(args, f.Start, f.End)
	}
	if f.StoreID != nil {
		clauses = append(clauses, col("store_id")+" = ?")
		args = append(args, *f.StoreID)
	}
	if f.EmployeeID != nil {
		clauses = append(clauses, col("user_id")+" = ?")
		args = append(args, *f.EmployeeID)
	}
	return strings.Join(clauses, " AND "), args
}
