// Package filter turns optional, string-valued query parameters into a
// structured predicate over stored articles. The predicate is an ordered
// list of typed clauses so the store layer decides how each clause is
// executed; nothing here knows about SQL.
package filter

import (
	"fmt"
	"strings"
	"time"
)

// Field names a clause can constrain. The store maps these to columns.
const (
	FieldCreator     = "creator"
	FieldLanguage    = "language"
	FieldCountry     = "country"
	FieldCategory    = "category"
	FieldContentType = "content_type"
)

// Params holds the raw query parameters as received. Empty string means
// the parameter was absent and imposes no constraint.
type Params struct {
	StartDate   string
	EndDate     string
	Author      string
	Language    string
	Country     string
	Category    string
	ContentType string
}

type Clause interface{ clause() }

// DateRange constrains pub_date to [From, To], both ends inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Equals constrains a scalar field to an exact value.
type Equals struct {
	Field string
	Value string
}

// Contains requires a list field to contain the value.
type Contains struct {
	Field string
	Value string
}

// ContainsAll requires a list field to contain every listed value.
type ContainsAll struct {
	Field  string
	Values []string
}

func (DateRange) clause()   {}
func (Equals) clause()      {}
func (Contains) clause()    {}
func (ContainsAll) clause() {}

// Predicate is the conjunction of its clauses. An empty predicate
// matches every record.
type Predicate struct {
	Clauses []Clause
}

// ValidationError reports a malformed parameter value.
type ValidationError struct {
	Param string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Build maps params to a predicate. The date range only activates when
// both ends are present; all other params act independently. The only
// failure mode is an unparseable date.
func Build(p Params) (Predicate, error) {
	var pred Predicate

	if p.StartDate != "" && p.EndDate != "" {
		from, err := parseDate(p.StartDate)
		if err != nil {
			return Predicate{}, &ValidationError{Param: "startDate", Value: p.StartDate, Err: err}
		}
		to, err := parseDate(p.EndDate)
		if err != nil {
			return Predicate{}, &ValidationError{Param: "endDate", Value: p.EndDate, Err: err}
		}
		pred.Clauses = append(pred.Clauses, DateRange{From: from, To: to})
	}

	if p.Author != "" {
		pred.Clauses = append(pred.Clauses, Contains{Field: FieldCreator, Value: p.Author})
	}

	if p.Language != "" {
		pred.Clauses = append(pred.Clauses, Equals{Field: FieldLanguage, Value: p.Language})
	}

	if p.Country != "" {
		pred.Clauses = append(pred.Clauses, Contains{Field: FieldCountry, Value: p.Country})
	}

	if p.Category != "" {
		if values := splitList(p.Category); len(values) > 0 {
			pred.Clauses = append(pred.Clauses, ContainsAll{Field: FieldCategory, Values: values})
		}
	}

	if p.ContentType != "" {
		pred.Clauses = append(pred.Clauses, Equals{Field: FieldContentType, Value: p.ContentType})
	}

	return pred, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("want %s or RFC3339", dateLayouts[1])
}

func splitList(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
