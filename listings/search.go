package listings

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"vacationrental/models"
)

// Query narrows a search. Zero values do not filter. CheckIn and CheckOut are
// carried back to the form only; there is no availability data to match.
type Query struct {
	Location string
	Guests   int
	CheckIn  string
	CheckOut string
}

func QueryFromValues(v url.Values) (Query, error) {
	q := Query{
		Location: strings.TrimSpace(v.Get("location")),
		CheckIn:  v.Get("checkin"),
		CheckOut: v.Get("checkout"),
	}
	if raw := strings.TrimSpace(v.Get("guests")); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests < 0 {
			return Query{}, &ValidationError{Field: "guests", Value: raw}
		}
		q.Guests = guests
	}
	return q, nil
}

func (q Query) matches(p models.Property) bool {
	if q.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(q.Location)) {
		return false
	}
	return p.Accommodates >= q.Guests
}

// Search returns the listings whose location contains q.Location (case
// insensitive) and that accommodate at least q.Guests people.
func (s *Service) Search(ctx context.Context, q Query) ([]models.Property, error) {
	all, err := s.repo.GetAllProperties(ctx)
	if err != nil {
		return nil, err
	}

	results := []models.Property{}
	for _, p := range all {
		if q.matches(p) {
			results = append(results, p)
		}
	}
	return results, nil
}
