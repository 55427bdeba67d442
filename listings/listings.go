// Package listings implements the listing service on top of the relational
// store: creating listings from form input, reading them back and searching.
package listings

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vacationrental/auth"
	"vacationrental/models"
)

// Repository is the part of the relational store the service needs.
type Repository interface {
	InsertProperty(ctx context.Context, p models.Property) (int64, error)
	GetAllProperties(ctx context.Context) ([]models.Property, error)
	GetPropertyByID(ctx context.Context, id int64) (models.Property, error)
}

// ValidationError reports a form field that could not be coerced to its
// numeric type.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// Form holds the raw add-listing form input.
type Form struct {
	Title        string
	Description  string
	Location     string
	Price        string
	PropertyType string
	Accommodates string
	Bedrooms     string
	Bathrooms    string
	Amenities    string
}

func FormFromValues(v url.Values) Form {
	return Form{
		Title:        v.Get("title"),
		Description:  v.Get("description"),
		Location:     v.Get("location"),
		Price:        v.Get("price"),
		PropertyType: v.Get("property_type"),
		Accommodates: v.Get("accommodates"),
		Bedrooms:     v.Get("bedrooms"),
		Bathrooms:    v.Get("bathrooms"),
		Amenities:    v.Get("amenities"),
	}
}

// Property coerces the numeric fields. The first field that fails yields a
// *ValidationError; NaN and infinities count as failures. Text fields are
// taken as they are.
func (f Form) Property() (models.Property, error) {
	p := models.Property{
		Title:        f.Title,
		Description:  f.Description,
		Location:     f.Location,
		PropertyType: f.PropertyType,
		Amenities:    f.Amenities,
	}

	var err error
	if p.Price, err = parseFloat("price", f.Price); err != nil {
		return models.Property{}, err
	}
	if p.Accommodates, err = parseInt("accommodates", f.Accommodates); err != nil {
		return models.Property{}, err
	}
	if p.Bedrooms, err = parseInt("bedrooms", f.Bedrooms); err != nil {
		return models.Property{}, err
	}
	if p.Bathrooms, err = parseFloat("bathrooms", f.Bathrooms); err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return v, nil
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return v, nil
}

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateListing inserts the listing described by form on behalf of sess and
// returns its id. Anonymous sessions get auth.ErrUnauthenticated; nothing is
// written when coercion fails.
func (s *Service) CreateListing(ctx context.Context, sess auth.Session, form Form) (int64, error) {
	if !sess.Authenticated() {
		return 0, auth.ErrUnauthenticated
	}

	p, err := form.Property()
	if err != nil {
		return 0, err
	}

	id, err := s.repo.InsertProperty(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("listing created", zap.Int64("property_id", id), zap.String("username", sess.Username))
	return id, nil
}

func (s *Service) ListListings(ctx context.Context) ([]models.Property, error) {
	return s.repo.GetAllProperties(ctx)
}

// GetListing returns db.ErrNotFound for an unknown id.
func (s *Service) GetListing(ctx context.Context, id int64) (models.Property, error) {
	return s.repo.GetPropertyByID(ctx, id)
}
