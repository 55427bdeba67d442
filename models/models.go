package models

type Property struct {
	ID           int64   `json:"id" db:"id"`
	Title        string  `json:"title" db:"title"`
	Description  string  `json:"description" db:"description"`
	Location     string  `json:"location" db:"location"`
	Price        float64 `json:"price" db:"price"`
	PropertyType string  `json:"property_type" db:"property_type"`
	Accommodates int     `json:"accommodates" db:"accommodates"`
	Bedrooms     int     `json:"bedrooms" db:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms" db:"bathrooms"`
	Amenities    string  `json:"amenities" db:"amenities"`
}

// Client is a registered credential record. Password is kept in clear text.
type Client struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}
