package domain

import "time"

// Display-only entities. None of them are referenced by the cart.

// BlogPost blog article
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	ImageURL      string    `json:"imageUrl"`
	Category      string    `json:"category"`
	DatePublished time.Time `json:"datePublished"`
	Content       string    `json:"content"` // markdown
}

// ServicePackage one package offered under a service highlight
type ServicePackage struct {
	Name     string   `json:"name" mapstructure:"name"`
	Features []string `json:"features" mapstructure:"features"`
}

// ServiceHighlight consultation page tile
type ServiceHighlight struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	DetailedDescription string           `json:"detailedDescription"`
	IconURL             string           `json:"iconUrl"`
	Packages            []ServicePackage `json:"packages"`
	BackgroundColor     string           `json:"backgroundColor"` // hex
	DisplayOrder        int              `json:"displayOrder"`
}

// Testimonial customer quote
type Testimonial struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Testimonial string `json:"testimonial"`
	ImageURL    string `json:"imageUrl"`
}
