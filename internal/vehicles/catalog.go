package vehicles

import "strings"

// Vehicle describes one model in the dealership's showroom.
type Vehicle struct {
	Model       string
	Year        int
	PriceRange  string
	Description string
	Features    []string
}

// Catalog is the static read-only model lookup used by the extractor and the
// responder. Listing management is out of scope; the set is fixed at startup.
type Catalog struct {
	vehicles []Vehicle
	byModel  map[string]Vehicle
}

// Default returns the showroom catalog.
func Default() *Catalog {
	return New([]Vehicle{
		{
			Model:       "Corolla",
			Year:        2024,
			PriceRange:  "$23,000-$28,000",
			Description: "Compact sedan, reliable and efficient",
			Features:    []string{"2.0L engine", "CVT", "Safety Sense 2.0"},
		},
		{
			Model:       "Camry",
			Year:        2024,
			PriceRange:  "$26,000-$35,000",
			Description: "Mid-size sedan, premium and spacious",
			Features:    []string{"2.5L engine", "8-speed automatic", "Touchscreen display"},
		},
		{
			Model:       "RAV4",
			Year:        2024,
			PriceRange:  "$29,000-$38,000",
			Description: "Compact SUV, versatile and adventure-ready",
			Features:    []string{"Available AWD", "Large cargo space", "Off-road capability"},
		},
		{
			Model:       "Highlander",
			Year:        2024,
			PriceRange:  "$36,000-$48,000",
			Description: "Family SUV with three rows",
			Features:    []string{"Seats up to 8", "Hybrid option", "Panoramic roof"},
		},
		{
			Model:       "Prius",
			Year:        2024,
			PriceRange:  "$28,000-$33,000",
			Description: "Hybrid, eco-friendly and innovative",
			Features:    []string{"Hybrid drivetrain", "Excellent fuel economy", "Advanced tech"},
		},
		{
			Model:       "Tacoma",
			Year:        2024,
			PriceRange:  "$32,000-$45,000",
			Description: "Pickup built for work and adventure",
			Features:    []string{"Towing package", "Crawl control", "Bed rail system"},
		},
	})
}

// New builds a catalog from an explicit model list.
func New(vehicles []Vehicle) *Catalog {
	byModel := make(map[string]Vehicle, len(vehicles))
	for _, v := range vehicles {
		byModel[strings.ToLower(v.Model)] = v
	}
	return &Catalog{vehicles: vehicles, byModel: byModel}
}

// Models returns the model names in catalog order.
func (c *Catalog) Models() []string {
	models := make([]string, 0, len(c.vehicles))
	for _, v := range c.vehicles {
		models = append(models, v.Model)
	}
	return models
}

// Lookup finds a vehicle by model name, case-insensitively.
func (c *Catalog) Lookup(model string) (Vehicle, bool) {
	v, ok := c.byModel[strings.ToLower(strings.TrimSpace(model))]
	return v, ok
}

// ModelList renders the catalog as a comma-separated string for prompts and
// fallback replies.
func (c *Catalog) ModelList() string {
	return strings.Join(c.Models(), ", ")
}
