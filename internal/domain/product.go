package domain

// Variation is one purchasable option of a product or therapy, e.g. a pack
// size or a session length. Price is kept as the remote store sends it.
type Variation struct {
	Name  string `json:"name" mapstructure:"name"`
	Price string `json:"price" mapstructure:"price"`
}

// Purchasable is anything the cart can hold a line for
type Purchasable interface {
	EntityID() string
	DisplayName() string
	Image() string
	Options() []Variation
	BasePrice() string
}

// Product represents an ayurveda product from the catalog
type Product struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	ImageURL      string      `json:"imageUrl"`
	Price         string      `json:"price"` // 2-decimal string
	Variations    []Variation `json:"variations"`
	StartingPrice string      `json:"startingPrice"` // lowest variation price, or Price
}

func (p Product) EntityID() string     { return p.ID }
func (p Product) DisplayName() string  { return p.Name }
func (p Product) Image() string        { return p.ImageURL }
func (p Product) Options() []Variation { return p.Variations }
func (p Product) BasePrice() string    { return p.Price }

// DefaultVariationName names the synthetic option of an entity without variations
const DefaultVariationName = "Standard"

// DefaultVariation returns the option preselected on a detail page: the first
// variation, or a synthetic one carrying the entity's own price.
func DefaultVariation(p Purchasable) Variation {
	if opts := p.Options(); len(opts) > 0 {
		return opts[0]
	}
	return Variation{Name: DefaultVariationName, Price: p.BasePrice()}
}

// FindVariation looks a variation up by name. An empty name yields the default variation.
func FindVariation(p Purchasable, name string) (Variation, bool) {
	if name == "" {
		return DefaultVariation(p), true
	}
	for _, v := range p.Options() {
		if v.Name == name {
			return v, true
		}
	}
	if len(p.Options()) == 0 && name == DefaultVariationName {
		return DefaultVariation(p), true
	}
	return Variation{}, false
}
