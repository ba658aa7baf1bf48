package domain

// TherapyService represents a bookable therapy. Same shape as Product plus a duration.
type TherapyService struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	DurationMins  string      `json:"durationMins"` // "N/A" when unknown
	ImageURL      string      `json:"imageUrl"`
	Price         string      `json:"price"`
	Variations    []Variation `json:"variations"`
	StartingPrice string      `json:"startingPrice"`
}

func (t TherapyService) EntityID() string     { return t.ID }
func (t TherapyService) DisplayName() string  { return t.Name }
func (t TherapyService) Image() string        { return t.ImageURL }
func (t TherapyService) Options() []Variation { return t.Variations }
func (t TherapyService) BasePrice() string    { return t.Price }
