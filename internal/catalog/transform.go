package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/avignatattva/storefront/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Defaults applied when a remote field is missing or empty
const (
	DefaultProductName      = "Unnamed Product"
	DefaultServiceName      = "Unnamed Service"
	DefaultDescription      = "No description available."
	DefaultDuration         = "N/A"
	DefaultPostTitle        = "Untitled Post"
	DefaultCategory         = "Uncategorized"
	DefaultPostContent      = "No content available."
	DefaultHighlightTitle   = "No Title"
	DefaultBackgroundColor  = "#FFFFFF"
	DefaultDisplayOrder     = 99
	DefaultTestimonialName  = "Anonymous"
	DefaultTestimonialPlace = "Unknown"
)

// Normalizer converts raw rows into entities. Every method is total: a
// malformed field degrades to its default and never fails the row.
type Normalizer struct {
	ImageBase   string
	Placeholder string
	Now         func() time.Time
}

func (n Normalizer) image(raw interface{}) string {
	return ResolveImage(raw, n.ImageBase, n.Placeholder)
}

func (n Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// Product maps an Ayurveda Products row
func (n Normalizer) Product(row Row) domain.Product {
	variations := decodeVariations(row["variations"])
	return domain.Product{
		ID:            idOf(row),
		Name:          stringOr(row, "Name", DefaultProductName),
		Description:   stringOr(row, "Description", DefaultDescription),
		ImageURL:      n.image(row["imageUrl"]),
		Price:         FormatPrice(row["Price"]),
		Variations:    variations,
		StartingPrice: StartingPrice(variations, row["Price"]),
	}
}

// Therapy maps a Therapy Services row
func (n Normalizer) Therapy(row Row) domain.TherapyService {
	variations := decodeVariations(row["variations"])
	return domain.TherapyService{
		ID:            idOf(row),
		Name:          stringOr(row, "Name", DefaultServiceName),
		Description:   stringOr(row, "Description", DefaultDescription),
		DurationMins:  stringOr(row, "Duration_mins", DefaultDuration),
		ImageURL:      n.image(row["imageUrl"]),
		Price:         FormatPrice(row["Price"]),
		Variations:    variations,
		StartingPrice: StartingPrice(variations, row["Price"]),
	}
}

// BlogPost maps a Blog Posts row. A missing or unreadable publish date becomes now.
func (n Normalizer) BlogPost(row Row) domain.BlogPost {
	return domain.BlogPost{
		ID:            idOf(row),
		Title:         stringOr(row, "title", DefaultPostTitle),
		Excerpt:       stringOr(row, "excerpt", ""),
		ImageURL:      n.image(row["imageUrl"]),
		Category:      stringOr(row, "category", DefaultCategory),
		DatePublished: n.publishDate(row["DatePublished"]),
		Content:       stringOr(row, "content", DefaultPostContent),
	}
}

// displayOrder strings are always decimal, so "08" is 8
func displayOrder(v interface{}) int {
	switch x := v.(type) {
	case nil:
		return DefaultDisplayOrder
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return i
		}
		return DefaultDisplayOrder
	}
	if i, err := cast.ToIntE(v); err == nil {
		return i
	}
	return DefaultDisplayOrder
}

// ServiceHighlight maps a ServiceHighlights row
func (n Normalizer) ServiceHighlight(row Row) domain.ServiceHighlight {
	description := stringOr(row, "Description", "")
	order := displayOrder(row["DisplayOrder"])
	return domain.ServiceHighlight{
		ID:                  idOf(row),
		Title:               stringOr(row, "Title", DefaultHighlightTitle),
		Description:         description,
		DetailedDescription: stringOr(row, "DetailedDescription", description),
		IconURL:             n.image(row["Icon"]),
		Packages:            decodePackages(row["Packages"]),
		BackgroundColor:     stringOr(row, "BackgroundColor", DefaultBackgroundColor),
		DisplayOrder:        order,
	}
}

// Testimonial maps a Testimonials row
func (n Normalizer) Testimonial(row Row) domain.Testimonial {
	return domain.Testimonial{
		ID:          idOf(row),
		Name:        stringOr(row, "Name", DefaultTestimonialName),
		Location:    stringOr(row, "Location", DefaultTestimonialPlace),
		Testimonial: stringOr(row, "Testimonial", ""),
		ImageURL:    n.image(row["ImageUrl"]),
	}
}

func (n Normalizer) publishDate(raw interface{}) time.Time {
	switch v := raw.(type) {
	case nil:
		return n.now()
	case string:
		if strings.TrimSpace(v) == "" {
			return n.now()
		}
		t, err := dateparse.ParseIn(strings.TrimSpace(v), time.UTC)
		if err != nil {
			zap.L().Debug("unreadable publish date", zap.String("value", v), zap.Error(err))
			return n.now()
		}
		return t
	default:
		// numeric dates are epoch milliseconds
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return n.now()
		}
		return time.UnixMilli(ms).UTC()
	}
}

// idOf normalises the Id column, numeric or string, to a string
func idOf(row Row) string {
	return cast.ToString(row["Id"])
}

// stringOr returns the field as a string, or def when it is missing or empty
func stringOr(row Row, key, def string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return def
	}
	return s
}

// parsePrice reads a price given as a number or a numeric string
func parsePrice(raw interface{}) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(f), true
	}
}

// FormatPrice renders a raw price with two decimals, "0.00" when unreadable
func FormatPrice(raw interface{}) string {
	d, _ := parsePrice(raw)
	return d.StringFixed(2)
}

// StartingPrice is the lowest readable variation price, with two decimals.
// Unreadable variation prices are skipped. Without variations, or when none of
// them is readable, the entity's own price is used.
func StartingPrice(variations []domain.Variation, price interface{}) string {
	var lowest decimal.Decimal
	found := false
	for _, v := range variations {
		d, ok := parsePrice(v.Price)
		if !ok {
			continue
		}
		if !found || d.LessThan(lowest) {
			lowest = d
			found = true
		}
	}
	if !found {
		return FormatPrice(price)
	}
	return lowest.StringFixed(2)
}

// decodeJSONField accepts a native value or a JSON document held in a string
func decodeJSONField(raw interface{}) (interface{}, bool) {
	s, ok := raw.(string)
	if !ok {
		return raw, raw != nil
	}
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	var v interface{}
	if err := json.UnmarshalFromString(s, &v); err != nil {
		zap.L().Debug("malformed json field", zap.String("value", s), zap.Error(err))
		return nil, false
	}
	return v, v != nil
}

// decodeList weakly decodes each element of a list into T, skipping elements that do not fit
func decodeList[T any](raw interface{}) []T {
	out := []T{}
	v, ok := decodeJSONField(raw)
	if !ok {
		return out
	}
	elems, ok := v.([]interface{})
	if !ok {
		elems = []interface{}{v}
	}
	for _, e := range elems {
		var item T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &item,
		})
		if err != nil {
			continue
		}
		if _, isMap := e.(map[string]interface{}); !isMap {
			continue
		}
		if err := dec.Decode(e); err != nil {
			zap.L().Debug("skipping malformed element", zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

func decodeVariations(raw interface{}) []domain.Variation {
	return decodeList[domain.Variation](raw)
}

func decodePackages(raw interface{}) []domain.ServicePackage {
	return decodeList[domain.ServicePackage](raw)
}
