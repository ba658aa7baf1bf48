package catalog

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/avignatattva/storefront/internal/domain"
	"go.uber.org/zap"
)

// GetProducts lists products, filtered by q on name and description when q is not blank
func (g *Gateway) GetProducts(ctx context.Context, q string) ([]domain.Product, error) {
	rows, err := g.FetchRows(ctx, domain.TableProducts, searchParams(q, "Name", "Description"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.norm.Product(row))
	}
	return out, nil
}

// GetTherapies lists therapy services, filtered by q on name and description
func (g *Gateway) GetTherapies(ctx context.Context, q string) ([]domain.TherapyService, error) {
	rows, err := g.FetchRows(ctx, domain.TableTherapies, searchParams(q, "Name", "Description"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.TherapyService, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.norm.Therapy(row))
	}
	return out, nil
}

// GetBlogPosts lists posts newest first, filtered by q on title and content
func (g *Gateway) GetBlogPosts(ctx context.Context, q string) ([]domain.BlogPost, error) {
	rows, err := g.FetchRows(ctx, domain.TableBlogPosts, searchParams(q, "title", "content"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.BlogPost, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.norm.BlogPost(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DatePublished.After(out[j].DatePublished)
	})
	return out, nil
}

// GetServiceHighlights lists the consultation tiles ordered by DisplayOrder
func (g *Gateway) GetServiceHighlights(ctx context.Context) ([]domain.ServiceHighlight, error) {
	rows, err := g.FetchRows(ctx, domain.TableServiceHighlights, url.Values{"sort": {"DisplayOrder"}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ServiceHighlight, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.norm.ServiceHighlight(row))
	}
	// the remote sort is by raw value; defaults can land out of place
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (g *Gateway) GetTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := g.FetchRows(ctx, domain.TableTestimonials, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Testimonial, 0, len(rows))
	for _, row := range rows {
		out = append(out, g.norm.Testimonial(row))
	}
	return out, nil
}

// fetchOne returns the row whose Id equals id, or ErrNotFound
func (g *Gateway) fetchOne(ctx context.Context, table, id string) (Row, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	params := url.Values{
		"where": {Equals("Id", id)},
		"limit": {"1"},
	}
	rows, err := g.FetchRows(ctx, table, params)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if idOf(row) == id {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

// GetProduct looks a single product up by id
func (g *Gateway) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row, err := g.fetchOne(ctx, domain.TableProducts, id)
	if err != nil {
		return domain.Product{}, err
	}
	return g.norm.Product(row), nil
}

// GetTherapy looks a single therapy service up by id
func (g *Gateway) GetTherapy(ctx context.Context, id string) (domain.TherapyService, error) {
	row, err := g.fetchOne(ctx, domain.TableTherapies, id)
	if err != nil {
		return domain.TherapyService{}, err
	}
	return g.norm.Therapy(row), nil
}

// GetBlogPost looks a single post up by id
func (g *Gateway) GetBlogPost(ctx context.Context, id string) (domain.BlogPost, error) {
	row, err := g.fetchOne(ctx, domain.TableBlogPosts, id)
	if err != nil {
		return domain.BlogPost{}, err
	}
	return g.norm.BlogPost(row), nil
}

// SubmitBooking writes a booking request. It reports success only; failures
// are logged and come back as false.
func (g *Gateway) SubmitBooking(ctx context.Context, booking domain.Booking) bool {
	if err := g.CreateRow(ctx, domain.TableBookings, booking); err != nil {
		zap.L().Error("booking submission failed",
			zap.String("table", g.TableURL(domain.TableBookings)),
			zap.String("timestamp", booking.Timestamp),
			zap.Error(err))
		return false
	}
	zap.L().Info("booking submitted", zap.String("timestamp", booking.Timestamp))
	return true
}

// NewBooking builds a pending booking stamped with now
func NewBooking(name, email, phone, details string, now time.Time) domain.Booking {
	return domain.Booking{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Details:   details,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Status:    domain.BookingStatusPending,
	}
}
