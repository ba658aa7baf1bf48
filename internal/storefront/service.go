package storefront

import (
	"context"
	"strings"

	"github.com/avignatattva/storefront/internal/domain"
	"golang.org/x/sync/errgroup"
)

// AllCategories selects every blog post
const AllCategories = "All"

// Catalog is the part of the catalog gateway the pages read from
type Catalog interface {
	GetProducts(ctx context.Context, q string) ([]domain.Product, error)
	GetTherapies(ctx context.Context, q string) ([]domain.TherapyService, error)
	GetBlogPosts(ctx context.Context, q string) ([]domain.BlogPost, error)
	GetServiceHighlights(ctx context.Context) ([]domain.ServiceHighlight, error)
	GetTestimonials(ctx context.Context) ([]domain.Testimonial, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetTherapy(ctx context.Context, id string) (domain.TherapyService, error)
	GetBlogPost(ctx context.Context, id string) (domain.BlogPost, error)
}

// StorePage products and therapies matching one query
type StorePage struct {
	Query     string                  `json:"query"`
	Products  []domain.Product        `json:"products"`
	Therapies []domain.TherapyService `json:"therapies"`
}

// ConsultationPage service highlights and testimonials
type ConsultationPage struct {
	Highlights   []domain.ServiceHighlight `json:"highlights"`
	Testimonials []domain.Testimonial      `json:"testimonials"`
}

// BlogPage posts in the selected category matching the search term
type BlogPage struct {
	Category   string            `json:"category"`
	Query      string            `json:"query"`
	Categories []string          `json:"categories"`
	Posts      []domain.BlogPost `json:"posts"`
}

// Service builds the storefront pages from the catalog
type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// Store fetches products and therapies concurrently. Either failure fails the page.
func (s *Service) Store(ctx context.Context, q string) (StorePage, error) {
	page := StorePage{Query: q}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.catalog.GetProducts(gctx, q)
		page.Products = products
		return err
	})
	g.Go(func() error {
		therapies, err := s.catalog.GetTherapies(gctx, q)
		page.Therapies = therapies
		return err
	})
	if err := g.Wait(); err != nil {
		return StorePage{Query: q}, err
	}
	return page, nil
}

// Consultation fetches highlights and testimonials concurrently
func (s *Service) Consultation(ctx context.Context) (ConsultationPage, error) {
	var page ConsultationPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hs, err := s.catalog.GetServiceHighlights(gctx)
		page.Highlights = hs
		return err
	})
	g.Go(func() error {
		ts, err := s.catalog.GetTestimonials(gctx)
		page.Testimonials = ts
		return err
	})
	if err := g.Wait(); err != nil {
		return ConsultationPage{}, err
	}
	return page, nil
}

// Blog fetches every post and filters locally. An empty category or "All"
// keeps every category; q matches title or excerpt, case-insensitively.
func (s *Service) Blog(ctx context.Context, category, q string) (BlogPage, error) {
	posts, err := s.catalog.GetBlogPosts(ctx, "")
	if err != nil {
		return BlogPage{}, err
	}
	if category == "" {
		category = AllCategories
	}
	page := BlogPage{
		Category:   category,
		Query:      q,
		Categories: Categories(posts),
		Posts:      FilterPosts(posts, category, q),
	}
	return page, nil
}

// Product detail
func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

// Therapy detail
func (s *Service) Therapy(ctx context.Context, id string) (domain.TherapyService, error) {
	return s.catalog.GetTherapy(ctx, id)
}

// BlogPost detail
func (s *Service) BlogPost(ctx context.Context, id string) (domain.BlogPost, error) {
	return s.catalog.GetBlogPost(ctx, id)
}

// Categories returns "All" followed by the distinct post categories in first-seen order
func Categories(posts []domain.BlogPost) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, p := range posts {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// FilterPosts keeps posts in category whose title or excerpt contains q
func FilterPosts(posts []domain.BlogPost, category, q string) []domain.BlogPost {
	term := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.BlogPost, 0, len(posts))
	for _, p := range posts {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Excerpt), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}
