package catalog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avignatattva/storefront/config"
	"github.com/avignatattva/storefront/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Row is one raw record of the remote store. Field presence and types are not
// guaranteed; only the transforms in this package look inside.
type Row = map[string]interface{}

type envelope struct {
	List []Row `json:"list"`
}

// Gateway fetches rows from the remote tabular store and turns them into
// domain entities.
type Gateway struct {
	endpoint  string // base url + api path, no trailing slash
	tables    map[string]string
	transport Transport
	norm      Normalizer
}

type Option func(*Gateway)

// WithTransport replaces the default token-injecting http client
func WithTransport(t Transport) Option {
	return func(g *Gateway) {
		g.transport = t
	}
}

// WithClock sets the time used for posts without a publish date
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.norm.Now = now
	}
}

func NewGateway(cfg config.RemoteConfig, opts ...Option) *Gateway {
	g := &Gateway{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.ApiPath, "/"),
		tables: map[string]string{
			domain.TableProducts:          cfg.Tables.Products,
			domain.TableTherapies:         cfg.Tables.Therapies,
			domain.TableBlogPosts:         cfg.Tables.BlogPosts,
			domain.TableServiceHighlights: cfg.Tables.ServiceHighlights,
			domain.TableTestimonials:      cfg.Tables.Testimonials,
			domain.TableBookings:          cfg.Tables.Bookings,
		},
		norm: Normalizer{
			ImageBase:   cfg.BaseURL,
			Placeholder: cfg.PlaceholderImage,
			Now:         time.Now,
		},
	}
	if cfg.ApiPath == "" {
		g.endpoint = strings.TrimRight(cfg.BaseURL, "/")
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.transport == nil {
		g.transport = NewHTTPClient(cfg.Token)
	}
	return g
}

// TableURL returns the endpoint of a table. Logical names (domain.Table*) are
// mapped to the configured identifiers, anything else is used verbatim.
func (g *Gateway) TableURL(table string) string {
	if id, ok := g.tables[table]; ok && id != "" {
		table = id
	}
	return g.endpoint + "/" + table
}

// FetchRows GETs the rows of table. Network failures and non-2xx answers
// return a *TransportError, an undecodable body a *ParseError.
func (g *Gateway) FetchRows(ctx context.Context, table string, params url.Values) ([]Row, error) {
	u := g.TableURL(table)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Table: table, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.transport.Do(req)
	if err != nil {
		zap.L().Error("remote fetch failed", zap.String("table", table), zap.String("url", u), zap.Error(err))
		return nil, &TransportError{Table: table, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		zap.L().Error("remote fetch failed", zap.String("table", table), zap.String("url", u), zap.Int("status", resp.StatusCode))
		return nil, &TransportError{
			Table:  table,
			URL:    u,
			Status: resp.StatusCode,
			Err:    errors.Errorf("unexpected status %s", resp.Status),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		zap.L().Error("remote response undecodable", zap.String("table", table), zap.Error(err))
		return nil, &ParseError{Table: table, Err: err}
	}
	if env.List == nil {
		zap.L().Error("remote response has no list", zap.String("table", table))
		return nil, &ParseError{Table: table, Err: errors.New("missing list")}
	}
	return env.List, nil
}

// CreateRow POSTs record as JSON to table. Only the status is looked at.
func (g *Gateway) CreateRow(ctx context.Context, table string, record interface{}) error {
	u := g.TableURL(table)
	body, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Table: table, URL: u, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.transport.Do(req)
	if err != nil {
		return &TransportError{Table: table, URL: u, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return &TransportError{
			Table:  table,
			URL:    u,
			Status: resp.StatusCode,
			Err:    errors.Errorf("unexpected status %s", resp.Status),
		}
	}
	return nil
}
