package storeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/avignatattva/storefront/config"
	"github.com/avignatattva/storefront/internal/app"
	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/domain"
	"github.com/avignatattva/storefront/internal/storefront"
	"github.com/avignatattva/storefront/internal/webserver"
)

var remoteTables = map[string]string{
	"Products": `[
		{"Id":7,"Name":"Brahmi Oil","Description":"Cooling hair oil","Price":"50",
		 "variations":"[{\"name\":\"100 ml\",\"price\":\"100\"},{\"name\":\"50 ml\",\"price\":\"80\"}]"},
		{"Id":8,"Name":"Triphala","Price":"12.5"}
	]`,
	"Therapies": `[{"Id":3,"Name":"Abhyanga","Price":"40","Duration_mins":60}]`,
	"Posts": `[
		{"Id":1,"title":"Morning Routine","excerpt":"Dinacharya","category":"Lifestyle","DatePublished":"2024-01-02"},
		{"Id":2,"title":"Eating Right","excerpt":"Seasonal diet","category":"Diet","DatePublished":"2024-02-02"}
	]`,
	"Highlights":   `[{"Id":1,"Title":"Panchakarma","DisplayOrder":1}]`,
	"Testimonials": `[{"Id":1,"Name":"Asha","Testimonial":"Lovely"}]`,
}

// fakeRemote serves the tables above and records bookings
type fakeRemote struct {
	mu         sync.Mutex
	down       map[string]bool
	queries    []string
	bookings   []string
	rejectPOST bool
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.mu.Lock()
	down := f.down[table]
	reject := f.rejectPOST
	f.queries = append(f.queries, r.URL.Query().Get("where"))
	f.mu.Unlock()

	if down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.bookings = append(f.bookings, string(body))
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
		return
	}

	var rows []map[string]interface{}
	_ = json.Unmarshal([]byte(remoteTables[table]), &rows)
	if where := r.URL.Query().Get("where"); strings.HasPrefix(where, "(Id,eq,") {
		id := strings.TrimSuffix(strings.TrimPrefix(where, "(Id,eq,"), ")")
		var match []map[string]interface{}
		for _, row := range rows {
			if b, _ := json.Marshal(row["Id"]); string(b) == id {
				match = append(match, row)
			}
		}
		rows = match
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"list": rows})
}

func (f *fakeRemote) setDown(table string, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down[table] = down
}

func (f *fakeRemote) lastWhere() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
	app    *app.Application
}

type envelope struct {
	Code   interface{}     `json:"code"`
	Data   json.RawMessage `json:"data"`
	Msg    string          `json:"msg"`
	Detail interface{}     `json:"detail"`
}

func newAPI(t *testing.T) (*apiClient, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{down: map[string]bool{}}
	remoteSrv := httptest.NewServer(remote)
	t.Cleanup(remoteSrv.Close)

	cfg := *config.DefaultAppConfig
	cfg.Logger.FileEnable = false
	cfg.Cart.Storage = "memory"
	cfg.Remote.BaseURL = remoteSrv.URL
	cfg.Remote.ApiPath = "/api/v1/db/data/noco/test"
	cfg.Remote.Token = "tok"
	cfg.Remote.Tables = config.RemoteTables{
		Products:          "Products",
		Therapies:         "Therapies",
		BlogPosts:         "Posts",
		ServiceHighlights: "Highlights",
		Testimonials:      "Testimonials",
		Bookings:          "Bookings",
	}

	application := app.NewApplication(&cfg)
	if err := application.InitComponents(); err != nil {
		t.Fatalf("InitComponents: %v", err)
	}
	webserver.Init(application)
	Init()
	srv := httptest.NewServer(webserver.Handler())
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &apiClient{t: t, base: srv.URL + "/api", client: &http.Client{Jar: jar}, app: application}, remote
}

func (a *apiClient) do(method, path string, body interface{}) (int, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, a.base+path, rd)
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		a.t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func TestStoreSearch(t *testing.T) {
	api, remote := newAPI(t)
	status, env := api.do(http.MethodGet, "/store?q=oil", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, env)
	}
	var page storefront.StorePage
	decodeData(t, env, &page)
	if page.Query != "oil" || len(page.Products) != 2 || len(page.Therapies) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Products[0].StartingPrice != "80.00" || page.Therapies[0].DurationMins != "60" {
		t.Fatalf("transforms not applied: %+v", page)
	}
	if !strings.Contains(remote.lastWhere(), "%oil%") {
		t.Fatalf("search term not forwarded: %q", remote.lastWhere())
	}

	_, env = api.do(http.MethodGet, "/store/current", nil)
	decodeData(t, env, &page)
	if page.Query != "oil" {
		t.Fatalf("current state %+v", page)
	}
}

func TestStoreSearch_RemoteDownKeepsState(t *testing.T) {
	api, remote := newAPI(t)
	if status, _ := api.do(http.MethodGet, "/store?q=oil", nil); status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	remote.setDown("Therapies", true)
	status, env := api.do(http.MethodGet, "/store?q=tea", nil)
	if status != http.StatusBadGateway || env.Code != "REMOTE_UNAVAILABLE" {
		t.Fatalf("status %d: %+v", status, env)
	}
	var page storefront.StorePage
	_, env = api.do(http.MethodGet, "/store/current", nil)
	decodeData(t, env, &page)
	if page.Query != "oil" {
		t.Fatalf("displayed state lost: %+v", page)
	}
}

func TestProductDetail(t *testing.T) {
	api, _ := newAPI(t)
	status, env := api.do(http.MethodGet, "/products/7", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, env)
	}
	var p domain.Product
	decodeData(t, env, &p)
	if p.ID != "7" || len(p.Variations) != 2 {
		t.Fatalf("unexpected %+v", p)
	}

	status, env = api.do(http.MethodGet, "/products/404", nil)
	if status != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("status %d: %+v", status, env)
	}
}

func TestListEndpoints(t *testing.T) {
	api, _ := newAPI(t)
	for _, path := range []string{"/products", "/therapies?q=abhy", "/therapies/3", "/consultation", "/blog/2"} {
		if status, env := api.do(http.MethodGet, path, nil); status != http.StatusOK {
			t.Fatalf("%s: status %d: %+v", path, status, env)
		}
	}
}

func TestBlog(t *testing.T) {
	api, _ := newAPI(t)
	status, env := api.do(http.MethodGet, "/blog?category=Diet", nil)
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, env)
	}
	var page storefront.BlogPage
	decodeData(t, env, &page)
	if len(page.Categories) != 3 || page.Categories[0] != "All" {
		t.Fatalf("categories %v", page.Categories)
	}
	if len(page.Posts) != 1 || page.Posts[0].Title != "Eating Right" {
		t.Fatalf("posts %+v", page.Posts)
	}
}

func TestCartFlow(t *testing.T) {
	api, _ := newAPI(t)

	status, env := api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "7", "itemType": "product", "variationName": "50 ml", "quantity": 2,
	})
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, env)
	}
	var snap cart.Snapshot
	decodeData(t, env, &snap)
	cartID := snap.CartID
	if snap.TotalQuantity != 2 || snap.TotalPrice.String() != "160" {
		t.Fatalf("unexpected %+v", snap)
	}

	api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "7", "itemType": "product", "variationName": "50 ml", "quantity": 1,
	})
	_, env = api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "3", "itemType": "service",
	})
	decodeData(t, env, &snap)
	if snap.CartID != cartID {
		t.Fatalf("session did not keep the cart: %s != %s", snap.CartID, cartID)
	}
	if len(snap.Items) != 2 || snap.Items[0].Quantity != 3 || snap.Items[1].CartItemID != "service_3_Standard" {
		t.Fatalf("unexpected items %+v", snap.Items)
	}
	if snap.TotalPrice.String() != "280" {
		t.Fatalf("total %s", snap.TotalPrice)
	}

	_, env = api.do(http.MethodPut, "/cart/items/product_7_50_ml", map[string]interface{}{"quantity": 0})
	decodeData(t, env, &snap)
	if len(snap.Items) != 1 || snap.TotalQuantity != 1 {
		t.Fatalf("zero quantity did not remove: %+v", snap)
	}

	_, env = api.do(http.MethodDelete, "/cart/items/missing", nil)
	decodeData(t, env, &snap)
	if len(snap.Items) != 1 {
		t.Fatalf("removing a missing line changed the cart")
	}

	_, env = api.do(http.MethodDelete, "/cart", nil)
	decodeData(t, env, &snap)
	if len(snap.Items) != 0 || !snap.TotalPrice.IsZero() {
		t.Fatalf("cart not cleared: %+v", snap)
	}
}

func TestAddCartItem_Rejections(t *testing.T) {
	api, _ := newAPI(t)
	status, env := api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "7", "itemType": "product", "variationName": "1 litre",
	})
	if status != http.StatusBadRequest || env.Code != "UNKNOWN_VARIATION" {
		t.Fatalf("status %d: %+v", status, env)
	}
	status, env = api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "7", "itemType": "gift",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status %d: %+v", status, env)
	}
	status, _ = api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "99", "itemType": "service",
	})
	if status != http.StatusNotFound {
		t.Fatalf("status %d", status)
	}
}

func TestUpdateCartItem_RequiresQuantity(t *testing.T) {
	api, _ := newAPI(t)
	api.do(http.MethodPost, "/cart/items", map[string]interface{}{
		"entityId": "7", "itemType": "product", "variationName": "50 ml", "quantity": 2,
	})

	for _, body := range []interface{}{
		map[string]interface{}{"qty": 5},
		map[string]interface{}{},
		map[string]interface{}{"quantity": nil},
	} {
		status, env := api.do(http.MethodPut, "/cart/items/product_7_50_ml", body)
		if status != http.StatusBadRequest || env.Code != "INVALID_REQUEST" {
			t.Fatalf("body %v: status %d: %+v", body, status, env)
		}
	}

	var snap cart.Snapshot
	_, env := api.do(http.MethodGet, "/cart", nil)
	decodeData(t, env, &snap)
	if len(snap.Items) != 1 || snap.TotalQuantity != 2 {
		t.Fatalf("rejected update changed the cart: %+v", snap)
	}

	_, env = api.do(http.MethodPut, "/cart/items/product_7_50_ml", map[string]interface{}{"quantity": 5})
	decodeData(t, env, &snap)
	if snap.TotalQuantity != 5 || snap.TotalPrice.String() != "400" {
		t.Fatalf("unexpected %+v", snap)
	}
	_, env = api.do(http.MethodPut, "/cart/items/product_7_50_ml", map[string]interface{}{"quantity": -1})
	decodeData(t, env, &snap)
	if len(snap.Items) != 0 {
		t.Fatalf("negative quantity did not remove: %+v", snap)
	}
}

func TestBookings(t *testing.T) {
	api, remote := newAPI(t)
	status, env := api.do(http.MethodPost, "/bookings", map[string]interface{}{
		"name": "Asha", "email": "asha@example.com", "details": "back pain",
	})
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, env)
	}
	remote.mu.Lock()
	if len(remote.bookings) != 1 || !strings.Contains(remote.bookings[0], `"Status":"Pending"`) {
		t.Fatalf("booking not written: %v", remote.bookings)
	}
	remote.rejectPOST = true
	remote.mu.Unlock()

	status, env = api.do(http.MethodPost, "/bookings", map[string]interface{}{
		"name": "Asha", "email": "asha@example.com",
	})
	if status != http.StatusBadGateway || env.Code != "BOOKING_FAILED" {
		t.Fatalf("status %d: %+v", status, env)
	}

	status, _ = api.do(http.MethodPost, "/bookings", map[string]interface{}{
		"name": "", "email": "not-an-email",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status %d", status)
	}
}
