package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/hotel-booking/internal/admin"
	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/domain/room"
	"github.com/xenking/hotel-booking/internal/domain/service"
)

var now = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	h, err := hotel.New(
		hotel.WithClock(func() time.Time { return now }),
		hotel.WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)

	ctx := context.Background()
	for _, r := range []struct {
		number    int
		t         room.Type
		price     int64
		available bool
	}{
		{101, room.TypeSingle, 100, true},
		{201, room.TypeDouble, 150, true},
		{301, room.TypeSuite, 250, true},
		{102, room.TypeSingle, 100, false},
	} {
		_, err := h.AddRoom(ctx, r.number, r.t, decimal.NewFromInt(r.price), r.available)
		require.NoError(t, err)
	}
	require.NoError(t, h.AddPromoCode(ctx, "SUMMER20", decimal.NewFromFloat(0.2)))

	mux := http.NewServeMux()
	New(h, admin.NewGate("admin", "admin123")).Register(mux)
	return mux
}

func do(t *testing.T, srv http.Handler, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth("admin", "admin123")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	d := json.NewDecoder(w.Body)
	d.UseNumber()
	require.NoError(t, d.Decode(&v), "body: %s", w.Body.String())
	return v
}

type bookingBody struct {
	ID      int         `json:"id"`
	Status  string      `json:"status"`
	Nights  int         `json:"nights"`
	Total   json.Number `json:"total"`
	Room    roomBody    `json:"room"`
	Receipt *struct {
		Method   string      `json:"method"`
		Amount   json.Number `json:"amount"`
		Approved bool        `json:"approved"`
	} `json:"receipt"`
	Offers []struct {
		Name string `json:"name"`
	} `json:"offers"`
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings"`
}

type roomBody struct {
	Number    int         `json:"number"`
	Type      string      `json:"type"`
	Price     json.Number `json:"price"`
	Available bool        `json:"available"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const bookBody = `{
	"name": "John Doe",
	"email": "john@example.com",
	"room_type": "single",
	"check_in": "2024-01-01",
	"check_out": "2024-01-03",
	"promo_code": "SUMMER20",
	"payment": {
		"method": "credit_card",
		"card_number": "4111 1111 1111 1111",
		"expiry": "12/27",
		"holder": "John Doe",
		"cvv": "123"
	}
}`

func TestRooms(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name    string
		query   string
		code    int
		numbers []int
	}{
		{name: "all", code: http.StatusOK, numbers: []int{101, 102, 201, 301}},
		{name: "available singles", query: "?type=single&available=true", code: http.StatusOK, numbers: []int{101}},
		{name: "suites", query: "?type=Suite", code: http.StatusOK, numbers: []int{301}},
		{name: "unknown type", query: "?type=penthouse", code: http.StatusBadRequest},
		{name: "bad flag", query: "?available=maybe", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/api/rooms"+tt.query, "", false)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			rooms := decode[[]roomBody](t, w)
			var got []int
			for _, r := range rooms {
				got = append(got, r.Number)
			}
			assert.ElementsMatch(t, tt.numbers, got)
		})
	}
}

func TestServices(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/api/services", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Len(t, decode[[]map[string]any](t, w), len(service.Menu()))
}

func TestBookingFlow(t *testing.T) {
	srv := newServer(t)

	w := do(t, srv, http.MethodPost, "/api/quotes", bookBody, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode[bookingBody](t, w)
	assert.Zero(t, quote.ID)
	assert.Equal(t, "priced", quote.Status)
	assert.Equal(t, "160.00", quote.Total.String())
	assert.Nil(t, quote.Receipt)

	w = do(t, srv, http.MethodPost, "/api/bookings", bookBody, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/bookings/1", w.Header().Get("Location"))
	b := decode[bookingBody](t, w)
	assert.Equal(t, 1, b.ID)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, 2, b.Nights)
	assert.Equal(t, 101, b.Room.Number)
	assert.Equal(t, "160.00", b.Total.String())
	require.NotNil(t, b.Receipt)
	assert.True(t, b.Receipt.Approved)
	assert.Equal(t, "credit_card", b.Receipt.Method)
	require.Len(t, b.Offers, 1)
	assert.Equal(t, "promo SUMMER20 20%", b.Offers[0].Name)
	assert.Contains(t, b.Summary, "Booking #1 confirmed for John Doe")

	w = do(t, srv, http.MethodGet, "/api/rooms?type=single&available=true", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]roomBody](t, w))

	w = do(t, srv, http.MethodGet, "/api/bookings", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]bookingBody](t, w), 1)

	w = do(t, srv, http.MethodPost, "/api/bookings/1/cancel", "", false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", decode[bookingBody](t, w).Status)

	w = do(t, srv, http.MethodPost, "/api/bookings/1/cancel", "", false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, http.MethodGet, "/api/bookings", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]bookingBody](t, w))

	w = do(t, srv, http.MethodGet, "/api/bookings/1", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode[bookingBody](t, w).Status)

	w = do(t, srv, http.MethodGet, "/api/rooms?type=single&available=true", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]roomBody](t, w), 1)
}

func TestBook_Errors(t *testing.T) {
	replace := func(old, with string) string {
		s := strings.Replace(bookBody, old, with, 1)
		require.NotEqual(t, bookBody, s, "replace %q", old)
		return s
	}

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "empty body", body: "", code: http.StatusBadRequest},
		{name: "malformed", body: `{"name":`, code: http.StatusBadRequest},
		{name: "not an object", body: `[1,2]`, code: http.StatusBadRequest},
		{
			name: "missing dates",
			body: `{"name":"John Doe","email":"john@example.com","room_type":"single"}`,
			code: http.StatusBadRequest,
		},
		{name: "bad date", body: replace(`"2024-01-03"`, `"03.01.2024"`), code: http.StatusBadRequest},
		{name: "reversed dates", body: replace(`"2024-01-03"`, `"2023-12-30"`), code: http.StatusBadRequest},
		{name: "bad email", body: replace(`"john@example.com"`, `"john"`), code: http.StatusBadRequest},
		{name: "bad room type", body: replace(`"single"`, `"penthouse"`), code: http.StatusBadRequest},
		{name: "unknown service", body: replace(`"promo_code"`, `"services": ["golf"], "promo_code"`), code: http.StatusBadRequest},
		{name: "unknown method", body: replace(`"credit_card"`, `"cash"`), code: http.StatusBadRequest},
		{name: "short card", body: replace(`"4111 1111 1111 1111"`, `"4111"`), code: http.StatusUnprocessableEntity},
		{name: "bad cvv", body: replace(`"123"`, `"12a"`), code: http.StatusUnprocessableEntity},
		{name: "occupied room", body: replace(`"room_type": "single"`, `"room_number": 102`), code: http.StatusConflict},
		{name: "missing room", body: replace(`"room_type": "single"`, `"room_number": 999`), code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)
			w := do(t, srv, http.MethodPost, "/api/bookings", tt.body, false)
			require.Equal(t, tt.code, w.Code, w.Body.String())

			e := decode[errorBody](t, w)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)

			w = do(t, srv, http.MethodGet, "/api/bookings", "", false)
			assert.Empty(t, decode[[]bookingBody](t, w))
		})
	}
}

func TestBook_UnknownPromoCode(t *testing.T) {
	srv := newServer(t)
	body := strings.Replace(bookBody, `"SUMMER20"`, `"WINTER99"`, 1)

	w := do(t, srv, http.MethodPost, "/api/quotes", body, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := decode[bookingBody](t, w)
	assert.Equal(t, "200.00", q.Total.String())
	require.Len(t, q.Warnings, 1)

	w = do(t, srv, http.MethodPost, "/api/bookings", body, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[bookingBody](t, w)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, "200.00", b.Total.String())
	assert.Empty(t, b.Offers)
	require.Len(t, b.Warnings, 1)
	assert.Contains(t, b.Warnings[0], "WINTER99")

	w = do(t, srv, http.MethodPost, "/api/bookings", strings.Replace(bookBody, `"single"`, `"double"`, 1), false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, decode[bookingBody](t, w).Warnings)
}

func TestBooking_NotFound(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{name: "get missing", method: http.MethodGet, path: "/api/bookings/42", code: http.StatusNotFound},
		{name: "cancel missing", method: http.MethodPost, path: "/api/bookings/42/cancel", code: http.StatusNotFound},
		{name: "bad id", method: http.MethodGet, path: "/api/bookings/abc", code: http.StatusBadRequest},
		{name: "zero id", method: http.MethodPost, path: "/api/bookings/0/cancel", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, tt.method, tt.path, "", false)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestReviews(t *testing.T) {
	srv := newServer(t)

	w := do(t, srv, http.MethodGet, "/api/reviews", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"average":0.0,"reviews":[]}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/reviews",
		`{"name":"John Doe","email":"john@example.com","rating":5,"comment":"Great stay!"}`, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/reviews",
		`{"name":"Jane Roe","rating":4,"comment":"Nice pool."}`, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, body := range []string{
		`{"name":"John Doe","email":"john@example.com","rating":9,"comment":"Too good"}`,
		`{"name":"John Doe","email":"john@example.com","rating":3,"comment":""}`,
		`{"name":"","email":"john@example.com","rating":3,"comment":"ok"}`,
	} {
		w = do(t, srv, http.MethodPost, "/api/reviews", body, false)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = do(t, srv, http.MethodGet, "/api/reviews", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Average json.Number `json:"average"`
		Reviews []struct {
			Name    string `json:"name"`
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		} `json:"reviews"`
	}](t, w)
	assert.Equal(t, "4.5", got.Average.String())
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "Jane Roe", got.Reviews[0].Name)
}

func TestAdmin(t *testing.T) {
	srv := newServer(t)

	t.Run("Unauthorized", func(t *testing.T) {
		for _, path := range []string{"/api/admin/rooms", "/api/admin/promo-codes", "/api/admin/seasonal-offers"} {
			w := do(t, srv, http.MethodPost, path, `{}`, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
		w := do(t, srv, http.MethodGet, "/api/admin/offers", "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Rooms", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/api/admin/rooms", `{"number":401,"type":"suite","price":"300"}`, true)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		r := decode[roomBody](t, w)
		assert.Equal(t, 401, r.Number)
		assert.Equal(t, "300.00", r.Price.String())
		assert.True(t, r.Available)

		w = do(t, srv, http.MethodPost, "/api/admin/rooms", `{"number":401,"type":"suite","price":300}`, true)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = do(t, srv, http.MethodPost, "/api/admin/rooms", `{"number":402,"type":"suite","price":-1}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Offers", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/api/admin/promo-codes", `{"code":"WINTER10","discount":0.1}`, true)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.JSONEq(t, `{"code":"WINTER10","discount":0.1}`, w.Body.String())

		w = do(t, srv, http.MethodPost, "/api/admin/promo-codes", `{"code":"BAD","discount":1.5}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, srv, http.MethodPost, "/api/admin/seasonal-offers",
			`{"discount":0.15,"start":"2024-06-01","end":"2024-06-30"}`, true)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = do(t, srv, http.MethodPost, "/api/admin/seasonal-offers", `{"discount":0.15,"start":"2024-06-01"}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(t, srv, http.MethodGet, "/api/admin/offers", "", true)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[struct {
			PromoCodes []struct {
				Code string `json:"code"`
			} `json:"promo_codes"`
			Seasonal []map[string]any `json:"seasonal_offers"`
			Active   map[string]any   `json:"active"`
		}](t, w)
		require.Len(t, got.PromoCodes, 2)
		assert.Equal(t, "SUMMER20", got.PromoCodes[0].Code)
		assert.Equal(t, "WINTER10", got.PromoCodes[1].Code)
		assert.Len(t, got.Seasonal, 1)
		assert.NotNil(t, got.Active)
	})

	t.Run("SeasonalAppliesToQuote", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/api/quotes", bookBody, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		q := decode[bookingBody](t, w)
		assert.Equal(t, "136.00", q.Total.String())
		assert.Len(t, q.Offers, 2)
	})
}

func TestMapError_Internal(t *testing.T) {
	code, message := mapError(context.DeadlineExceeded)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", message)
}
