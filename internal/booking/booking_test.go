package booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/api"
	"tourbooking/internal/apperr"
	"tourbooking/internal/catalog"
	"tourbooking/internal/events"
	"tourbooking/internal/identity"
)

type memStore struct {
	mu     sync.Mutex
	rows   map[string]*Booking
	events map[string][]events.Event
	now    time.Time
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*Booking{}, events: map[string][]events.Event{}, now: time.Unix(1700000000, 0)}
}

func (s *memStore) Insert(_ context.Context, nb NewBooking) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Minute)
	b := &Booking{
		ID: uuid.NewString(), UserID: nb.UserID, PackageID: nb.PackageID, TravelDate: nb.TravelDate,
		BookingDate: s.now, Status: nb.Status, PaymentStatus: nb.PaymentStatus,
		PaymentMethod: nb.PaymentMethod, PaymentReference: nb.PaymentReference,
		TotalAmount: nb.TotalAmount, CreatedAt: s.now, UpdatedAt: s.now,
	}
	s.rows[b.ID] = b
	s.events[b.ID] = append(s.events[b.ID], events.Event{BookingID: b.ID, EventType: events.TypeBookingCreated})
	cp := *b
	return &cp, nil
}

func (s *memStore) Get(_ context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, apperr.NotFound("booking", id)
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) SetStatus(_ context.Context, _, id string, next Status, guard func(current Status) error) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, apperr.NotFound("booking", id)
	}
	if err := guard(b.Status); err != nil {
		return nil, err
	}
	b.Status = next
	s.events[id] = append(s.events[id], events.Event{BookingID: id, EventType: events.TypeStatusChanged})
	cp := *b
	return &cp, nil
}

func (s *memStore) ListAll(context.Context) ([]Booking, error) {
	return s.filter(func(Booking) bool { return true }, sortForAdmin), nil
}

func (s *memStore) ListByUser(_ context.Context, userID string) ([]Booking, error) {
	return s.filter(func(b Booking) bool { return b.UserID == userID }, sortForUser), nil
}

func (s *memStore) Events(_ context.Context, id string) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event{}, s.events[id]...), nil
}

func (s *memStore) filter(keep func(Booking) bool, order func([]Booking)) []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Booking{}
	for _, b := range s.rows {
		if keep(*b) {
			out = append(out, *b)
		}
	}
	order(out)
	return out
}

// sortForAdmin and sortForUser give the fake the orderings the SQL uses.
func sortForAdmin(bs []Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.After(bs[j].CreatedAt)
		}
		return bs[i].ID < bs[j].ID
	})
}

func sortForUser(bs []Booking) {
	date := func(b Booking) string {
		if b.TravelDate != nil && *b.TravelDate != "" {
			return *b.TravelDate
		}
		return b.BookingDate.UTC().Format("2006-01-02")
	}
	sort.SliceStable(bs, func(i, j int) bool {
		if di, dj := date(bs[i]), date(bs[j]); di != dj {
			return di > dj
		}
		return bs[i].CreatedAt.After(bs[j].CreatedAt)
	})
}

type catalogStore struct {
	mu   sync.Mutex
	rows map[string]*catalog.Package
}

func (c *catalogStore) List(context.Context, catalog.Query) ([]catalog.Package, error) { return nil, nil }

func (c *catalogStore) Get(_ context.Context, id string) (*catalog.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.rows[id]
	if !ok {
		return nil, apperr.NotFound("package", id)
	}
	cp := *p
	return &cp, nil
}

func (c *catalogStore) Insert(_ context.Context, _ string, in catalog.Input) (*catalog.Package, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &catalog.Package{ID: uuid.NewString(), Title: in.Title, Location: in.Location, Description: in.Description, Price: in.Price, Duration: in.Duration}
	c.rows[p.ID] = p
	cp := *p
	return &cp, nil
}

func (c *catalogStore) Update(context.Context, string, string, catalog.Input) (*catalog.Package, error) {
	return nil, fmt.Errorf("not used")
}

func (c *catalogStore) Delete(context.Context, string, string, func(catalog.Dependents) error) error {
	return fmt.Errorf("not used")
}

var (
	admin = &identity.Actor{UserID: uuid.NewString(), IsAdmin: true}
	userA = &identity.Actor{UserID: uuid.NewString(), Name: "User A"}
	userB = &identity.Actor{UserID: uuid.NewString(), Name: "User B"}
)

type fixture struct {
	catalog  *catalog.Service
	bookings *Service
	store    *memStore
	pkg      *catalog.Package
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cat := catalog.NewService(&catalogStore{rows: map[string]*catalog.Package{}})
	pkg, err := cat.Create(context.Background(), admin, catalog.Fields{
		Title: "Bali Escape", Location: "Bali", Description: "Beaches", Price: "499.00", Duration: "5 days / 4 nights",
	})
	require.NoError(t, err)
	store := newMemStore()
	return fixture{catalog: cat, bookings: NewService(store, cat), store: store, pkg: pkg}
}

func TestCreate_AlwaysPending(t *testing.T) {
	f := newFixture(t)
	for _, supplied := range []string{"", "confirmed", "rejected", "cancelled", "garbage"} {
		b, err := f.bookings.Create(context.Background(), userA, f.pkg.ID, Details{Status: supplied})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status, "supplied %q", supplied)
		assert.Equal(t, PaymentPending, b.PaymentStatus)
		assert.True(t, decimal.RequireFromString("499.00").Equal(b.TotalAmount))
	}
}

func TestCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, nil, f.pkg.ID, Details{})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = f.bookings.Create(ctx, userA, uuid.NewString(), Details{})
	require.Error(t, err)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "PACKAGE_NOT_FOUND", e.Code)

	_, err = f.bookings.Create(ctx, userA, f.pkg.ID, Details{TravelDate: "next tuesday"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, f.store.rows)
}

func TestSetStatus_PendingAdminMatrix(t *testing.T) {
	for _, pending := range []bool{true, false} {
		for _, isAdmin := range []bool{true, false} {
			t.Run(fmt.Sprintf("pending=%v admin=%v", pending, isAdmin), func(t *testing.T) {
				f := newFixture(t)
				ctx := context.Background()
				b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{})
				require.NoError(t, err)
				if !pending {
					_, err := f.bookings.SetStatus(ctx, admin, b.ID, "rejected")
					require.NoError(t, err)
				}
				before := f.store.rows[b.ID].Status

				caller := userA
				if isAdmin {
					caller = admin
				}
				_, err = f.bookings.SetStatus(ctx, caller, b.ID, "confirmed")

				switch {
				case pending && isAdmin:
					require.NoError(t, err)
					assert.Equal(t, StatusConfirmed, f.store.rows[b.ID].Status)
				case !isAdmin:
					assert.True(t, apperr.Is(err, apperr.KindForbidden))
					assert.Equal(t, before, f.store.rows[b.ID].Status)
				default:
					assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
					assert.Equal(t, before, f.store.rows[b.ID].Status)
				}
			})
		}
	}
}

func TestSetStatus_RejectsOtherTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{})
	require.NoError(t, err)

	for _, target := range []string{"pending", "cancelled", "approved", ""} {
		_, err := f.bookings.SetStatus(ctx, admin, b.ID, target)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "target %q", target)
	}
	_, err = f.bookings.SetStatus(ctx, admin, uuid.NewString(), "confirmed")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetStatus_ConcurrentAdminsOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, target := range []string{"confirmed", "rejected"} {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			_, errs[i] = f.bookings.SetStatus(ctx, admin, b.ID, target)
		}(i, target)
	}
	wg.Wait()

	var ok, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.KindInvalidTransition):
			invalid++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, invalid)
}

func TestBaliEscapeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Equal(t, "5 days / 4 nights", f.pkg.Duration)

	b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{TravelDate: "2026-11-20", PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)

	b, err = f.bookings.SetStatus(ctx, admin, b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	_, err = f.bookings.SetStatus(ctx, admin, b.ID, "rejected")
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	got, err := f.bookings.Get(ctx, userA, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	evs, err := f.bookings.Events(ctx, userA, b.ID)
	require.NoError(t, err)
	assert.Len(t, evs, 2)
}

func TestGet_OwnerOrAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{})
	require.NoError(t, err)

	_, err = f.bookings.Get(ctx, admin, b.ID)
	assert.NoError(t, err)
	_, err = f.bookings.Get(ctx, userB, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.bookings.Events(ctx, userB, b.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListAll_NewestFirstWithPendingCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		b, err := f.bookings.Create(ctx, userA, f.pkg.ID, Details{})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	_, err := f.bookings.SetStatus(ctx, admin, ids[0], "confirmed")
	require.NoError(t, err)

	_, err = f.bookings.ListAll(ctx, userA)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	list, err := f.bookings.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, ids[2], list.Items[0].ID)
	assert.Equal(t, ids[0], list.Items[2].ID)
	assert.Equal(t, 2, list.PendingCount)
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentCompleted))
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentFailed))
	assert.True(t, CanTransitionPayment(PaymentFailed, PaymentCompleted))
	assert.False(t, CanTransitionPayment(PaymentCompleted, PaymentFailed))
	assert.False(t, CanTransitionPayment(PaymentCompleted, PaymentPending))
}

func TestHandlers_CreateIgnoresSuppliedStatus(t *testing.T) {
	f := newFixture(t)
	h := Handlers{Bookings: f.bookings}
	rt := chi.NewRouter()
	rt.Post("/packages/{id}/bookings", h.Create)
	rt.Patch("/admin/bookings/{id}/status", h.PatchStatus)

	req := httptest.NewRequest(http.MethodPost, "/packages/"+f.pkg.ID+"/bookings",
		strings.NewReader(`{"travelDate":"2026-11-20","status":"confirmed"}`))
	req = req.WithContext(api.WithActor(req.Context(), userA))
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	var id string
	for k := range f.store.rows {
		id = k
	}
	patch := func(actor *identity.Actor, body string) int {
		req := httptest.NewRequest(http.MethodPatch, "/admin/bookings/"+id+"/status", strings.NewReader(body))
		req = req.WithContext(api.WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusForbidden, patch(userA, `{"status":"confirmed"}`))
	assert.Equal(t, http.StatusOK, patch(admin, `{"status":"confirmed"}`))
	assert.Equal(t, http.StatusConflict, patch(admin, `{"status":"rejected"}`))
}
