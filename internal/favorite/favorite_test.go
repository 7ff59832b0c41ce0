package favorite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/api"
	"tourbooking/internal/apperr"
	"tourbooking/internal/catalog"
	"tourbooking/internal/identity"
)

type pair struct{ user, pkg string }

// memStore stores whatever decide asks for: one lock stands in for the
// per-pair advisory lock, and the set stands in for the unique constraint.
type memStore struct {
	mu       sync.Mutex
	packages map[string]bool
	set      map[pair]bool
	calls    int
}

func newMemStore(packageIDs ...string) *memStore {
	s := &memStore{packages: map[string]bool{}, set: map[pair]bool{}}
	for _, id := range packageIDs {
		s.packages[id] = true
	}
	return s
}

func (s *memStore) Set(_ context.Context, userID, packageID string, decide func(present bool) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	k := pair{userID, packageID}
	want := decide(s.set[k])
	if !want {
		delete(s.set, k)
		return false, nil
	}
	if !s.packages[packageID] {
		return false, &pgconn.PgError{Code: "23503"}
	}
	s.set[k] = true
	return true, nil
}

func (s *memStore) Exists(_ context.Context, userID, packageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set[pair{userID, packageID}], nil
}

func (s *memStore) ListPackageIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.set {
		if k.user == userID {
			out = append(out, k.pkg)
		}
	}
	return out, nil
}

func (s *memStore) ListPackages(ctx context.Context, userID string) ([]catalog.Package, error) {
	ids, _ := s.ListPackageIDs(ctx, userID)
	out := make([]catalog.Package, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalog.Package{ID: id})
	}
	return out, nil
}

var (
	pkg  = uuid.NewString()
	user = &identity.Actor{UserID: uuid.NewString()}
)

func TestToggle_IsAnInvolution(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(pkg))

	for _, start := range []bool{false, true} {
		if start {
			_, err := svc.Add(ctx, user, pkg)
			require.NoError(t, err)
		}
		first, err := svc.Toggle(ctx, user, pkg)
		require.NoError(t, err)
		assert.Equal(t, !start, first.Present)

		second, err := svc.Toggle(ctx, user, pkg)
		require.NoError(t, err)
		assert.Equal(t, start, second.Present)

		now, err := svc.IsFavorite(ctx, user, pkg)
		require.NoError(t, err)
		assert.Equal(t, start, now)
	}
}

func TestToggle_Unauthenticated(t *testing.T) {
	store := newMemStore(pkg)
	_, err := NewService(store).Toggle(context.Background(), nil, pkg)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	assert.Zero(t, store.calls)
}

func TestToggle_UnknownPackage(t *testing.T) {
	_, err := NewService(newMemStore()).Toggle(context.Background(), user, pkg)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestToggle_ConcurrentEvenCountLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(pkg)
	svc := NewService(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Toggle(ctx, user, pkg)
		}()
	}
	wg.Wait()

	ids, err := svc.ListPackageIDs(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAddRemove_AreIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(pkg))

	for i := 0; i < 2; i++ {
		st, err := svc.Add(ctx, user, pkg)
		require.NoError(t, err)
		assert.True(t, st.Present)
	}
	ids, _ := svc.ListPackageIDs(ctx, user)
	assert.Len(t, ids, 1)

	for i := 0; i < 2; i++ {
		st, err := svc.Remove(ctx, user, pkg)
		require.NoError(t, err)
		assert.False(t, st.Present)
	}
	ids, _ = svc.ListPackageIDs(ctx, user)
	assert.Empty(t, ids)
}

func TestHandlers_Toggle(t *testing.T) {
	h := Handlers{Favorites: NewService(newMemStore(pkg))}
	rt := chi.NewRouter()
	rt.Post("/packages/{id}/favorite", h.Toggle)

	do := func(actor *identity.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/packages/"+pkg+"/favorite", nil)
		req = req.WithContext(api.WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do(nil).Code)
	rec := do(user)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"present":true}`, rec.Body.String())
	assert.JSONEq(t, `{"present":false}`, do(user).Body.String())
}

func TestFlip(t *testing.T) {
	assert.True(t, flip(false))
	assert.False(t, flip(true))
}

func TestRemove_UnknownPackageIsNoop(t *testing.T) {
	st, err := NewService(newMemStore()).Remove(context.Background(), user, pkg)
	require.NoError(t, err)
	assert.False(t, st.Present)
}
