package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
	"github.com/rajkumarpatel02/car-rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// fakeRepo is an in-memory BookingRepository that counts reads so tests can
// assert the cache short-circuits the store.
type fakeRepo struct {
	bookings map[string]*models.Booking
	getCalls int
	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeRepo) Create(b *models.Booking) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(id string) (*models.Booking, error) {
	r.getCalls++
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetByIDAndUser(id, userID string) (*models.Booking, error) {
	r.getCalls++
	b, ok := r.bookings[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetByUser(userID string) ([]models.Booking, error) {
	r.getCalls++
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateFields(id string, fields bson.M) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	if v, ok := fields["status"]; ok {
		b.Status = v.(string)
	}
	if v, ok := fields["total_price"]; ok {
		b.TotalPrice = v.(float64)
	}
	if v, ok := fields["failure_reason"]; ok {
		b.FailureReason = v.(string)
	}
	cp := *b
	return &cp, nil
}

type published struct {
	exchange string
	env      events.Envelope
}

// fakeBus records publishes.
type fakeBus struct {
	events  []published
	failure error
}

func (b *fakeBus) Publish(ctx context.Context, exchange string, env events.Envelope) error {
	if b.failure != nil {
		return b.failure
	}
	b.events = append(b.events, published{exchange: exchange, env: env})
	return nil
}

func (b *fakeBus) Subscribe(exchange, queueName string, handler messaging.Handler) error {
	return nil
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) ofType(eventType string) []events.Envelope {
	var out []events.Envelope
	for _, p := range b.events {
		if p.env.Type == eventType {
			out = append(out, p.env)
		}
	}
	return out
}

// memStore is an in-memory cache.Store.
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func newService() (*DefaultBookingService, *fakeRepo, *memStore, *fakeBus) {
	repo := newFakeRepo()
	store := newMemStore()
	bus := &fakeBus{}
	return &DefaultBookingService{Repo: repo, Cache: store, Bus: bus}, repo, store, bus
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		CarID:     "car-1",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(72 * time.Hour),
	}
}

func availabilityEnvelope(t *testing.T, data events.AvailabilityResultData) events.Envelope {
	t.Helper()
	env, err := events.NewEnvelope(events.TypeCarAvailabilityResult, data)
	require.NoError(t, err)
	return env
}

func TestCreateBookingStartsPendingAndPublishesOnce(t *testing.T) {
	svc, repo, store, bus := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Zero(t, b.TotalPrice)
	assert.NotEmpty(t, b.ID)

	created := bus.ofType(events.TypeBookingCreated)
	require.Len(t, created, 1)
	var data events.BookingCreatedData
	require.NoError(t, created[0].Decode(&data))
	assert.Equal(t, b.ID, data.BookingID)
	assert.Equal(t, "car-1", data.CarID)
	assert.Equal(t, "user-1", data.UserID)

	// Persisted and shadow-cached.
	assert.Contains(t, repo.bookings, b.ID)
	_, ok := store.data[cache.BookingKey(b.ID)]
	assert.True(t, ok)
}

func TestCreateBookingRejectsPastStartWithoutPublishing(t *testing.T) {
	svc, repo, _, bus := newService()

	input := validInput()
	input.StartDate = time.Now().Add(-24 * time.Hour)

	_, err := svc.CreateBooking(context.Background(), "user-1", input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Rejected before any saga state exists.
	assert.Empty(t, bus.events)
	assert.Empty(t, repo.bookings)
}

func TestCreateBookingRejectsInvertedDates(t *testing.T) {
	svc, _, _, bus := newService()

	input := validInput()
	input.EndDate = input.StartDate.Add(-time.Hour)

	_, err := svc.CreateBooking(context.Background(), "user-1", input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, bus.events)
}

func TestCreateBookingSurvivesPublishFailure(t *testing.T) {
	svc, repo, _, bus := newService()
	bus.failure = errors.New("broker down")

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	// The booking is persisted and stays pending until a retry.
	assert.Equal(t, models.BookingStatusPending, repo.bookings[b.ID].Status)
}

func TestAvailabilityResultConfirmsBooking(t *testing.T) {
	svc, repo, _, bus := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	env := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID:   b.ID,
		IsAvailable: true,
		TotalPrice:  150,
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))

	stored := repo.bookings[b.ID]
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, float64(150), stored.TotalPrice)

	confirmed := bus.ofType(events.TypeBookingConfirmed)
	require.Len(t, confirmed, 1)
	var status events.BookingStatusData
	require.NoError(t, confirmed[0].Decode(&status))
	assert.Equal(t, b.ID, status.BookingID)
	assert.Equal(t, float64(150), status.TotalPrice)
}

func TestAvailabilityResultFailsBookingWithReason(t *testing.T) {
	svc, repo, _, bus := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	env := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID:     b.ID,
		IsAvailable:   false,
		FailureReason: "Car not found",
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))

	stored := repo.bookings[b.ID]
	assert.Equal(t, models.BookingStatusFailed, stored.Status)
	assert.Equal(t, "Car not found", stored.FailureReason)
	assert.Len(t, bus.ofType(events.TypeBookingFailed), 1)
	assert.Empty(t, bus.ofType(events.TypeBookingConfirmed))
}

func TestDuplicateResultDoesNotOverwriteTerminalState(t *testing.T) {
	svc, repo, _, bus := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	confirm := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID: b.ID, IsAvailable: true, TotalPrice: 150,
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), confirm))

	// A duplicate (or contradictory late) result against a terminal booking
	// is discarded without publishing anything downstream.
	fail := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID: b.ID, IsAvailable: false, FailureReason: "Car not found",
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), fail))
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), confirm))

	stored := repo.bookings[b.ID]
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, float64(150), stored.TotalPrice)
	assert.Len(t, bus.ofType(events.TypeBookingConfirmed), 1)
	assert.Empty(t, bus.ofType(events.TypeBookingFailed))
}

func TestAvailabilityResultForUnknownBookingIsDropped(t *testing.T) {
	svc, _, _, bus := newService()

	env := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID: "missing", IsAvailable: true, TotalPrice: 10,
	})
	// Not an error: rejecting would make the broker redeliver forever.
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))
	assert.Empty(t, bus.ofType(events.TypeBookingConfirmed))
}

func TestAvailabilityResultIgnoresForeignEventTypes(t *testing.T) {
	svc, repo, _, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	env, err := events.NewEnvelope(events.TypeCarUpdated, events.CarUpdatedData{CarID: "car-1"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))
	assert.Equal(t, models.BookingStatusPending, repo.bookings[b.ID].Status)
}

func TestGetBookingByIDServesCachedShadowWithoutStore(t *testing.T) {
	svc, repo, _, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	before := repo.getCalls
	got, err := svc.GetBookingByID(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, before, repo.getCalls, "cached read must not touch the store")
}

func TestGetBookingByIDRepopulatesAfterInvalidation(t *testing.T) {
	svc, repo, store, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	require.NoError(t, store.Del(context.Background(), cache.BookingKey(b.ID)))

	before := repo.getCalls
	got, err := svc.GetBookingByID(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Greater(t, repo.getCalls, before)

	// The miss repopulated the shadow.
	cached, ok := store.data[cache.BookingKey(b.ID)]
	require.True(t, ok)
	var shadow models.Booking
	require.NoError(t, json.Unmarshal([]byte(cached), &shadow))
	assert.Equal(t, b.ID, shadow.ID)
}

func TestGetBookingByIDHidesOtherUsersBookings(t *testing.T) {
	svc, _, _, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	// Same answer whether the booking belongs to someone else or does not
	// exist at all.
	_, err = svc.GetBookingByID(context.Background(), b.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetBookingByID(context.Background(), "missing", "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserBookingsCacheAside(t *testing.T) {
	svc, repo, store, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	first, err := svc.GetUserBookings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, b.ID, first[0].ID)

	// Second read is served from the cached list.
	before := repo.getCalls
	second, err := svc.GetUserBookings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, before, repo.getCalls)

	_, ok := store.data[cache.UserBookingsKey("user-1")]
	assert.True(t, ok)
}

func TestSagaAdvanceInvalidatesUserBookingsList(t *testing.T) {
	svc, _, store, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	_, err = svc.GetUserBookings(context.Background(), "user-1")
	require.NoError(t, err)
	_, ok := store.data[cache.UserBookingsKey("user-1")]
	require.True(t, ok)

	env := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID: b.ID, IsAvailable: true, TotalPrice: 90,
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))

	// The stale list was dropped; the next read observes the new status.
	_, ok = store.data[cache.UserBookingsKey("user-1")]
	assert.False(t, ok)

	bookings, err := svc.GetUserBookings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingStatusConfirmed, bookings[0].Status)
}

func TestCancelBooking(t *testing.T) {
	svc, _, _, bus := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Len(t, bus.ofType(events.TypeBookingCancelled), 1)

	// Cancelled is terminal: neither a second cancel nor a late availability
	// result may move the booking.
	_, err = svc.CancelBooking(context.Background(), b.ID, "user-1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	env := availabilityEnvelope(t, events.AvailabilityResultData{
		BookingID: b.ID, IsAvailable: true, TotalPrice: 40,
	})
	require.NoError(t, svc.HandleAvailabilityResult(context.Background(), env))
	got, err := svc.GetBookingByID(context.Background(), b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, got.Status)
}

func TestCancelBookingOfOtherUser(t *testing.T) {
	svc, _, _, _ := newService()

	b, err := svc.CreateBooking(context.Background(), "user-1", validInput())
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), b.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)
}
