package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}

// In-memory repository fakes. Each guards its map with a mutex so tests
// can exercise concurrent paths.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]entity.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &booking, nil
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return f.filter(func(b entity.Booking) bool { return b.UserID == userID }), nil
}

func (f *fakeBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.filter(func(b entity.Booking) bool { return b.UserID == userID }))), nil
}

func (f *fakeBookingRepo) FindByProviderID(_ context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return f.filter(func(b entity.Booking) bool { return b.ProviderID == providerID }), nil
}

func (f *fakeBookingRepo) CountByProviderID(_ context.Context, providerID uuid.UUID) (int64, error) {
	return int64(len(f.filter(func(b entity.Booking) bool { return b.ProviderID == providerID }))), nil
}

func (f *fakeBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	return f.filter(func(entity.Booking) bool { return true }), nil
}

func (f *fakeBookingRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.filter(func(entity.Booking) bool { return true }))), nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return errors.New("booking not found")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) CountByServiceAndDate(_ context.Context, serviceID uuid.UUID, date string) (int64, error) {
	matches := f.filter(func(b entity.Booking) bool {
		return b.ServiceID == serviceID && b.Date == date
	})
	return int64(len(matches)), nil
}

func (f *fakeBookingRepo) FindActiveByProviderAndDate(_ context.Context, providerID uuid.UUID, date string) ([]*entity.Booking, error) {
	return f.filter(func(b entity.Booking) bool {
		return b.ProviderID == providerID && b.Date == date && b.Status != entity.BookingStatusCancelled
	}), nil
}

func (f *fakeBookingRepo) FindActiveByServiceAndDate(_ context.Context, serviceID uuid.UUID, date string) ([]*entity.Booking, error) {
	return f.filter(func(b entity.Booking) bool {
		return b.ServiceID == serviceID && b.Date == date && b.Status != entity.BookingStatusCancelled
	}), nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return errors.New("booking not found")
	}
	booking.Status = status
	if reason != nil {
		booking.Reason = reason
	}
	f.bookings[bookingID] = booking
	return nil
}

func (f *fakeBookingRepo) SetPaymentDetails(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus, transactionID string, feeAmount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return errors.New("booking not found")
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus
	booking.TransactionID = &transactionID
	booking.StripeFeeAmount = feeAmount
	f.bookings[bookingID] = booking
	return nil
}

func (f *fakeBookingRepo) SetPaymentStatus(_ context.Context, bookingID uuid.UUID, paymentStatus entity.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return errors.New("booking not found")
	}
	booking.PaymentStatus = paymentStatus
	f.bookings[bookingID] = booking
	return nil
}

func (f *fakeBookingRepo) SetStripeFee(_ context.Context, bookingID uuid.UUID, feeAmount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return errors.New("booking not found")
	}
	booking.StripeFeeAmount = feeAmount
	f.bookings[bookingID] = booking
	return nil
}

func (f *fakeBookingRepo) MarkTransferred(_ context.Context, bookingID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booking, ok := f.bookings[bookingID]
	if !ok {
		return false, errors.New("booking not found")
	}
	if booking.IsTransferred {
		return false, nil
	}
	booking.IsTransferred = true
	f.bookings[bookingID] = booking
	return true, nil
}

func (f *fakeBookingRepo) filter(keep func(entity.Booking) bool) []*entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range f.bookings {
		if keep(booking) {
			b := booking
			out = append(out, &b)
		}
	}
	return out
}

func (f *fakeBookingRepo) get(id uuid.UUID) entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id]
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[uuid.UUID]entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]entity.Service)}
}

func (f *fakeServiceRepo) Create(_ context.Context, service *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services[service.ID] = *service
	return nil
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	service, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	return &service, nil
}

func (f *fakeServiceRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.Service, error) {
	return f.filter(func(s entity.Service) bool {
		return s.IsActive && (search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)))
	}), nil
}

func (f *fakeServiceRepo) CountAll(_ context.Context, search string) (int64, error) {
	services, _ := f.FindAll(context.Background(), search, 0, 0)
	return int64(len(services)), nil
}

func (f *fakeServiceRepo) FindByProviderID(_ context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.Service, error) {
	return f.filter(func(s entity.Service) bool { return s.ProviderID == providerID }), nil
}

func (f *fakeServiceRepo) CountByProviderID(_ context.Context, providerID uuid.UUID) (int64, error) {
	return int64(len(f.filter(func(s entity.Service) bool { return s.ProviderID == providerID }))), nil
}

func (f *fakeServiceRepo) Update(_ context.Context, service *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[service.ID]; !ok {
		return errors.New("service not found")
	}
	f.services[service.ID] = *service
	return nil
}

func (f *fakeServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[id]; !ok {
		return errors.New("service not found")
	}
	delete(f.services, id)
	return nil
}

func (f *fakeServiceRepo) IncrementBookingCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	service, ok := f.services[id]
	if !ok {
		return errors.New("service not found")
	}
	service.BookingCount++
	f.services[id] = service
	return nil
}

func (f *fakeServiceRepo) UpdateRating(_ context.Context, id uuid.UUID, ratingTotal int, ratingAverage float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	service, ok := f.services[id]
	if !ok {
		return errors.New("service not found")
	}
	service.RatingTotal = ratingTotal
	service.RatingAverage = ratingAverage
	f.services[id] = service
	return nil
}

func (f *fakeServiceRepo) filter(keep func(entity.Service) bool) []*entity.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Service
	for _, service := range f.services {
		if keep(service) {
			s := service
			out = append(out, &s)
		}
	}
	return out
}

type fakeProviderRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]entity.BusinessProfile
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{profiles: make(map[uuid.UUID]entity.BusinessProfile)}
}

func (f *fakeProviderRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.BusinessProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (f *fakeProviderRepo) UpsertBusinessHours(_ context.Context, userID uuid.UUID, hours entity.BusinessHours) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile := f.profiles[userID]
	profile.UserID = userID
	profile.BusinessHours = hours
	f.profiles[userID] = profile
	return nil
}

func (f *fakeProviderRepo) SetStripeAccount(_ context.Context, userID uuid.UUID, accountID string, onboardingCompleted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile := f.profiles[userID]
	profile.UserID = userID
	profile.StripeAccountID = &accountID
	profile.StripeOnboardingCompleted = onboardingCompleted
	f.profiles[userID] = profile
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]entity.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[payment.TransactionID]; ok {
		return errors.New("duplicate transaction ID")
	}
	f.payments[payment.TransactionID] = *payment
	return nil
}

func (f *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[transactionID]
	if !ok {
		return nil, nil
	}
	return &payment, nil
}

func (f *fakePaymentRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, payment := range f.payments {
		p := payment
		out = append(out, &p)
	}
	return out, nil
}

func (f *fakePaymentRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.payments)), nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) FindByReceiverID(_ context.Context, receiverID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Notification
	for i := range f.notifications {
		if f.notifications[i].ReceiverID == receiverID {
			n := f.notifications[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountByReceiverID(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	notifications, _ := f.FindByReceiverID(ctx, receiverID, 0, 0)
	return int64(len(notifications)), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, receiverID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].ReceiverID == receiverID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, receiverID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ReceiverID == receiverID {
			f.notifications[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) countFor(receiverID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.notifications {
		if f.notifications[i].ReceiverID == receiverID {
			count++
		}
	}
	return count
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]entity.Review)}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews[review.ID] = *review
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

func (f *fakeReviewRepo) FindByServiceID(_ context.Context, serviceID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Review
	for _, review := range f.reviews {
		if review.ServiceID == serviceID {
			r := review
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) CountByServiceID(ctx context.Context, serviceID uuid.UUID) (int64, error) {
	reviews, _ := f.FindByServiceID(ctx, serviceID, 0, 0)
	return int64(len(reviews)), nil
}

func (f *fakeReviewRepo) AggregateByServiceID(ctx context.Context, serviceID uuid.UUID) (int, float64, error) {
	reviews, _ := f.FindByServiceID(ctx, serviceID, 0, 0)
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return len(reviews), float64(sum) / float64(len(reviews)), nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok {
		return errors.New("review not found")
	}
	delete(f.reviews, id)
	return nil
}

// fakeTxManager runs the function directly; the fakes are already safe
// under concurrent use.
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeGateway records calls and returns configurable results.
type fakeGateway struct {
	mu sync.Mutex

	checkoutURL string
	checkoutErr error
	fee         int64
	feeErr      error
	transferErr error
	refundErr   error

	feeCalls      int
	transferCalls []int64
	refundCalls   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{checkoutURL: "https://checkout.example/session", fee: 59}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params CheckoutParams) (string, error) {
	if g.checkoutErr != nil {
		return "", g.checkoutErr
	}
	return g.checkoutURL, nil
}

func (g *fakeGateway) RetrieveChargeFee(_ context.Context, _ string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeCalls++
	if g.feeErr != nil {
		return 0, g.feeErr
	}
	return g.fee, nil
}

func (g *fakeGateway) TransferFunds(_ context.Context, _ string, amountMinor int64, _ uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.transferErr != nil {
		return "", g.transferErr
	}
	g.transferCalls = append(g.transferCalls, amountMinor)
	return "tr_" + uuid.NewString()[:8], nil
}

func (g *fakeGateway) Refund(_ context.Context, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refundCalls = append(g.refundCalls, transactionID)
	return nil
}

func (g *fakeGateway) transferCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.transferCalls)
}

// testEnv assembles a full service stack over the in-memory fakes.
type testEnv struct {
	repo     *repository.Repository
	bookings *fakeBookingRepo
	services *fakeServiceRepo
	provider *fakeProviderRepo
	payments *fakePaymentRepo
	notifs   *fakeNotificationRepo
	reviews  *fakeReviewRepo
	gateway  *fakeGateway
	svc      *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: newFakeBookingRepo(),
		services: newFakeServiceRepo(),
		provider: newFakeProviderRepo(),
		payments: newFakePaymentRepo(),
		notifs:   newFakeNotificationRepo(),
		reviews:  newFakeReviewRepo(),
		gateway:  newFakeGateway(),
	}
	env.repo = &repository.Repository{
		Booking:      env.bookings,
		Service:      env.services,
		Provider:     env.provider,
		Payment:      env.payments,
		Notification: env.notifs,
		Review:       env.reviews,
	}
	env.svc = NewService(env.repo, env.gateway, fakeTxManager{}, newTestLogger())
	return env
}
