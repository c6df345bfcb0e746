package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rotino/internal/models"
	"rotino/internal/payments"
)

/* =========================
   FAKES
========================= */

type fakeCatalog struct {
	restaurants map[primitive.ObjectID]*models.Restaurant
	menuItems   map[primitive.ObjectID]*models.MenuItem
}

func (f *fakeCatalog) Restaurant(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	restaurant, ok := f.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *restaurant
	return &clone, nil
}

func (f *fakeCatalog) MenuItem(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	item, ok := f.menuItems[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *item
	return &clone, nil
}

// fakeStore mimics the mongo repository: reads hand out copies and every
// mutation checks the same status guards the conditional updates use.
type fakeStore struct {
	docs    map[primitive.ObjectID]*models.Order
	inserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	clone := *order
	clone.ID = id
	f.docs[id] = &clone
	f.inserts++
	return id, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *doc
	clone.OrderTracking = append([]models.TrackingEntry(nil), doc.OrderTracking...)
	return &clone, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, user primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error) {
	var result []models.Order
	for _, doc := range f.docs {
		if doc.User != user {
			continue
		}
		if status != "" && doc.Status != status {
			continue
		}
		result = append(result, *doc)
	}
	return result, int64(len(result)), nil
}

func (f *fakeStore) SetProviderOrder(ctx context.Context, id primitive.ObjectID, providerOrderID string) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.Status != models.StatusPendingPayment {
		return false, nil
	}
	doc.PaymentInfo.RazorpayOrderID = providerOrderID
	return true, nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentID, signature string, paidAt time.Time, entry models.TrackingEntry) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.Status != models.StatusPendingPayment {
		return false, nil
	}
	doc.Status = models.StatusConfirmed
	doc.PaymentInfo.RazorpayPaymentID = paymentID
	doc.PaymentInfo.RazorpaySignature = signature
	doc.PaymentInfo.Status = models.PaymentPaid
	doc.PaymentInfo.PaidAt = &paidAt
	doc.OrderTracking = append(doc.OrderTracking, entry)
	return true, nil
}

func (f *fakeStore) MarkPaymentFailed(ctx context.Context, id primitive.ObjectID, reason string, entry models.TrackingEntry) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.Status != models.StatusPendingPayment {
		return false, nil
	}
	doc.Status = models.StatusPaymentFailed
	doc.PaymentInfo.Status = models.PaymentFailed
	doc.PaymentInfo.FailureReason = reason
	doc.OrderTracking = append(doc.OrderTracking, entry)
	return true, nil
}

func (f *fakeStore) Cancel(ctx context.Context, id primitive.ObjectID, refund *models.Refund, entry models.TrackingEntry) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || !models.Cancellable(doc.Status) {
		return false, nil
	}
	doc.Status = models.StatusCancelled
	doc.Refund = refund
	doc.OrderTracking = append(doc.OrderTracking, entry)
	return true, nil
}

func (f *fakeStore) SetRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.Status != models.StatusDelivered || doc.Rating != nil {
		return false, nil
	}
	doc.Rating = &rating
	return true, nil
}

func (f *fakeStore) AdvanceStatus(ctx context.Context, id primitive.ObjectID, from, to string, deliveredAt *time.Time, entry models.TrackingEntry) (bool, error) {
	doc, ok := f.docs[id]
	if !ok || doc.Status != from {
		return false, nil
	}
	doc.Status = to
	if deliveredAt != nil {
		doc.ActualDeliveryTime = deliveredAt
	}
	doc.OrderTracking = append(doc.OrderTracking, entry)
	return true, nil
}

type fakeGateway struct {
	calls int
	fail  bool
}

func (f *fakeGateway) CreateOrder(ctx context.Context, params payments.CreateOrderParams) (payments.ProviderOrder, error) {
	f.calls++
	if f.fail {
		return payments.ProviderOrder{}, errors.New("connection refused")
	}
	return payments.ProviderOrder{
		ID:       "order_test_1",
		Amount:   params.Amount,
		Currency: params.Currency,
		Receipt:  params.Receipt,
		Status:   "created",
	}, nil
}

/* =========================
   FIXTURE
========================= */

type fixture struct {
	svc        *Service
	store      *fakeStore
	gateway    *fakeGateway
	signer     *payments.Signer
	user       primitive.ObjectID
	restaurant primitive.ObjectID
	itemA      primitive.ObjectID
	itemB      primitive.ObjectID
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	restaurantID := primitive.NewObjectID()
	itemA := primitive.NewObjectID()
	itemB := primitive.NewObjectID()

	catalog := &fakeCatalog{
		restaurants: map[primitive.ObjectID]*models.Restaurant{
			restaurantID: {
				ID:           restaurantID,
				Name:         "Spice Garden",
				DeliveryFee:  4000,
				MinimumOrder: 20000,
				IsActive:     true,
				IsApproved:   true,
			},
		},
		menuItems: map[primitive.ObjectID]*models.MenuItem{
			itemA: {ID: itemA, Name: "Paneer Tikka", Restaurant: restaurantID, Price: 35000, IsAvailable: true},
			itemB: {ID: itemB, Name: "Garlic Naan", Restaurant: restaurantID, Price: 15000, IsAvailable: true},
		},
	}

	store := newFakeStore()
	gateway := &fakeGateway{}
	signer := payments.NewSigner("test_secret")

	svc := NewService(store, catalog, gateway, signer, Options{
		Currency:      "INR",
		ReceiptPrefix: "rotino_order_",
	})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:        svc,
		store:      store,
		gateway:    gateway,
		signer:     signer,
		user:       primitive.NewObjectID(),
		restaurant: restaurantID,
		itemA:      itemA,
		itemB:      itemB,
		now:        now,
	}
}

func (f *fixture) cartInput() CreateOrderInput {
	return CreateOrderInput{
		Restaurant: f.restaurant,
		Items: []CreateOrderItem{
			{MenuItem: f.itemA, Quantity: 1},
			{MenuItem: f.itemB, Quantity: 1},
		},
		DeliveryAddress: models.DeliveryAddress{
			Street: "12 MG Road", City: "Delhi", State: "Delhi", Pincode: "110001",
		},
		ContactInfo: models.ContactInfo{Phone: "9876543210", Name: "Asha"},
	}
}

func (f *fixture) createOrder(t *testing.T) *models.Order {
	t.Helper()
	order, _, err := f.svc.Create(context.Background(), f.user, f.cartInput())
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func (f *fixture) createPaidOrder(t *testing.T) *models.Order {
	t.Helper()
	order := f.createOrder(t)
	if _, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user); err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	signature := f.signer.Sign("order_test_1", "pay_test_1")
	order, err := f.svc.VerifyPayment(context.Background(), order.ID, f.user, "order_test_1", "pay_test_1", signature)
	if err != nil {
		t.Fatalf("verify payment failed: %v", err)
	}
	return order
}

func (f *fixture) stored(t *testing.T, id primitive.ObjectID) *models.Order {
	t.Helper()
	doc, ok := f.store.docs[id]
	if !ok {
		t.Fatalf("order %s not in store", id.Hex())
	}
	return doc
}

/* =========================
   CREATE
========================= */

func TestCreateOrderPricesAndTracks(t *testing.T) {
	f := newFixture(t)

	order, restaurant, err := f.svc.Create(context.Background(), f.user, f.cartInput())
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if order.OrderSummary.Subtotal != 50000 {
		t.Fatalf("subtotal = %d, want 50000", order.OrderSummary.Subtotal)
	}
	if order.OrderSummary.Taxes != 2500 {
		t.Fatalf("taxes = %d, want 2500", order.OrderSummary.Taxes)
	}
	if order.OrderSummary.Total != 56500 {
		t.Fatalf("total = %d, want 56500", order.OrderSummary.Total)
	}
	if order.Status != models.StatusPendingPayment {
		t.Fatalf("status = %s, want pending_payment", order.Status)
	}
	if len(order.OrderTracking) != 1 {
		t.Fatalf("tracking entries = %d, want 1", len(order.OrderTracking))
	}
	if order.OrderTracking[0].Status != models.StatusPendingPayment {
		t.Fatalf("tracking status = %s", order.OrderTracking[0].Status)
	}
	if want := f.now.Add(35 * time.Minute); !order.EstimatedDeliveryTime.Equal(want) {
		t.Fatalf("eta = %v, want %v", order.EstimatedDeliveryTime, want)
	}
	if restaurant.Name != "Spice Garden" {
		t.Fatalf("restaurant not populated: %+v", restaurant)
	}
}

func TestCreateOrderSnapshotsCatalogPrices(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	if order.Items[0].Name != "Paneer Tikka" || order.Items[0].Price != 35000 {
		t.Fatalf("item snapshot wrong: %+v", order.Items[0])
	}
	if order.Items[0].ItemTotal != 35000 {
		t.Fatalf("itemTotal = %d, want 35000", order.Items[0].ItemTotal)
	}
}

func TestCreateOrderWithCustomizations(t *testing.T) {
	f := newFixture(t)

	input := f.cartInput()
	input.Items = []CreateOrderItem{{
		MenuItem: f.itemA,
		Quantity: 2,
		Customizations: []models.Customization{{
			Name: "Extras",
			SelectedOptions: []models.SelectedOption{
				{Name: "Extra Paneer", Price: 3000},
			},
		}},
	}}

	order, _, err := f.svc.Create(context.Background(), f.user, input)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// (35000 + 3000) * 2
	if order.Items[0].ItemTotal != 76000 {
		t.Fatalf("itemTotal = %d, want 76000", order.Items[0].ItemTotal)
	}
}

func TestCreateOrderBelowMinimum(t *testing.T) {
	f := newFixture(t)

	input := f.cartInput()
	input.Items = []CreateOrderItem{{MenuItem: f.itemB, Quantity: 1}} // 15000 < 20000

	_, _, err := f.svc.Create(context.Background(), f.user, input)
	var belowMin BelowMinimumOrderError
	if !errors.As(err, &belowMin) {
		t.Fatalf("expected BelowMinimumOrderError, got %v", err)
	}
	if belowMin.MinimumOrder != 20000 || belowMin.Subtotal != 15000 {
		t.Fatalf("unexpected detail: %+v", belowMin)
	}
	if f.store.inserts != 0 {
		t.Fatal("order was persisted despite failing validation")
	}
}

func TestCreateOrderUnknownItem(t *testing.T) {
	f := newFixture(t)

	input := f.cartInput()
	input.Items = append(input.Items, CreateOrderItem{MenuItem: primitive.NewObjectID(), Quantity: 1})

	_, _, err := f.svc.Create(context.Background(), f.user, input)
	var invalid InvalidItemError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidItemError, got %v", err)
	}
	if f.store.inserts != 0 {
		t.Fatal("order was persisted despite invalid item")
	}
}

func TestCreateOrderUnavailableItem(t *testing.T) {
	f := newFixture(t)

	unavailable := primitive.NewObjectID()
	catalog := f.svc.catalog.(*fakeCatalog)
	catalog.menuItems[unavailable] = &models.MenuItem{
		ID: unavailable, Name: "Seasonal Special", Restaurant: f.restaurant, Price: 30000, IsAvailable: false,
	}

	input := f.cartInput()
	input.Items = []CreateOrderItem{{MenuItem: unavailable, Quantity: 1}}

	_, _, err := f.svc.Create(context.Background(), f.user, input)
	var invalid InvalidItemError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidItemError, got %v", err)
	}
}

func TestCreateOrderRestaurantMismatch(t *testing.T) {
	f := newFixture(t)

	foreign := primitive.NewObjectID()
	catalog := f.svc.catalog.(*fakeCatalog)
	catalog.menuItems[foreign] = &models.MenuItem{
		ID: foreign, Name: "Foreign Dish", Restaurant: primitive.NewObjectID(), Price: 30000, IsAvailable: true,
	}

	input := f.cartInput()
	input.Items = []CreateOrderItem{{MenuItem: foreign, Quantity: 1}}

	_, _, err := f.svc.Create(context.Background(), f.user, input)
	var mismatch ItemRestaurantMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ItemRestaurantMismatchError, got %v", err)
	}
}

func TestCreateOrderInactiveRestaurant(t *testing.T) {
	f := newFixture(t)

	catalog := f.svc.catalog.(*fakeCatalog)
	catalog.restaurants[f.restaurant].IsActive = false

	_, _, err := f.svc.Create(context.Background(), f.user, f.cartInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive restaurant, got %v", err)
	}
}

/* =========================
   PAYMENT
========================= */

func TestInitiateThenVerifyPayment(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	providerOrder, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	if providerOrder.Amount != 56500 {
		t.Fatalf("provider order amount = %d, want 56500", providerOrder.Amount)
	}

	signature := f.signer.Sign(providerOrder.ID, "pay_test_1")
	confirmed, err := f.svc.VerifyPayment(context.Background(), order.ID, f.user, providerOrder.ID, "pay_test_1", signature)
	if err != nil {
		t.Fatalf("verify payment failed: %v", err)
	}

	if confirmed.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}
	if confirmed.PaymentInfo.Status != models.PaymentPaid {
		t.Fatalf("payment status = %s, want paid", confirmed.PaymentInfo.Status)
	}
	if confirmed.PaymentInfo.PaidAt == nil {
		t.Fatal("paidAt not set")
	}

	stored := f.stored(t, order.ID)
	if len(stored.OrderTracking) != 2 {
		t.Fatalf("tracking entries = %d, want 2", len(stored.OrderTracking))
	}
	if stored.OrderTracking[1].Status != models.StatusConfirmed {
		t.Fatalf("second tracking status = %s", stored.OrderTracking[1].Status)
	}
}

func TestInitiatePaymentReusesPendingProviderOrder(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	first, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("first initiate failed: %v", err)
	}
	second, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("second initiate failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("provider order not reused: %q vs %q", first.ID, second.ID)
	}
	if f.gateway.calls != 1 {
		t.Fatalf("gateway called %d times, want 1", f.gateway.calls)
	}
}

func TestInitiatePaymentWrongState(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	_, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestInitiatePaymentGatewayDown(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	f.gateway.fail = true

	_, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}

	stored := f.stored(t, order.ID)
	if stored.Status != models.StatusPendingPayment || stored.PaymentInfo.RazorpayOrderID != "" {
		t.Fatalf("order mutated on gateway failure: %+v", stored.PaymentInfo)
	}
}

func TestVerifyPaymentMismatchedProviderOrder(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	if _, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user); err != nil {
		t.Fatal(err)
	}

	signature := f.signer.Sign("order_other", "pay_test_1")
	_, err := f.svc.VerifyPayment(context.Background(), order.ID, f.user, "order_other", "pay_test_1", signature)
	if !errors.Is(err, ErrMismatchedOrder) {
		t.Fatalf("expected ErrMismatchedOrder, got %v", err)
	}

	stored := f.stored(t, order.ID)
	if stored.Status != models.StatusPendingPayment {
		t.Fatalf("status changed on mismatched provider order: %s", stored.Status)
	}
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	if _, _, err := f.svc.InitiatePayment(context.Background(), order.ID, f.user); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.VerifyPayment(context.Background(), order.ID, f.user, "order_test_1", "pay_test_1", "forged")
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	stored := f.stored(t, order.ID)
	if stored.Status != models.StatusPaymentFailed {
		t.Fatalf("status = %s, want payment_failed", stored.Status)
	}
	if stored.PaymentInfo.Status != models.PaymentFailed || stored.PaymentInfo.FailureReason != "Invalid signature" {
		t.Fatalf("payment info not failed: %+v", stored.PaymentInfo)
	}
}

func TestVerifyPaymentBeforeInitiate(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	signature := f.signer.Sign("order_test_1", "pay_test_1")
	_, err := f.svc.VerifyPayment(context.Background(), order.ID, f.user, "order_test_1", "pay_test_1", signature)
	if !errors.Is(err, ErrMismatchedOrder) {
		t.Fatalf("expected ErrMismatchedOrder without a stored provider order, got %v", err)
	}
}

func TestRecordPaymentFailure(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	failed, err := f.svc.RecordPaymentFailure(context.Background(), order.ID, f.user, "widget dismissed")
	if err != nil {
		t.Fatalf("record failure returned error: %v", err)
	}
	if failed.Status != models.StatusPaymentFailed {
		t.Fatalf("status = %s, want payment_failed", failed.Status)
	}

	stored := f.stored(t, order.ID)
	if stored.PaymentInfo.FailureReason != "widget dismissed" {
		t.Fatalf("failure reason = %q", stored.PaymentInfo.FailureReason)
	}
	if len(stored.OrderTracking) != 2 {
		t.Fatalf("tracking entries = %d, want 2", len(stored.OrderTracking))
	}
}

/* =========================
   CANCEL / RATE
========================= */

func TestCancelPaidOrderRequestsRefund(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	cancelled, err := f.svc.Cancel(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if cancelled.Refund == nil {
		t.Fatal("refund request missing on paid cancellation")
	}
	if cancelled.Refund.Status != models.RefundRequested {
		t.Fatalf("refund status = %s, want requested", cancelled.Refund.Status)
	}
	if cancelled.Refund.Amount != 56500 {
		t.Fatalf("refund amount = %d, want 56500", cancelled.Refund.Amount)
	}
}

func TestCancelUnpaidOrderHasNoRefund(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	cancelled, err := f.svc.Cancel(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Refund != nil {
		t.Fatalf("unexpected refund on unpaid cancellation: %+v", cancelled.Refund)
	}
}

func TestCancelAfterPickupRejected(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	for _, status := range []string{models.StatusPreparing, models.StatusReadyForPickup} {
		if _, err := f.svc.Advance(context.Background(), order.ID, status, ""); err != nil {
			t.Fatalf("advance to %s failed: %v", status, err)
		}
	}

	_, err := f.svc.Cancel(context.Background(), order.ID, f.user)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if f.stored(t, order.ID).Status != models.StatusReadyForPickup {
		t.Fatal("status changed by rejected cancel")
	}
}

func deliverOrder(t *testing.T, f *fixture, id primitive.ObjectID) {
	t.Helper()
	for _, status := range []string{
		models.StatusPreparing,
		models.StatusReadyForPickup,
		models.StatusOutForDelivery,
		models.StatusDelivered,
	} {
		if _, err := f.svc.Advance(context.Background(), id, status, ""); err != nil {
			t.Fatalf("advance to %s failed: %v", status, err)
		}
	}
}

func TestRateDeliveredOrderOnce(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)
	deliverOrder(t, f, order.ID)

	rating, err := f.svc.Rate(context.Background(), order.ID, f.user, RateInput{Food: 5, Delivery: 4, Overall: 5, Review: "great"})
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if rating.Food != 5 || rating.Overall != 5 {
		t.Fatalf("rating not stored: %+v", rating)
	}

	_, err = f.svc.Rate(context.Background(), order.ID, f.user, RateInput{Food: 1, Delivery: 1, Overall: 1})
	if !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("expected ErrAlreadyRated on second rating, got %v", err)
	}

	stored := f.stored(t, order.ID)
	if stored.Rating.Food != 5 || stored.Rating.Review != "great" {
		t.Fatalf("first rating overwritten: %+v", stored.Rating)
	}
}

func TestRateUndeliveredOrderRejected(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)
	if _, err := f.svc.Advance(context.Background(), order.ID, models.StatusPreparing, ""); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.Rate(context.Background(), order.ID, f.user, RateInput{Food: 5, Delivery: 5, Overall: 5})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if f.stored(t, order.ID).Rating != nil {
		t.Fatal("rating set on undelivered order")
	}
}

/* =========================
   ADVANCE / TRACKING
========================= */

func TestAdvanceFullDeliveryFlow(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)
	deliverOrder(t, f, order.ID)

	stored := f.stored(t, order.ID)
	if stored.Status != models.StatusDelivered {
		t.Fatalf("status = %s, want delivered", stored.Status)
	}
	if stored.ActualDeliveryTime == nil {
		t.Fatal("actualDeliveryTime not set on delivery")
	}
	// created + confirmed + 4 stage advances
	if len(stored.OrderTracking) != 6 {
		t.Fatalf("tracking entries = %d, want 6", len(stored.OrderTracking))
	}
	for i := 1; i < len(stored.OrderTracking); i++ {
		if stored.OrderTracking[i].Timestamp.Before(stored.OrderTracking[i-1].Timestamp) {
			t.Fatal("tracking timeline not monotonic")
		}
	}
}

func TestAdvanceSkippingStageRejected(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	_, err := f.svc.Advance(context.Background(), order.ID, models.StatusOutForDelivery, "")
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for skipped stage, got %v", err)
	}
}

func TestAdvanceCannotCancel(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	if _, err := f.svc.Advance(context.Background(), order.ID, models.StatusCancelled, ""); err == nil {
		t.Fatal("advance accepted cancelled")
	}
}

func TestTrackingProjection(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)

	tracking, err := f.svc.Tracking(context.Background(), order.ID, f.user)
	if err != nil {
		t.Fatalf("tracking failed: %v", err)
	}
	if tracking.CurrentStatus != models.StatusConfirmed {
		t.Fatalf("current status = %s, want confirmed", tracking.CurrentStatus)
	}
	if len(tracking.Timeline) != 2 {
		t.Fatalf("timeline entries = %d, want 2", len(tracking.Timeline))
	}
}

/* =========================
   OWNERSHIP
========================= */

func TestOwnershipEnforcedEverywhere(t *testing.T) {
	f := newFixture(t)
	order := f.createPaidOrder(t)
	stranger := primitive.NewObjectID()

	ctx := context.Background()
	checks := map[string]error{}

	_, err := f.svc.Get(ctx, order.ID, stranger)
	checks["get"] = err
	_, err = f.svc.Tracking(ctx, order.ID, stranger)
	checks["tracking"] = err
	_, err = f.svc.Cancel(ctx, order.ID, stranger)
	checks["cancel"] = err
	_, err = f.svc.Rate(ctx, order.ID, stranger, RateInput{Food: 5, Delivery: 5, Overall: 5})
	checks["rate"] = err
	_, _, err = f.svc.InitiatePayment(ctx, order.ID, stranger)
	checks["initiate"] = err
	_, err = f.svc.VerifyPayment(ctx, order.ID, stranger, "order_test_1", "pay_test_1", "sig")
	checks["verify"] = err
	_, err = f.svc.RecordPaymentFailure(ctx, order.ID, stranger, "x")
	checks["failure"] = err
	_, err = f.svc.PaymentStatus(ctx, order.ID, stranger)
	checks["status"] = err

	for op, err := range checks {
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", op, err)
		}
	}

	if f.stored(t, order.ID).Status != models.StatusConfirmed {
		t.Fatal("order mutated by non-owner")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	f.createOrder(t)
	paid := f.createPaidOrder(t)

	confirmed, total, err := f.svc.List(context.Background(), f.user, models.StatusConfirmed, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(confirmed) != 1 || confirmed[0].ID != paid.ID {
		t.Fatalf("status filter wrong: total=%d len=%d", total, len(confirmed))
	}

	if _, _, err := f.svc.List(context.Background(), f.user, "shipped", 1, 10); err == nil {
		t.Fatal("unknown status filter accepted")
	}
}
