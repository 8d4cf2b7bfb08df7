package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/checkout/provider"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/event"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/upstream"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ViewCart(ctx context.Context, token string) (*domain.CartView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartView), args.Error(1)
}

func (m *mockAPI) CreateOrder(ctx context.Context, token string, req upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.CreateOrderResponse), args.Error(1)
}

func (m *mockAPI) ConfirmPayment(ctx context.Context, token string, orderID int, paymentIntentID string) error {
	args := m.Called(ctx, token, orderID, paymentIntentID)
	return args.Error(0)
}

func (m *mockAPI) ClearCart(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockAPI) RemoveCartItem(ctx context.Context, token string, itemID int) error {
	args := m.Called(ctx, token, itemID)
	return args.Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) ConfirmPayment(ctx context.Context, in *provider.ConfirmInput) (*provider.ConfirmResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ConfirmResult), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession(t *testing.T, store session.Store) *session.Session {
	t.Helper()
	sess := &session.Session{
		ID:          "sess-001",
		UserID:      "41",
		Email:       "jill@example.com",
		Role:        session.RoleUser,
		AccessToken: "token-abc",
	}
	require.NoError(t, store.Set(context.Background(), sess))
	return sess
}

func twoLineCart() *domain.CartView {
	img := "/media/products/7.jpg"
	return &domain.CartView{
		Items: []domain.CartLine{
			{ID: 11, ProductID: 7, ProductName: "Trail Runner", ProductPrice: 100, Quantity: 2, StockQuantity: 9, Total: 200, ProductImage: &img},
			{ID: 12, ProductID: 3, ProductName: "Canvas Low", ProductPrice: 45.5, Quantity: 1, StockQuantity: 4, Total: 45.5},
		},
		TotalPrice: 245.5,
	}
}

func validDraft(method string) Draft {
	return Draft{
		FirstName: "Jill",
		LastName:  "Doe",
		Email:     "jill@example.com",
		Address:   "12 High St",
		City:      "Cairo",
		ZipCode:   "11511",
		Country:   "Egypt",
		Method:    method,
	}
}

func newTestService(api *mockAPI, prov *mockProvider, store session.Store) *Service {
	var p provider.Provider
	if prov != nil {
		p = prov
	}
	return NewService(api, p, store, nil, event.NewProducer(nil, testLogger()), testLogger(), 2*time.Second)
}

func TestBeginFreezesCartSnapshot(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, StateReady, attempt.State)
	assert.Equal(t, []State{StateLoading, StateReady}, attempt.Transitions)
	require.Len(t, attempt.Items, 2)
	assert.Equal(t, 245.5, attempt.Total)
	assert.Equal(t, 7, attempt.Items[0].ProductID)
	assert.NotEmpty(t, attempt.ID)
}

func TestBeginEmptyCartOffersShopNow(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").
		Return(&domain.CartView{Message: "Your cart is empty!"}, nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, StateReady, attempt.State)
	assert.True(t, attempt.Empty())
	assert.Equal(t, "/products", attempt.RedirectTo)
}

func TestBeginCartFetchFailureIsCartError(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").
		Return(nil, apperrors.Network(assert.AnError))

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, StateCartError, attempt.State)
	assert.NotEmpty(t, attempt.FailureReason)
}

func TestBeginExpiredSessionClearsSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").
		Return(nil, apperrors.SessionExpired("session expired"))

	svc := newTestService(api, nil, store)
	_, err := svc.Begin(context.Background(), sess)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))

	_, err = store.Get(context.Background(), sess.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{
			Order:   domain.Order{ID: 501, Status: domain.OrderStatusPending},
			Message: "Order created with Cash on Delivery.",
		}, nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, "token-abc", 11).Return(nil)
	api.On("RemoveCartItem", mock.Anything, "token-abc", 12).Return(nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, attempt.State)
	assert.Equal(t, 501, attempt.OrderID)
	assert.Equal(t, "/orders", attempt.RedirectTo)
	assert.Equal(t, 2*time.Second, attempt.RedirectAfter)
	assert.Equal(t, []State{StateLoading, StateReady, StateSubmitting, StateSuccess}, attempt.Transitions)

	// Each cart line is deleted exactly once after the order lands.
	api.AssertNumberOfCalls(t, "RemoveCartItem", 2)
	api.AssertCalled(t, "RemoveCartItem", mock.Anything, "token-abc", 11)
	api.AssertCalled(t, "RemoveCartItem", mock.Anything, "token-abc", 12)
	api.AssertNumberOfCalls(t, "ClearCart", 1)
	api.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderSubmitsFrozenTotals(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	view := &domain.CartView{
		Items: []domain.CartLine{
			{ID: 21, ProductID: 7, ProductName: "Trail Runner", ProductPrice: 100, Quantity: 2, StockQuantity: 9, Total: 200},
		},
		TotalPrice: 200,
	}

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(view, nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.MatchedBy(func(req upstream.CreateOrderRequest) bool {
		return req.TotalAmount == 200 &&
			len(req.Items) == 1 &&
			req.Items[0].ProductID == 7 &&
			req.Items[0].Quantity == 2 &&
			req.PaymentStatus == "cod"
	})).Return(&upstream.CreateOrderResponse{Order: domain.Order{ID: 502}}, nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, "token-abc", 21).Return(nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	// The upstream cart mutating after Begin must not change what is ordered.
	view.Items[0].Quantity = 5
	view.TotalPrice = 500

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, attempt.State)
	api.AssertExpectations(t)
}

func TestPlaceOrderFlattensShippingAddress(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.MatchedBy(func(req upstream.CreateOrderRequest) bool {
		return req.ShippingAddress == "12 High St, Apt 4, Cairo, 11511, Egypt"
	})).Return(&upstream.CreateOrderResponse{Order: domain.Order{ID: 503}}, nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	draft := validDraft(MethodCashOnDelivery)
	draft.Apartment = "Apt 4"

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), sess, attempt, draft, nil)
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestPlaceOrderCardSuccess(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{
			Order:           domain.Order{ID: 504},
			ClientSecret:    "pi_504_secret_xyz",
			PaymentIntentID: "pi_504",
		}, nil)
	api.On("ConfirmPayment", mock.Anything, "token-abc", 504, "pi_504").Return(nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	prov := &mockProvider{}
	prov.On("ConfirmPayment", mock.Anything, mock.MatchedBy(func(in *provider.ConfirmInput) bool {
		return in.PaymentIntentID == "pi_504" && in.ClientSecret == "pi_504_secret_xyz"
	})).Return(&provider.ConfirmResult{PaymentIntentID: "pi_504", Status: "succeeded"}, nil)

	card := &provider.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2028, CVC: "123", Holder: "Jill Doe"}

	svc := newTestService(api, prov, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), card)
	require.NoError(t, err)

	assert.Equal(t, StateSuccess, attempt.State)
	assert.Equal(t, "pi_504", attempt.PaymentIntentID)
	assert.Equal(t, []State{
		StateLoading, StateReady, StateSubmitting,
		StateAwaitingPayment, StateConfirming, StateSuccess,
	}, attempt.Transitions)
	api.AssertNumberOfCalls(t, "ConfirmPayment", 1)
	api.AssertNumberOfCalls(t, "RemoveCartItem", 2)
}

func TestPlaceOrderCardDeclinedSkipsServerConfirm(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{
			Order:           domain.Order{ID: 505},
			ClientSecret:    "pi_505_secret_xyz",
			PaymentIntentID: "pi_505",
		}, nil)

	prov := &mockProvider{}
	prov.On("ConfirmPayment", mock.Anything, mock.Anything).
		Return(&provider.ConfirmResult{PaymentIntentID: "pi_505", Status: "failed", FailureReason: "card declined"}, nil)

	card := &provider.Card{Number: "4000000000000002", ExpMonth: 12, ExpYear: 2028, CVC: "123", Holder: "Jill Doe"}

	svc := newTestService(api, prov, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), card)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPaymentFailed, apperrors.KindOf(err))

	assert.Equal(t, StateFailed, attempt.State)
	assert.Equal(t, "card declined", attempt.FailureReason)

	// A declined payment must never be reported upstream and must not
	// touch the cart.
	api.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "RemoveCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderCardRetryAfterFailure(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{
			Order:           domain.Order{ID: 506},
			ClientSecret:    "pi_506_secret_xyz",
			PaymentIntentID: "pi_506",
		}, nil)
	api.On("ConfirmPayment", mock.Anything, "token-abc", 506, "pi_506").Return(nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	prov := &mockProvider{}
	prov.On("ConfirmPayment", mock.Anything, mock.Anything).
		Return(&provider.ConfirmResult{Status: "failed", FailureReason: "card declined"}, nil).Once()
	prov.On("ConfirmPayment", mock.Anything, mock.Anything).
		Return(&provider.ConfirmResult{PaymentIntentID: "pi_506", Status: "succeeded"}, nil).Once()

	card := &provider.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2028, CVC: "123", Holder: "Jill Doe"}

	svc := newTestService(api, prov, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), card)
	require.Error(t, err)
	require.Equal(t, StateFailed, attempt.State)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), card)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, attempt.State)
}

func TestPlaceOrderMissingClientSecretFails(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{Order: domain.Order{ID: 507}}, nil)

	prov := &mockProvider{}
	card := &provider.Card{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2028, CVC: "123", Holder: "Jill Doe"}

	svc := newTestService(api, prov, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), card)
	require.Error(t, err)
	assert.Equal(t, StateFailed, attempt.State)
	prov.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").
		Return(&domain.CartView{Message: "Your cart is empty!"}, nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderInvalidDraftRejected(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	draft := validDraft(MethodCashOnDelivery)
	draft.Email = "not-an-email"

	_, err = svc.PlaceOrder(context.Background(), sess, attempt, draft, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderCardWithoutCardDetails(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCard), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderSessionExpiredClearsSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(nil, apperrors.SessionExpired("session expired"))

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))

	_, err = store.Get(context.Background(), sess.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestClearCartFailureDoesNotUndoOrder(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Return(&upstream.CreateOrderResponse{Order: domain.Order{ID: 508}}, nil)
	api.On("ClearCart", mock.Anything, "token-abc").Return(apperrors.Network(assert.AnError))
	api.On("RemoveCartItem", mock.Anything, "token-abc", 11).Return(apperrors.Network(assert.AnError))
	api.On("RemoveCartItem", mock.Anything, "token-abc", 12).Return(nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	attempt, err = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, attempt.State)
}

func TestBeginTotalComputedFromFrozenLines(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	// The view's total field disagrees with its lines: the lines win.
	view := twoLineCart()
	view.TotalPrice = 999

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(view, nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 245.5, attempt.Total)
}

func TestPlaceOrderConcurrentDoubleSubmit(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()
	sess := testSession(t, store)

	api := &mockAPI{}
	api.On("ViewCart", mock.Anything, "token-abc").Return(twoLineCart(), nil)
	api.On("CreateOrder", mock.Anything, "token-abc", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(20 * time.Millisecond) }).
		Return(&upstream.CreateOrderResponse{
			Order:   domain.Order{ID: 501, Status: domain.OrderStatusPending},
			Message: "Order created with Cash on Delivery.",
		}, nil).
		Once()
	api.On("ClearCart", mock.Anything, "token-abc").Return(nil)
	api.On("RemoveCartItem", mock.Anything, "token-abc", 11).Return(nil)
	api.On("RemoveCartItem", mock.Anything, "token-abc", 12).Return(nil)

	svc := newTestService(api, nil, store)
	attempt, err := svc.Begin(context.Background(), sess)
	require.NoError(t, err)

	// A double-click fires two submits against the same attempt. Exactly
	// one of them may create an order.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), sess, attempt, validDraft(MethodCashOnDelivery), nil)
		}(i)
	}
	wg.Wait()

	var placed, rejected int
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		rejected++
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, StateSuccess, attempt.State)
	api.AssertNumberOfCalls(t, "CreateOrder", 1)
}
