package cart

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed-Mansy/shoe-zone-online/internal/domain"
	"github.com/Ahmed-Mansy/shoe-zone-online/internal/session"
	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// --- Mock API ---

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

func (m *mockAPI) AddToCart(ctx context.Context, token string, productID, quantity int) error {
	args := m.Called(ctx, token, productID, quantity)
	return args.Error(0)
}

func (m *mockAPI) UpdateCartItem(ctx context.Context, token string, itemID, quantity int) error {
	args := m.Called(ctx, token, itemID, quantity)
	return args.Error(0)
}

func (m *mockAPI) RemoveCartItem(ctx context.Context, token string, itemID int) error {
	args := m.Called(ctx, token, itemID)
	return args.Error(0)
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(api *mockAPI) *Service {
	return NewService(api, NewMemoryStore(), newTestLogger())
}

func testSession() *session.Session {
	return &session.Session{ID: "sess-1", UserID: "41", AccessToken: "tok"}
}

func cartView() *domain.CartView {
	img := "https://img.example.com/runner.jpg"
	return &domain.CartView{
		Items: []domain.CartLine{
			{ID: 3, ProductID: 7, ProductName: "Runner", ProductPrice: 100, Quantity: 2, StockQuantity: 9, Total: 200, ProductImage: &img},
			{ID: 4, ProductID: 9, ProductName: "Loafer", ProductPrice: 50, Quantity: 1, StockQuantity: 2, Total: 50},
		},
		TotalPrice: 250,
	}
}

// --- Tests ---

func TestRefresh_BuildsMirrorFromUpstream(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("ViewCart", mock.Anything, "tok").Return(cartView(), nil)

	m, err := svc.Refresh(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count, "the badge counts lines, not units")
	assert.Equal(t, 250.0, m.Total)
	require.Len(t, m.Items, 2)
	assert.Equal(t, "Runner", m.Items[0].ProductName)
	assert.Equal(t, 200.0, m.Items[0].LineTotal())
	assert.Equal(t, "https://img.example.com/runner.jpg", m.Items[0].ImageURL)

	// The snapshot is persisted for later Mirror reads.
	stored, err := svc.Mirror(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Count)
}

func TestRefresh_TotalComputedFromLines(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	// A view whose total field disagrees with its lines: the lines win.
	view := cartView()
	view.TotalPrice = 999

	api.On("ViewCart", mock.Anything, "tok").Return(view, nil)

	m, err := svc.Refresh(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, 250.0, m.Total)
}

func TestRefresh_SingleLineWithQuantityCountsOnce(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	view := &domain.CartView{
		Items: []domain.CartLine{
			{ID: 3, ProductID: 7, ProductName: "Runner", ProductPrice: 100, Quantity: 2, StockQuantity: 9, Total: 200},
		},
		TotalPrice: 200,
	}
	api.On("ViewCart", mock.Anything, "tok").Return(view, nil)

	m, err := svc.Refresh(context.Background(), testSession())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count)
}

func TestRefresh_FailureDegradesToEmptyMirror(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("ViewCart", mock.Anything, "tok").
		Return(nil, apperrors.Network(errors.New("dial tcp: refused")))

	m, err := svc.Refresh(context.Background(), testSession())
	require.NoError(t, err, "a fetch failure must not break the page")
	assert.True(t, m.Empty())
	assert.Zero(t, m.Count)
}

func TestRefresh_SessionExpiredPropagates(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("ViewCart", mock.Anything, "tok").Return(nil, apperrors.SessionExpired(""))

	_, err := svc.Refresh(context.Background(), testSession())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))
}

func TestMirror_MissingSnapshotIsEmpty(t *testing.T) {
	svc := newTestService(new(mockAPI))

	m, err := svc.Mirror(context.Background(), "unknown")
	require.NoError(t, err)
	assert.True(t, m.Empty())
}

func TestAdd_MutatesUpstreamThenRefreshes(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("AddToCart", mock.Anything, "tok", 7, 2).Return(nil)
	api.On("ViewCart", mock.Anything, "tok").Return(cartView(), nil)

	m, err := svc.Add(context.Background(), testSession(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count)
	api.AssertExpectations(t)
}

func TestAdd_StockRejectionSurfacesVerbatim(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("AddToCart", mock.Anything, "tok", 7, 10).
		Return(apperrors.ServerRejected(400, "Only 3 items available in stock"))

	_, err := svc.Add(context.Background(), testSession(), 7, 10)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Only 3 items available in stock", appErr.Message)
	api.AssertNotCalled(t, "ViewCart")
}

func TestAdd_ValidatesInput(t *testing.T) {
	svc := newTestService(new(mockAPI))

	_, err := svc.Add(context.Background(), testSession(), 0, 1)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Add(context.Background(), testSession(), 7, 0)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("UpdateCartItem", mock.Anything, "tok", 3, 0).Return(nil)
	api.On("ViewCart", mock.Anything, "tok").
		Return(&domain.CartView{Message: "Your cart is empty!"}, nil)

	m, err := svc.UpdateQuantity(context.Background(), testSession(), 3, 0)
	require.NoError(t, err)
	assert.True(t, m.Empty())
}

func TestRemove_MutatesUpstreamThenRefreshes(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("RemoveCartItem", mock.Anything, "tok", 4).Return(nil)
	api.On("ViewCart", mock.Anything, "tok").Return(cartView(), nil)

	m, err := svc.Remove(context.Background(), testSession(), 4)
	require.NoError(t, err)
	assert.Equal(t, 250.0, m.Total)
	api.AssertExpectations(t)
}

func TestForget_DropsStoredMirror(t *testing.T) {
	api := new(mockAPI)
	svc := newTestService(api)

	api.On("ViewCart", mock.Anything, "tok").Return(cartView(), nil)
	_, err := svc.Refresh(context.Background(), testSession())
	require.NoError(t, err)

	svc.Forget(context.Background(), "sess-1")

	m, err := svc.Mirror(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, m.Empty())
}
