package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("email is required"), KindValidation},
		{"session expired", SessionExpired(""), KindSessionExpired},
		{"forbidden", Forbidden("admin only"), KindForbidden},
		{"not found", NotFound("product", "7"), KindNotFound},
		{"server rejected", ServerRejected(http.StatusBadRequest, "only 3 items available in stock"), KindServerRejected},
		{"network", Network(fmt.Errorf("connection refused")), KindNetwork},
		{"payment failed", PaymentFailed("card declined"), KindPaymentFailed},
		{"internal", Internal(fmt.Errorf("boom")), KindInternal},
		{"wrapped validation", Wrap(Validation("bad"), "checkout draft"), KindValidation},
		{"wrapped session expired", fmt.Errorf("place order: %w", SessionExpired("")), KindSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(SessionExpired("")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbidden("nope")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("order", "12")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(PaymentFailed("declined")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Network(fmt.Errorf("timeout"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("plain error")))

	// AppError status is preserved through wrapping via errors.As.
	rejected := ServerRejected(http.StatusConflict, "duplicate order")
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("create order: %w", rejected)))
}

func TestServerRejectedMessageSurfacedVerbatim(t *testing.T) {
	err := ServerRejected(http.StatusBadRequest, "Only 5 items available in stock")
	assert.Contains(t, err.Error(), "Only 5 items available in stock")
	assert.Equal(t, "Only 5 items available in stock", err.Message)
}

func TestNetworkMessageIsGeneric(t *testing.T) {
	err := Network(fmt.Errorf("dial tcp: connection refused"))
	assert.Equal(t, "something went wrong, please try again", err.Message)
	// The underlying cause stays available for logs.
	assert.Contains(t, err.Error(), "connection refused")
}
