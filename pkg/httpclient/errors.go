package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// upstreamErrorBody covers the error body shapes the commerce API returns.
// Depending on the endpoint the message lives under "error", "message", or
// "detail"; the first non-empty field wins.
type upstreamErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (b upstreamErrorBody) text() string {
	switch {
	case b.Error != "":
		return b.Error
	case b.Message != "":
		return b.Message
	default:
		return b.Detail
	}
}

// ParseResponseError reads the body of a non-2xx upstream response and
// translates it into the storefront error taxonomy: 401 becomes a
// session-expired error, other 4xx surface the server's message verbatim,
// and everything else maps to a generic network error.
//
// The caller should only invoke this when resp.StatusCode indicates an error.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Network(fmt.Errorf("%s: status %d (read body: %w)", operation, resp.StatusCode, err))
	}

	var body upstreamErrorBody
	message := ""
	if json.Unmarshal(bodyBytes, &body) == nil {
		message = body.text()
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.SessionExpired("")
	case resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "you do not have permission to perform this action"
		}
		return apperrors.Forbidden(message)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apperrors.ServerRejected(resp.StatusCode, message)
	default:
		return apperrors.Network(fmt.Errorf("%s: upstream status %d: %s", operation, resp.StatusCode, string(bodyBytes)))
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
