package errs

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusBadGateway     = http.StatusBadGateway
	ErrStatusTimeout        = http.StatusGatewayTimeout
)

var (
	ErrInternalServer           = errors.New("Internal server error")
	ErrClient                   = errors.New("Bad request")
	ErrNotLoggedIn              = errors.New("Unauthorized access")
	ErrNotFound                 = errors.New("Resource not found")
	ErrInvalidOrder             = errors.New("Order data is incomplete or invalid")
	ErrUnsupportedPaymentMethod = errors.New("Payment method is not supported")
	ErrDuplicateOrder           = errors.New("An order with this ID has already been charged")
	ErrProductNotFound          = errors.New("Product is not available in the price list")
	ErrUpstreamUnavailable      = errors.New("Upstream provider is unavailable")
	ErrUpstreamTimeout          = errors.New("Upstream provider did not respond in time")
	ErrGateway                  = errors.New("Payment gateway rejected the charge")
	ErrFulfillmentFailed        = errors.New("Product delivery failed after payment")
	ErrPaymentExpired           = errors.New("Payment for this order has expired")
	ErrTokenExpired             = errors.New("The token is already expired")
)

var errorMap = map[error]int{
	ErrInternalServer:           ErrStatusInternalServer,
	ErrClient:                   ErrStatusClient,
	ErrNotLoggedIn:              ErrStatusNotLoggedIn,
	ErrNotFound:                 ErrStatusNotFound,
	ErrInvalidOrder:             ErrStatusClient,
	ErrUnsupportedPaymentMethod: ErrStatusClient,
	ErrDuplicateOrder:           ErrStatusConflict,
	ErrProductNotFound:          ErrStatusNotFound,
	ErrUpstreamUnavailable:      ErrStatusBadGateway,
	ErrUpstreamTimeout:          ErrStatusTimeout,
	ErrGateway:                  ErrStatusBadGateway,
	ErrFulfillmentFailed:        ErrStatusBadGateway,
	ErrPaymentExpired:           ErrStatusConflict,
	ErrTokenExpired:             ErrStatusUnauthorized,
}

func GetErrorStatusCode(err error) int {
	for sentinel, statusCode := range errorMap {
		if errors.Is(err, sentinel) {
			return statusCode
		}
	}

	return errorMap[ErrInternalServer]
}

// WrapGateway attaches the gateway's diagnostic message to ErrGateway so the
// controller still maps it to a status code while the caller sees the reason.
func WrapGateway(message string) error {
	return fmt.Errorf("%w: %s", ErrGateway, message)
}

func WrapFulfillment(message string) error {
	return fmt.Errorf("%w: %s", ErrFulfillmentFailed, message)
}
