package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeyUserID        = "userId"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequest       = "request"
	KeyRequestQuery  = "query"
	KeyResponseCode  = "responseCode"
	KeyStatusCode    = "statusCode"
	KeyCacheKey      = "cacheKey"

	KeyCartID           = "cartId"
	KeyCartItemID       = "cartItemId"
	KeyCartItemCount    = "cartItemCount"
	KeyCartItemQuantity = "cartItemQuantity"
	KeyCartTotal        = "cartTotal"
	KeyProductID        = "productId"
	KeyDynamicPrice     = "dynamicPrice"
	KeyPriceRequestTime = "priceRequestTime"
	KeySessionID        = "sessionId"
	KeyCheckoutStep     = "checkoutStep"
	KeyPaymentMethod    = "paymentMethod"
	KeyBankCode         = "bankCode"
	KeyAddressID        = "addressId"
	KeyOrderID          = "orderId"
	KeyOrderSum         = "orderSum"
	KeyPaymentID        = "paymentId"
	KeyPaymentURL       = "paymentUrl"
	KeyNavigationTarget = "navigationTarget"
)
