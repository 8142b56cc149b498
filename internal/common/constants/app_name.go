package constants

const (
	AppName             = "florist"
	AppCart             = "cart"
	AppCheckout         = "checkout"
	AppPricing          = "pricing"
	AppReturnServer     = "checkout-return-server"
	HomePath            = "/"
	HeaderRequestID     = "X-Request-Id"
	HeaderAuthorization = "Authorization"
)
