package middlewares

const (
	ctxIdentityKey  = "auth.identity"
	CtxRequestID    = "request_id"
	requestIDHeader = "X-Request-Id"
)
