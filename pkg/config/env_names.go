package config

// Environment variable names shared between Load, tests, and ops tooling.
const (
	EnvPrefix = "gatepass"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "GATEPASS_APP_ENV"
	EnvPort     = "GATEPASS_APP_PORT"
	EnvLogLevel = "GATEPASS_LOG_LEVEL"

	EnvDBDSN  = "GATEPASS_DB_DSN"
	EnvDBHost = "GATEPASS_DB_HOST"
	EnvDBUser = "GATEPASS_DB_USER"
	EnvDBName = "GATEPASS_DB_NAME"

	EnvRedisURL = "GATEPASS_REDIS_URL"

	EnvJWTSecret  = "GATEPASS_JWT_SECRET"
	EnvJWTIssuer  = "GATEPASS_JWT_ISSUER"
	EnvJWTExpMins = "GATEPASS_JWT_EXPIRATION_MINUTES"

	EnvStripeAPIKey        = "GATEPASS_STRIPE_API_KEY"
	EnvStripePaymentSecret = "GATEPASS_STRIPE_PAYMENT_WEBHOOK_SECRET"
	EnvStripeRefundSecret  = "GATEPASS_STRIPE_REFUND_WEBHOOK_SECRET"

	EnvCheckoutSuccessURL = "GATEPASS_CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL  = "GATEPASS_CHECKOUT_CANCEL_URL"
	EnvTicketBaseURL      = "GATEPASS_TICKET_BASE_URL"
	EnvOnboardingURL      = "GATEPASS_STRIPE_ONBOARDING_RETURN_URL"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
