package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "FLAMOURE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	minEditorSlots = 2
	maxEditorSlots = 4
)

const (
	EnvAppEnv    = "FLAMOURE_APP_ENV"
	EnvPort      = "FLAMOURE_APP_PORT"
	EnvLogLevel  = "FLAMOURE_LOG_LEVEL"
	EnvDBDSN     = "FLAMOURE_DB_DSN"
	EnvDBHost    = "FLAMOURE_DB_HOST"
	EnvDBUser    = "FLAMOURE_DB_USER"
	EnvDBName    = "FLAMOURE_DB_NAME"
	EnvRedisURL  = "FLAMOURE_REDIS_URL"
	EnvJWTSecret = "FLAMOURE_JWT_SECRET"
	EnvJWTIssuer = "FLAMOURE_JWT_ISSUER"
	EnvJWTExpMins = "FLAMOURE_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID    = "FLAMOURE_GCP_PROJECT_ID"
	EnvGCSBucket       = "FLAMOURE_GCS_BUCKET_NAME"
	EnvGCSUploadExpiry = "FLAMOURE_GCS_UPLOAD_URL_EXPIRY"

	EnvPubSubOrdersTopic = "FLAMOURE_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "FLAMOURE_PUBSUB_ORDERS_SUBSCRIPTION"

	EnvAdminWhatsApp = "FLAMOURE_CHECKOUT_ADMIN_WHATSAPP"

	EnvEditorSlotCount = "FLAMOURE_EDITOR_SLOT_COUNT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
