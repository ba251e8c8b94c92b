package config

// EnvPrefix namespaces every FixPoint environment variable.
const EnvPrefix = "FIXPOINT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "FIXPOINT_APP_ENV"
	EnvPort                   = "FIXPOINT_APP_PORT"
	EnvDBDSN                  = "FIXPOINT_DB_DSN"
	EnvDBHost                 = "FIXPOINT_DB_HOST"
	EnvDBUser                 = "FIXPOINT_DB_USER"
	EnvDBName                 = "FIXPOINT_DB_NAME"
	EnvRedisURL               = "FIXPOINT_REDIS_URL"
	EnvJWTSecret              = "FIXPOINT_JWT_SECRET"
	EnvJWTIssuer              = "FIXPOINT_JWT_ISSUER"
	EnvJWTExpMins             = "FIXPOINT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FIXPOINT_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "FIXPOINT_GCP_PROJECT_ID"
	EnvPubSubConnectionTopic  = "FIXPOINT_PUBSUB_CONNECTION_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
