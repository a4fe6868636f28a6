package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "pharmacy"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "PHARMACY_APP_ENV"
	EnvAppPort  = "PHARMACY_APP_PORT"
	EnvDBDSN    = "PHARMACY_DB_DSN"
	EnvDBDriver = "PHARMACY_DB_DRIVER"
	EnvDBHost   = "PHARMACY_DB_HOST"
	EnvDBUser   = "PHARMACY_DB_USER"
	EnvDBName   = "PHARMACY_DB_NAME"
	EnvRedisURL = "PHARMACY_REDIS_URL"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
