package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "MOSB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "MOSB_DB_DSN"
	EnvDBHost = "MOSB_DB_HOST"
	EnvDBUser = "MOSB_DB_USER"
	EnvDBName = "MOSB_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
