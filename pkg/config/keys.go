package config

const (
	EnvPrefix = "payflow"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "PAYFLOW_APP_ENV"
	EnvPort         = "PAYFLOW_APP_PORT"
	EnvLogLevel     = "PAYFLOW_LOG_LEVEL"
	EnvSimTargetURL = "PAYFLOW_SIM_TARGET_URL"
)
