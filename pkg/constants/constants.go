package constants

import "github.com/go-playground/validator/v10"

type ContextKey string

const (
	AppKey       ContextKey = "app"
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	ParamsKey    ContextKey = "params"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
