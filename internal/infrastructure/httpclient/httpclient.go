package httpclient

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// New собирает HTTP клиент для внешних гео-сервисов.
// retryMax = 0 отключает повторы: один вызов - один запрос.
func New(timeout time.Duration, retryMax int, logger *zap.Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.RetryMax = retryMax
	rc.HTTPClient.Timeout = timeout
	rc.Logger = &zapLeveled{logger: logger.Sugar()}
	// Вернуть последний ответ вместо обобщённой ошибки "giving up after N attempts"
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

// zapLeveled адаптирует zap к retryablehttp.LeveledLogger
type zapLeveled struct {
	logger *zap.SugaredLogger
}

func (l *zapLeveled) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l *zapLeveled) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *zapLeveled) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *zapLeveled) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}
