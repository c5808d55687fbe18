package translate

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger routes the translation log to l. A nil logger silences it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
