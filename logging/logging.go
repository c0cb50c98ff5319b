package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger writing to stderr at the given level
func New(level string) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	return config.Build()
}

// ParseLevel maps debug, info, warn and error to zap levels, case-insensitively
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "info", "":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Once runs a logging call a single time per key, until the key is forgotten
type Once struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Do runs fn if key has not been seen yet. It reports whether fn ran.
func (o *Once) Do(key string, fn func()) bool {
	o.mu.Lock()
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	if _, ok := o.seen[key]; ok {
		o.mu.Unlock()
		return false
	}
	o.seen[key] = struct{}{}
	o.mu.Unlock()

	fn()
	return true
}

// Forget re-arms key
func (o *Once) Forget(key string) {
	o.mu.Lock()
	delete(o.seen, key)
	o.mu.Unlock()
}
