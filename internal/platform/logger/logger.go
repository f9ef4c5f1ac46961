package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured key/value logger shared by every package.
// Values logged under shopper or secret-looking keys are masked before they
// reach zap.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger for mode: "prod" logs JSON at info, "test" logs only
// warnings, anything else is the development console at debug.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	case "test":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, mask(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, mask(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, mask(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, mask(kv)...) }

func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(mask(kv)...)}
}

type fieldClass int

const (
	plainField fieldClass = iota
	// secretField values are dropped: credentials, card data, connection strings.
	secretField
	// identityField values are hashed so one shopper's lines stay correlatable.
	identityField
)

var (
	secretMarkers   = []string{"password", "secret", "token", "email", "card", "dsn"}
	identityMarkers = []string{"shopper", "account"}
)

func classify(key string) fieldClass {
	key = strings.ToLower(key)
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return secretField
		}
	}
	for _, m := range identityMarkers {
		if strings.Contains(key, m) {
			return identityField
		}
	}
	return plainField
}

type maskSettings struct {
	enabled bool
	salt    string
}

var (
	settingsOnce sync.Once
	settings     maskSettings
)

// loadSettings reads LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT once.
func loadSettings() maskSettings {
	settingsOnce.Do(func() {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
		default:
			settings.enabled = true
		}
		settings.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return settings
}

// mask rewrites the values of sensitive pairs in kv. A trailing key without
// a value is passed through for zap to report.
func mask(kv []any) []any {
	s := loadSettings()
	if !s.enabled || len(kv) < 2 {
		return kv
	}
	out := make([]any, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		switch classify(key) {
		case secretField:
			out[i+1] = "[REDACTED]"
		case identityField:
			out[i+1] = s.hash(out[i+1])
		}
	}
	return out
}

func (s maskSettings) hash(v any) string {
	raw := strings.TrimSpace(fmt.Sprint(v))
	if v == nil || raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:6])
}
