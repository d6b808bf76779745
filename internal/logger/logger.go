package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "catalog-auth"

// ParseLevel maps LOG_LEVEL to a zerolog level, falling back to info.
func ParseLevel(logLevelStr string) (zerolog.Level, bool) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(logLevelStr)))
	if err != nil || parsedLevel == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return parsedLevel, true
}

func isDevelopment(appEnv string) bool {
	env := strings.ToLower(appEnv)
	return env == "development" || env == "dev"
}

// Init initializes the global zerolog logger.
func Init(logLevelStr string, appEnv string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level, ok := ParseLevel(logLevelStr)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if isDevelopment(appEnv) {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Str("service", serviceName).Logger()
	if !ok {
		log.Warn().Msgf("Invalid log level '%s', defaulting to 'info'", logLevelStr)
	}

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}
