// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the global logger instance. It is a no-op logger until Setup runs.
var Logger = zap.NewNop()

// Setup builds Logger from a production config, or a development config at
// debug level when debug is set, tags it with the application name and
// version, and installs it as zap's global logger.
func Setup(debug bool, appName, appVersion string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return nil
}
