package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevel()

// Init builds the global zap logger. Development environments get a console
// encoder, everything else JSON.
func Init(environment, lvl string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}

	var conf zap.Config
	if environment == "development" {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		conf = zap.NewProductionConfig()
	}
	conf.Level = level

	logger, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}

// SetLevel changes the level of the logger built by Init without rebuilding it.
func SetLevel(lvl string) error {
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel -> %w", err)
	}

	level.SetLevel(parsed)

	return nil
}
