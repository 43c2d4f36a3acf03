package htable_test

import (
	"io"

	"github.com/sirupsen/logrus"
)

// quietLogger drops diagnostics that randomized tests trigger on purpose.
func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
