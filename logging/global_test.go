package logging

import (
	"testing"
)

func TestGlobalFunctionsWithoutInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	// Must not panic before InitLogger has run.
	Info("info before init", "key", "value")
	Warn("warn before init")
	Error("error before init", "error", "boom")
	Debug("debug before init")
}

func TestInitLogger(t *testing.T) {
	saved := DefaultLoggingService
	defer func() { DefaultLoggingService = saved }()

	InitLogger(t.TempDir())

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("Expected InitLogger to set the global logging service")
	}

	Info("logger initialized", "test", true)
}
