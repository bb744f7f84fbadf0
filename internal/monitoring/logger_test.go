package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestEnableDebug(t *testing.T) {
	originalLog, originalDebug := Logf, Debugf
	defer func() { Logf, Debugf = originalLog, originalDebug }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Debugf("hidden %d", 1)
	if len(lines) != 0 {
		t.Fatalf("debug output before EnableDebug: %v", lines)
	}

	EnableDebug(true)
	Debugf("grid %dx%d", 3, 4)
	if len(lines) != 1 || lines[0] != "[debug] grid 3x4" {
		t.Fatalf("unexpected debug lines: %v", lines)
	}

	EnableDebug(false)
	Debugf("hidden again")
	if len(lines) != 1 {
		t.Errorf("debug output after disabling: %v", lines)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}
