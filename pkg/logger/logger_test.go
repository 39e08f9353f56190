package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.name); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  DebugLevel,
		Output: buf,
	})
	if logger == nil {
		t.Fatal("New() returned nil")
	}

	dl, ok := logger.(*DefaultLogger)
	if !ok {
		t.Fatal("New() did not return *DefaultLogger")
	}

	if dl.level != DebugLevel {
		t.Errorf("level = %v, want %v", dl.level, DebugLevel)
	}

	if dl.output != buf {
		t.Error("output not set correctly")
	}
}

func TestDefaultLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	logger.Info("test message", F("key", "value"))

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}

	if entry.Message != "test message" {
		t.Errorf("Message = %v, want 'test message'", entry.Message)
	}

	if entry.Fields["key"] != "value" {
		t.Errorf("Field key = %v, want 'value'", entry.Fields["key"])
	}
}

func TestDefaultLogger_Debug_FilteredByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	logger.Debug("debug message")

	if buf.Len() > 0 {
		t.Error("Debug message was logged when level was Info")
	}
}

func TestDefaultLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	childLogger := logger.WithFields(
		F("service", "music-svc"),
		F("port", 8080),
	)

	childLogger.Info("server started")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if entry.Fields["service"] != "music-svc" {
		t.Errorf("service field = %v, want 'music-svc'", entry.Fields["service"])
	}

	if entry.Fields["port"] != float64(8080) {
		t.Errorf("port field = %v, want 8080", entry.Fields["port"])
	}
}

func TestDefaultLogger_WithFields_DoesNotMutateParent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	logger.WithFields(F("child", "only"))

	logger.Info("parent message")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if _, ok := entry.Fields["child"]; ok {
		t.Error("Parent logger should not carry child fields")
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  Level
		logFunc   func(Logger, string)
		message   string
		shouldLog bool
	}{
		{"Debug at Debug level", DebugLevel, func(l Logger, m string) { l.Debug(m) }, "debug msg", true},
		{"Debug at Info level", InfoLevel, func(l Logger, m string) { l.Debug(m) }, "debug msg", false},
		{"Info at Info level", InfoLevel, func(l Logger, m string) { l.Info(m) }, "info msg", true},
		{"Info at Error level", ErrorLevel, func(l Logger, m string) { l.Info(m) }, "info msg", false},
		{"Warn at Info level", InfoLevel, func(l Logger, m string) { l.Warn(m) }, "warn msg", true},
		{"Error at Info level", InfoLevel, func(l Logger, m string) { l.Error(m) }, "error msg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(&Config{
				Level:  tt.logLevel,
				Output: buf,
			})

			tt.logFunc(logger, tt.message)

			logged := buf.Len() > 0
			if logged != tt.shouldLog {
				t.Errorf("Message logged = %v, want %v", logged, tt.shouldLog)
			}

			if logged {
				var entry Entry
				if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
					t.Fatalf("Failed to parse log output: %v", err)
				}

				if entry.Message != tt.message {
					t.Errorf("Message = %v, want %v", entry.Message, tt.message)
				}
			}
		})
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	done := make(chan bool, 100)

	for i := 0; i < 100; i++ {
		go func(id int) {
			logger.Info("concurrent message", F("id", id))
			done <- true
		}(i)
	}

	for i := 0; i < 100; i++ {
		<-done
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("Got %d log lines, want 100", len(lines))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}

func BenchmarkLogger_InfoWithFields(b *testing.B) {
	buf := &bytes.Buffer{}
	logger := New(&Config{
		Level:  InfoLevel,
		Output: buf,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message",
			F("key1", "value1"),
			F("key2", 42),
			F("key3", true),
		)
	}
}
