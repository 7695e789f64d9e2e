package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/discogen"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestLoggingInterceptor_Success(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(newLogger(&buf))

	call := &discogen.Call{MethodID: "storage.buckets.get", HTTPMethod: "GET"}
	called := false
	err := interceptor(context.Background(), call, func(ctx context.Context, c *discogen.Call) error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected next to be called")
	}

	logOutput := buf.String()
	for _, want := range []string{"call started", "call completed", "storage.buckets.get", "duration"} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected %q in log output", want)
		}
	}
}

func TestLoggingInterceptor_Error(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(newLogger(&buf))

	testErr := discogen.NewError(discogen.CodeNotFound, "no such bucket")
	err := interceptor(context.Background(), &discogen.Call{MethodID: "storage.buckets.get"}, func(ctx context.Context, c *discogen.Call) error {
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Errorf("expected test error, got %v", err)
	}

	logOutput := buf.String()
	if !strings.Contains(logOutput, "call failed") {
		t.Error("expected 'call failed' in log output")
	}
	if !strings.Contains(logOutput, "no such bucket") {
		t.Error("expected error message in log output")
	}
	if !strings.Contains(logOutput, `"code":"not_found"`) {
		t.Error("expected error code in log output")
	}
}

func TestLoggingInterceptor_NilLogger(t *testing.T) {
	// Falls back to slog.Default.
	interceptor := LoggingInterceptor(nil)

	err := interceptor(context.Background(), &discogen.Call{MethodID: "x.y"}, func(ctx context.Context, c *discogen.Call) error {
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoggingInterceptor_PropagatesContext(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(newLogger(&buf))

	type ctxKey string
	key := ctxKey("test-key")
	ctx := context.WithValue(context.Background(), key, "test-value")

	err := interceptor(ctx, &discogen.Call{MethodID: "x.y"}, func(ctx context.Context, c *discogen.Call) error {
		if ctx.Value(key) != "test-value" {
			t.Error("expected context value to be propagated")
		}
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoggingInterceptor_MethodIDInLogs(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(newLogger(&buf))

	tests := []string{"storage.buckets.get", "storage.objects.insert", "pkg.items.get"}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			buf.Reset()
			_ = interceptor(context.Background(), &discogen.Call{MethodID: id}, func(ctx context.Context, c *discogen.Call) error {
				return nil
			})
			if !strings.Contains(buf.String(), id) {
				t.Errorf("expected method ID %s in log output", id)
			}
		})
	}
}
