package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdfview/observability"
)

func TestFields(t *testing.T) {
	cases := []struct {
		field observability.Field
		key   string
	}{
		{observability.String("page", "cover"), "page"},
		{observability.Int("count", 3), "count"},
		{observability.Uint64("generation", 9), "generation"},
		{observability.Float64("zoom", 1.5), "zoom"},
		{observability.Duration("elapsed", time.Second), "elapsed"},
		{observability.Error("err", errors.New("boom")), "err"},
	}
	for _, tc := range cases {
		if tc.field.Key() != tc.key {
			t.Fatalf("key %q, want %q", tc.field.Key(), tc.key)
		}
		if tc.field.Value() == nil {
			t.Fatalf("field %q has nil value", tc.key)
		}
	}
}

func TestNopImplementations(t *testing.T) {
	var logger observability.Logger = observability.NopLogger{}
	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("ignored")
	logger.Error("ignored")
	if logger.With(observability.Int("n", 1)) == nil {
		t.Fatal("With returned nil")
	}

	ctx, span := observability.NopTracer().StartSpan(context.Background(), "op")
	if ctx == nil {
		t.Fatal("tracer dropped the context")
	}
	span.SetTag("k", "v")
	span.SetError(errors.New("boom"))
	span.Finish()
}
