package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()).GetLevel() != zerolog.Disabled {
		t.Error("expected Nop logger when none is attached")
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), WithUser(logger, "u-42"))

	ctxLogger := FromContext(ctx)
	ctxLogger.Info().Msg("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if line["user_id"] != "u-42" {
		t.Errorf("expected user_id field, got %v", line)
	}
}

func TestLogReportFields(t *testing.T) {
	var buf bytes.Buffer
	LogReport(zerolog.New(&buf), "u1", 12, false, 3*time.Millisecond)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if line["event"] != "report" || line["days"] != float64(12) || line["no_data"] != false {
		t.Errorf("unexpected fields: %v", line)
	}
}
