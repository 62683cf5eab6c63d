package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var (
	_ Logger = (*ZerologAdapter)(nil)
	_ Logger = (*StdLoggerAdapter)(nil)
)

// decodeLine parses the single JSON log line written to buf.
func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", buf.String(), err)
	}
	return entry
}

func TestZerologAdapter_SortFailureEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "server")

	logger.Error("sort failed", errors.New("partition 2: worker fault"),
		Int("partition", 2),
		Uint64("elements", 1<<40),
		Float64("load", 0.75),
		Duration("elapsed", 1500*time.Millisecond),
	)

	entry := decodeLine(t, &buf)
	want := map[string]any{
		"level":     "error",
		"message":   "sort failed",
		"component": "server",
		"error":     "partition 2: worker fault",
		"partition": float64(2),
		"elements":  float64(1 << 40),
		"load":      0.75,
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["elapsed"]; !ok {
		t.Error("duration field missing")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestZerologAdapter_FieldKinds(t *testing.T) {
	cases := []struct {
		field Field
		want  any
	}{
		{String("pivot", "median3"), "median3"},
		{Field{Key: "stable", Value: true}, true},
		{Field{Key: "offset", Value: int64(-7)}, float64(-7)},
		{Field{Key: "cause", Value: errors.New("nan key")}, "nan key"},
		{Field{Key: "bounds", Value: []int{0, 2}}, []any{float64(0), float64(2)}},
	}
	for _, tc := range cases {
		t.Run(tc.field.Key, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "sorting").Info("partition planned", tc.field)
			got := decodeLine(t, &buf)[tc.field.Key]
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tc.want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("%s = %s, want %s", tc.field.Key, gotJSON, wantJSON)
			}
		})
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("request rejected", Int("status", 400))
	if buf.Len() != 0 {
		t.Fatalf("debug entry written at info level: %s", buf.String())
	}

	logger.Printf("listening on %s", "127.0.0.1:8080")
	if entry := decodeLine(t, &buf); entry["message"] != "listening on 127.0.0.1:8080" || entry["level"] != "info" {
		t.Errorf("Printf entry = %v", entry)
	}

	buf.Reset()
	logger.Println("merge", "round", 3)
	if entry := decodeLine(t, &buf); entry["message"] != "merge round 3" {
		t.Errorf("Println message = %v", entry["message"])
	}

	if logger.Zerolog().GetLevel() != zerolog.InfoLevel {
		t.Errorf("underlying level = %v", logger.Zerolog().GetLevel())
	}
}

func TestNewZerolog(t *testing.T) {
	levels := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"Error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range levels {
		if got := NewZerolog(&bytes.Buffer{}, in, true).GetLevel(); got != want {
			t.Errorf("NewZerolog(%q) level = %v, want %v", in, got, want)
		}
	}

	var jsonBuf bytes.Buffer
	jsonLogger := NewZerolog(&jsonBuf, "info", true)
	jsonLogger.Info().Int("partitions", 4).Msg("planned")
	if entry := decodeLine(t, &jsonBuf); entry["partitions"] != float64(4) {
		t.Errorf("json entry = %v", entry)
	}

	var consoleBuf bytes.Buffer
	consoleLogger := NewZerolog(&consoleBuf, "info", false)
	consoleLogger.Info().Int("partitions", 4).Msg("planned")
	out := consoleBuf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "planned") || !strings.Contains(out, "partitions") {
		t.Errorf("console output = %q", out)
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLoggerAdapter(log.New(&buf, "", 0))

	logger.Info("server started", String("addr", ":8080"))
	logger.Error("sort failed", errors.New("timeout"), Int("partition", 1))
	logger.Debug("request rejected", Int("status", 413))
	logger.Error("sort failed", nil)
	logger.Printf("%d partitions", 4)
	logger.Println("merge", "done")

	want := []string{
		"[INFO] server started addr=:8080",
		"[ERROR] sort failed: timeout partition=1",
		"[DEBUG] request rejected status=413",
		"[ERROR] sort failed: <nil>",
		"4 partitions",
		"merge done",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger().Zerolog().GetLevel() != zerolog.TraceLevel {
		t.Error("default logger should not filter by level")
	}
}
