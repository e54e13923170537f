package docker

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
	"testing"
	"time"
)

func frame(stream byte, payload string) []byte {
	hdr := make([]byte, 8)
	hdr[0] = stream
	binary.BigEndian.PutUint32(hdr[4:], uint32(len(payload)))
	return append(hdr, payload...)
}

func collect(ch <-chan LogLine) []LogLine {
	var out []LogLine
	for l := range ch {
		out = append(out, l)
	}
	return out
}

func TestDemuxLogsSplitsStreams(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(frame(1, "hello\nworld\n"))
	buf.Write(frame(2, "boom\n"))

	logChan := make(chan LogLine, 10)
	if err := demuxLogs(context.Background(), &buf, "abc", logChan); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	close(logChan)

	lines := collect(logChan)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Content != "hello" || lines[0].Stream != StreamStdout {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[2].Content != "boom" || lines[2].Stream != StreamStderr {
		t.Fatalf("unexpected stderr line: %+v", lines[2])
	}
	if lines[1].Source != "abc" {
		t.Fatalf("expected source abc, got %q", lines[1].Source)
	}
}

func TestParseLineTimestamp(t *testing.T) {
	l := parseLine("abc", StreamStdout, "2024-01-15T10:30:45.123456789Z server started")
	if l.Content != "server started" {
		t.Fatalf("expected content without timestamp, got %q", l.Content)
	}
	want := time.Date(2024, 1, 15, 10, 30, 45, 123456789, time.UTC)
	if !l.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, l.Timestamp)
	}

	plain := parseLine("abc", StreamStdout, "no timestamp here")
	if plain.Content != "no timestamp here" {
		t.Fatalf("expected content unchanged, got %q", plain.Content)
	}
}

func TestReadLines(t *testing.T) {
	logChan, errChan := ReadLines(context.Background(), strings.NewReader("a\nb\nc"), "stdin")
	lines := collect(logChan)
	if len(lines) != 3 || lines[2].Content != "c" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if err, ok := <-errChan; ok && err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestMatchContainers(t *testing.T) {
	containers := []Container{
		{ID: "1", Name: "shop-api-1", ComposeService: "api"},
		{ID: "2", Name: "shop-web-1", ComposeService: "web"},
		{ID: "3", Name: "redis"},
	}

	got := MatchContainers(containers, []string{"WEB", "shop", "missing"})
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if containers[2].DisplayName() != "redis" || containers[0].DisplayName() != "api" {
		t.Fatalf("unexpected display names")
	}
}
