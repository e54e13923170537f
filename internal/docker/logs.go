package docker

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
)

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
	StreamSystem = "system"

	logBuffer = 100
)

// LogLine represents a single log entry
type LogLine struct {
	Source    string // container ID, or "stdin"
	Timestamp time.Time
	Stream    string // StreamStdout, StreamStderr or StreamSystem
	Content   string
}

// StreamLogs starts streaming logs for a container and returns channels for log lines and errors
func (c *Client) StreamLogs(ctx context.Context, containerID string) (<-chan LogLine, <-chan error) {
	logChan := make(chan LogLine, logBuffer)
	errChan := make(chan error, 1)

	go func() {
		defer close(logChan)
		defer close(errChan)

		// First, check container state and if it uses TTY
		inspect, err := c.cli.ContainerInspect(ctx, containerID)
		if err != nil {
			errChan <- err
			return
		}
		isTTY := inspect.Config != nil && inspect.Config.Tty
		isRunning := inspect.State != nil && inspect.State.Running

		// For exited containers, get more lines and don't follow
		tail := "10"
		follow := true
		if !isRunning {
			tail = "50"
			follow = false
		}

		reader, err := c.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
			ShowStdout: true,
			ShowStderr: true,
			Follow:     follow,
			Tail:       tail,
			Timestamps: true,
		})
		if err != nil {
			errChan <- err
			return
		}
		defer func() { _ = reader.Close() }()

		if isTTY {
			// TTY mode: logs come through directly without multiplexing
			err = scanLines(ctx, reader, containerID, StreamStdout, logChan)
		} else {
			err = demuxLogs(ctx, reader, containerID, logChan)
		}
		if err != nil {
			errChan <- err
		}
	}()

	return logChan, errChan
}

// ReadLines streams lines from r (e.g. stdin) with the same channel contract as StreamLogs
func ReadLines(ctx context.Context, r io.Reader, source string) (<-chan LogLine, <-chan error) {
	logChan := make(chan LogLine, logBuffer)
	errChan := make(chan error, 1)

	go func() {
		defer close(logChan)
		defer close(errChan)
		if err := scanLines(ctx, r, source, StreamStdout, logChan); err != nil {
			errChan <- err
		}
	}()

	return logChan, errChan
}

// scanLines sends every line of r to logChan until EOF or cancellation
func scanLines(ctx context.Context, r io.Reader, source, stream string, logChan chan<- LogLine) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		case logChan <- parseLine(source, stream, scanner.Text()):
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// demuxLogs reads Docker's multiplexed stdout/stderr stream.
// Header format: [STREAM_TYPE, 0, 0, 0, SIZE1, SIZE2, SIZE3, SIZE4]
// STREAM_TYPE: 0=stdin, 1=stdout, 2=stderr
func demuxLogs(ctx context.Context, r io.Reader, source string, logChan chan<- LogLine) error {
	hdr := make([]byte, 8)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := io.ReadFull(r, hdr); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		stream := StreamStdout
		if hdr[0] == 2 {
			stream = StreamStderr
		}

		payload := make([]byte, binary.BigEndian.Uint32(hdr[4:8]))
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := scanLines(ctx, strings.NewReader(string(payload)), source, stream, logChan); err != nil {
			return err
		}
	}
}

// parseLine parses a log line with optional timestamp
func parseLine(source, stream, line string) LogLine {
	logLine := LogLine{
		Source:    source,
		Stream:    stream,
		Timestamp: time.Now(),
		Content:   line,
	}

	// Try to parse timestamp (format: 2024-01-15T10:30:45.123456789Z)
	if len(line) > 30 && line[4] == '-' && line[7] == '-' && line[10] == 'T' {
		if ts, err := time.Parse(time.RFC3339Nano, line[:30]); err == nil {
			logLine.Timestamp = ts
			logLine.Content = strings.TrimSpace(line[31:])
		}
	}

	return logLine
}
