package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/tracing"
	"github.com/sirupsen/logrus"
)

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(&buf)
	l.SetVersion("v1.2.3")

	ctx := tracing.SetTraceID(context.Background(), "trace-1")
	l.Warnf(ctx, "snapshot %s failed", "orders")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	if entry["msg"] != "snapshot orders failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry[tracing.TraceIDKey] != "trace-1" {
		t.Errorf("trace id = %v", entry[tracing.TraceIDKey])
	}
	if entry[VersionKey] != "v1.2.3" {
		t.Errorf("version = %v", entry[VersionKey])
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestInit_Level(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	cleanup, err := l.Init(&config.Logger{Level: int(logrus.ErrorLevel), Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer cleanup()

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Infof(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at error level: %q", buf.String())
	}
	l.Errorf(context.Background(), "%s", "shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("error not logged: %q", buf.String())
	}
}

func TestInit_File(t *testing.T) {
	l := &Logger{Logger: logrus.New()}
	cleanup, err := l.Init(&config.Logger{Level: int(logrus.InfoLevel), Format: "json", Output: "file", Path: t.TempDir()})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if l.logFile == nil {
		t.Fatal("expected a log file")
	}
	cleanup()
	if l.logFile != nil {
		t.Fatal("cleanup should close the log file")
	}
}
