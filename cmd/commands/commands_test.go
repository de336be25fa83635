package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ncobase/gqltable/query"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSerializeCommand(t *testing.T) {
	out, err := run(t, "serialize",
		"--filter", `{"status":["open","closed"],"amount":[">100"],"created":[["2024-01-01","2024-01-31"]]}`,
		"--text", "acme",
		"--sort", "created DESC",
		"--tz", "UTC",
		"--first", "20")
	if err != nil {
		t.Fatalf("serialize: %v\n%s", err, out)
	}
	var vars query.Variables
	if err := json.Unmarshal([]byte(out), &vars); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := `acme status:"open" status:"closed" amount:>100 ` +
		`(created:>="2024-01-01T00:00:00.000Z" created:<="2024-01-31T23:59:59.999Z")`
	if vars.Query != want {
		t.Errorf("query = %q\nwant    %q", vars.Query, want)
	}
	if vars.OrderBy == nil || vars.OrderBy.Field != "created" || vars.First != 20 {
		t.Errorf("variables = %+v", vars)
	}
}

func TestSerializeCommand_InvalidInput(t *testing.T) {
	if _, err := run(t, "serialize", "--filter", `[1]`); err == nil {
		t.Error("expected invalid filter error")
	}
	if _, err := run(t, "serialize", "--tz", "Nowhere/Atlantis"); err == nil {
		t.Error("expected invalid timezone error")
	}
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", "?query=acme&sort=name&direction=ASC&after=c1&filter=%7B%22tags%22%3A%5B%22urgent%22%5D%7D")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got struct {
		Query     string          `json:"query"`
		Sort      string          `json:"sort"`
		After     string          `json:"after"`
		Variables query.Variables `json:"variables"`
		Warning   string          `json:"warning"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Query != "acme" || got.Sort != "name ASC" || got.After != "c1" || got.Warning != "" {
		t.Errorf("decoded = %+v", got)
	}
	if got.Variables.Query != `acme tags:"urgent"` || got.Variables.After != "c1" {
		t.Errorf("variables = %+v", got.Variables)
	}

	out, err = run(t, "decode", "query=acme&filter=%7Bbroken")
	if err != nil {
		t.Fatalf("decode malformed: %v", err)
	}
	if !strings.Contains(out, `"warning"`) {
		t.Errorf("expected a warning in %s", out)
	}
}

func TestBackCommand(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(conf, []byte("snapshot:\n  driver: memory\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "back", "orders", "--conf", conf); err == nil || !strings.Contains(err.Error(), "no snapshot") {
		t.Errorf("back without snapshot = %v", err)
	}
}
