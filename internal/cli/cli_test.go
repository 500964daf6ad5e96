package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/five82/sqsnav/internal/app"
	"github.com/five82/sqsnav/internal/config"
	"github.com/five82/sqsnav/internal/sqs"
)

const ordersURL = "https://sqs.us-east-1.amazonaws.com/123/orders"

type fakeGateway struct {
	mu      sync.Mutex
	byRegion map[string][]string
	sent    []string
}

func (f *fakeGateway) ListQueues(_ context.Context, region, filter string) ([]string, error) {
	var out []string
	for _, u := range f.byRegion[region] {
		if strings.Contains(u, filter) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeGateway) Send(_ context.Context, _, _, body string) (sqs.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, body)
	return sqs.SendResult{MessageID: "msg-42", MD5OfBody: "abc"}, nil
}

func (f *fakeGateway) Attributes(_ context.Context, _, _ string) (map[string]string, error) {
	return map[string]string{sqs.AttrVisibleMessages: "7", sqs.AttrQueueArn: "arn:aws:sqs:us-east-1:123:orders"}, nil
}

func (f *fakeGateway) WhoAmI(_ context.Context, _ string) (sqs.Identity, error) {
	return sqs.Identity{Account: "123", ARN: "arn:aws:iam::123:user/dev", UserID: "AIDA"}, nil
}

// setup writes a config pointing at a temp data dir and swaps in a fake gateway.
func setup(t *testing.T, regions ...string) (base []string, gw *fakeGateway) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("data_dir = %q\n", filepath.Join(dir, "data"))
	if len(regions) > 0 {
		content += fmt.Sprintf("default_region = %q\nregions = [", regions[0])
		for i, r := range regions {
			if i > 0 {
				content += ", "
			}
			content += fmt.Sprintf("%q", r)
		}
		content += "]\n"
	}
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	gw = &fakeGateway{byRegion: map[string][]string{
		"us-east-1": {ordersURL},
		"eu-west-1": {"https://sqs.eu-west-1.amazonaws.com/123/invoices"},
	}}
	prev := gatewayFor
	gatewayFor = func(*app.Env) sqs.Gateway { return gw }
	t.Cleanup(func() { gatewayFor = prev })

	return []string{"--config", cfgPath, "--prefs", filepath.Join(dir, "prefs.toml")}, gw
}

func run(t *testing.T, base []string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBookmarksAddListRemove(t *testing.T) {
	base, _ := setup(t)

	out, err := run(t, base, "bookmarks", "add", ordersURL)
	if err != nil || !strings.Contains(out, "added") {
		t.Fatalf("add: %q, %v", out, err)
	}
	out, err = run(t, base, "bookmarks", "add", ordersURL)
	if err != nil || !strings.Contains(out, "already bookmarked") {
		t.Fatalf("second add: %q, %v", out, err)
	}

	out, err = run(t, base, "bookmarks", "list")
	if err != nil || !strings.Contains(out, "orders") || !strings.Contains(out, "us-east-1") {
		t.Fatalf("list: %q, %v", out, err)
	}

	if _, err := run(t, base, "bookmarks", "rm", ordersURL); err != nil {
		t.Fatalf("rm: %v", err)
	}
	out, err = run(t, base, "bookmarks", "list")
	if err != nil || !strings.Contains(out, "No bookmarks.") {
		t.Fatalf("list after rm: %q, %v", out, err)
	}
}

func TestFilesAddListRemove(t *testing.T) {
	base, _ := setup(t)
	path := filepath.Join(t.TempDir(), "order.json")

	if out, err := run(t, base, "files", "add", ordersURL, path); err != nil || !strings.Contains(out, "attached") {
		t.Fatalf("add: %q, %v", out, err)
	}
	out, err := run(t, base, "files", "list", ordersURL)
	if err != nil || !strings.Contains(out, "order.json") {
		t.Fatalf("list: %q, %v", out, err)
	}
	if out, err := run(t, base, "files", "rm", ordersURL, path); err != nil || !strings.Contains(out, "detached") {
		t.Fatalf("rm: %q, %v", out, err)
	}
	out, err = run(t, base, "files", "list")
	if err != nil || !strings.Contains(out, "No message files.") {
		t.Fatalf("list after rm: %q, %v", out, err)
	}
}

func TestSendRequiresExactlyOneSource(t *testing.T) {
	base, gw := setup(t)

	if _, err := run(t, base, "send", ordersURL); err == nil {
		t.Fatalf("send without body should fail")
	}
	if _, err := run(t, base, "send", ordersURL, "--body", "x", "--file", "y"); err == nil {
		t.Fatalf("send with both sources should fail")
	}
	if len(gw.sent) != 0 {
		t.Fatalf("nothing should be sent, got %v", gw.sent)
	}
}

func TestSendFromFileCompactsJSONC(t *testing.T) {
	base, gw := setup(t)
	path := filepath.Join(t.TempDir(), "order.jsonc")
	if err := os.WriteFile(path, []byte("{\n  // note\n  \"id\": 2\n}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := run(t, base, "send", ordersURL, "--file", path)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(out, "msg-42") {
		t.Fatalf("output = %q, want message id", out)
	}
	if len(gw.sent) != 1 || gw.sent[0] != `{"id":2}` {
		t.Fatalf("sent = %v", gw.sent)
	}
}

func TestQueuesListsConfiguredRegions(t *testing.T) {
	base, _ := setup(t, "us-east-1", "eu-west-1")

	out, err := run(t, base, "queues")
	if err != nil {
		t.Fatalf("queues: %v", err)
	}
	if !strings.Contains(out, "orders") || !strings.Contains(out, "invoices") {
		t.Fatalf("output = %q, want queues from both regions", out)
	}

	out, err = run(t, base, "queues", "--region", "eu-west-1", "--filter", "orders")
	if err != nil || !strings.Contains(out, "No queues found.") {
		t.Fatalf("filtered: %q, %v", out, err)
	}
}

func TestAttrsAndWhoAmI(t *testing.T) {
	base, _ := setup(t)

	out, err := run(t, base, "attrs", ordersURL)
	if err != nil || !strings.Contains(out, sqs.AttrVisibleMessages) || !strings.Contains(out, "7") {
		t.Fatalf("attrs: %q, %v", out, err)
	}

	out, err = run(t, base, "whoami")
	if err != nil || !strings.Contains(out, "arn:aws:iam::123:user/dev") {
		t.Fatalf("whoami: %q, %v", out, err)
	}
}

func TestRegionFor(t *testing.T) {
	env := &app.Env{Config: config.Config{DefaultRegion: "ap-south-1"}}

	tests := []struct {
		flag, url, want string
	}{
		{"eu-west-1", ordersURL, "eu-west-1"},
		{"", ordersURL, "us-east-1"},
		{"", "http://localhost:4566/000000000000/orders", "ap-south-1"},
	}
	for _, tt := range tests {
		got, err := regionFor(tt.flag, tt.url, env)
		if err != nil || got != tt.want {
			t.Errorf("regionFor(%q, %q) = %q, %v; want %q", tt.flag, tt.url, got, err, tt.want)
		}
	}

	if _, err := regionFor("", "", &app.Env{}); !errors.Is(err, sqs.ErrNoRegion) {
		t.Fatalf("err = %v, want ErrNoRegion", err)
	}
}
