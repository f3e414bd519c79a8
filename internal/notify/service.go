package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"discset/internal/config"
	"discset/internal/engine"
)

const userAgent = "discset"

// Service is the notification surface used by the CLI.
type Service interface {
	RunCompleted(ctx context.Context, report *engine.Report) error
	RunFailed(ctx context.Context, report *engine.Report, err error) error
	Test(ctx context.Context) error
}

// NewService builds an ntfy-backed service, or a no-op one when
// notify.ntfy_topic is empty.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notify.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	timeout := time.Duration(cfg.Notify.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		onlyOnChanges: cfg.Notify.OnlyOnChanges,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	onlyOnChanges bool
}

func (n *ntfyService) RunCompleted(ctx context.Context, report *engine.Report) error {
	if report == nil {
		return nil
	}
	if n.onlyOnChanges && (report.DryRun || report.Writes() == 0) {
		return nil
	}
	return n.send(ctx, summarize(report))
}

func (n *ntfyService) RunFailed(ctx context.Context, report *engine.Report, runErr error) error {
	var b strings.Builder
	b.WriteString("Run failed")
	if report != nil {
		fmt.Fprintf(&b, " (%s)", shortID(report.RunID))
	}
	if runErr != nil {
		b.WriteString(": ")
		b.WriteString(runErr.Error())
	}
	return n.send(ctx, message{
		title:    "discset - Run Failed",
		body:     b.String(),
		tags:     []string{"discset", "error"},
		priority: "high",
	})
}

func (n *ntfyService) Test(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "discset - Test",
		body:     "Notification test",
		tags:     []string{"discset", "test"},
		priority: "low",
	})
}

// summarize renders the per-kind counts of a run, one per line.
func summarize(report *engine.Report) message {
	var b strings.Builder
	fmt.Fprintf(&b, "%d writes across %d platforms", report.Writes(), len(report.Platforms))
	for _, kc := range report.Counts() {
		fmt.Fprintf(&b, "\n%s: %d", kc.Kind, kc.Count)
	}
	if n := len(report.Orphans); n > 0 {
		fmt.Fprintf(&b, "\nunselected disks: %d", n)
	}

	msg := message{
		title: "discset - Run Complete",
		body:  b.String(),
		tags:  []string{"discset", "run"},
	}
	if report.DryRun {
		msg.title = "discset - Dry Run Complete"
		msg.tags = append(msg.tags, "dry-run")
	}
	if report.Count(engine.KindFailed) > 0 {
		msg.title += " (with failures)"
		msg.priority = "high"
	}
	return msg
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type noopService struct{}

func (noopService) RunCompleted(context.Context, *engine.Report) error     { return nil }
func (noopService) RunFailed(context.Context, *engine.Report, error) error { return nil }
func (noopService) Test(context.Context) error                             { return nil }
