package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/bumpchart-delta/internal/reconcile"
)

type recordingNotifier struct {
	recipients []string
	messages   []string
}

func (n *recordingNotifier) SendError(recipient, message string) {
	n.recipients = append(n.recipients, recipient)
	n.messages = append(n.messages, message)
}

func TestCollectResultsNotifiesFailures(t *testing.T) {
	results := make(chan reconcile.Result, 2)
	results <- reconcile.Result{
		FilePath:   "/mnt/share/chart.xlsx",
		Success:    true,
		OutputFile: "/run/Delta-Report_chart.xlsx",
	}
	results <- reconcile.Result{
		FilePath: "/mnt/share/broken.xlsx",
		Error:    errors.New("boom"),
	}
	close(results)

	n := &recordingNotifier{}
	attachments, entries, ok, failed := collectResults(results, n, "ops@example.com", false)

	if ok != 1 || failed != 1 {
		t.Errorf("counts = %d ok, %d failed", ok, failed)
	}
	if len(attachments) != 1 || attachments[0] != "/run/Delta-Report_chart.xlsx" {
		t.Errorf("attachments = %v", attachments)
	}
	if len(entries) != 1 || entries[0].FileName != "broken.xlsx" {
		t.Errorf("error entries = %+v", entries)
	}
	if len(n.recipients) != 1 || n.recipients[0] != "ops@example.com" {
		t.Fatalf("error email recipients = %v", n.recipients)
	}
	if !strings.Contains(n.messages[0], "broken.xlsx") || !strings.Contains(n.messages[0], "boom") {
		t.Errorf("error email message = %q", n.messages[0])
	}
}

func TestCollectResultsDryRunStaysQuiet(t *testing.T) {
	results := make(chan reconcile.Result, 1)
	results <- reconcile.Result{FilePath: "broken.xlsx", Error: errors.New("boom")}
	close(results)

	n := &recordingNotifier{}
	_, entries, _, failed := collectResults(results, n, "ops@example.com", true)

	// The failure is still counted and logged, just not mailed.
	if failed != 1 || len(entries) != 1 {
		t.Errorf("failed = %d, entries = %+v", failed, entries)
	}
	if len(n.messages) != 0 {
		t.Errorf("dry run sent error email: %v", n.messages)
	}
}

func TestCollectResultsNoAttachmentForDryRunSuccess(t *testing.T) {
	results := make(chan reconcile.Result, 1)
	results <- reconcile.Result{FilePath: "chart.xlsx", Success: true}
	close(results)

	attachments, _, ok, _ := collectResults(results, &recordingNotifier{}, "", true)
	if ok != 1 || len(attachments) != 0 {
		t.Errorf("ok = %d, attachments = %v", ok, attachments)
	}
}
