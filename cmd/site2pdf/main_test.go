package main

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run([]string{"site2pdf"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: site2pdf") {
		t.Errorf("stderr = %q, want usage text", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"version", "--version", "-V"} {
		env, stdout, _ := testEnv()
		if code := run([]string{"site2pdf", arg}, env); code != ExitSuccess {
			t.Errorf("%s: exit code = %d, want 0", arg, code)
		}
		if !strings.Contains(stdout.String(), "site2pdf") {
			t.Errorf("%s: stdout = %q", arg, stdout.String())
		}
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run([]string{"site2pdf", "help"}, env); code != ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Commands:") {
		t.Errorf("stdout = %q, want command list", stdout.String())
	}
}

func TestRun_HelpCrawl(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run([]string{"site2pdf", "help", "crawl"}, env); code != ExitSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
	for _, want := range []string{"--pattern", "--max-depth", "--doc-title", "--no-individual"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("crawl help missing %q", want)
		}
	}
}

func TestRun_HelpUnknownCommand(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	run([]string{"site2pdf", "help", "frobnicate"}, env)
	if !strings.Contains(stderr.String(), "Unknown command") {
		t.Errorf("stderr = %q, want unknown command notice", stderr.String())
	}
}

func TestRun_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := run([]string{"site2pdf", "--frobnicate"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

func TestRun_MissingSeedURL(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run([]string{"site2pdf", "--quiet"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "seed URL") {
		t.Errorf("stderr = %q, want seed URL error", stderr.String())
	}
}

func TestRun_InvalidTimeoutFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	code := run([]string{"site2pdf", "https://docs.example.com", "-t", "bogus", "-q"}, env)
	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}
