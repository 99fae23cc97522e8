package main

import (
	"math"
	"strings"
	"testing"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		args    []string
		want    config
		wantErr bool
	}{
		{
			name: "server only",
			args: []string{"ftp.example.com"},
			want: config{
				server:   "ftp.example.com",
				username: "anonymous",
				password: "anonymous@example.com",
				maxDepth: math.MaxInt,
				mode:     "dfs",
			},
		},
		{
			name: "full positional surface",
			args: []string{"ftp.example.com", "alice", "secret", "3", "bfs"},
			want: config{
				server:   "ftp.example.com",
				username: "alice",
				password: "secret",
				maxDepth: 3,
				mode:     "bfs",
			},
		},
		{
			name: "mode is case-insensitive",
			args: []string{"ftp.example.com", "alice", "secret", "3", "BFS"},
			want: config{
				server:   "ftp.example.com",
				username: "alice",
				password: "secret",
				maxDepth: 3,
				mode:     "bfs",
			},
		},
		{
			name: "unknown mode falls back to dfs",
			args: []string{"ftp.example.com", "alice", "secret", "3", "sideways"},
			want: config{
				server:   "ftp.example.com",
				username: "alice",
				password: "secret",
				maxDepth: 3,
				mode:     "dfs",
			},
		},
		{
			name: "flags anywhere among positionals",
			args: []string{"--json", "ftp.example.com", "--verbose", "alice"},
			want: config{
				server:   "ftp.example.com",
				username: "alice",
				password: "anonymous@example.com",
				maxDepth: math.MaxInt,
				mode:     "dfs",
				json:     true,
				verbose:  true,
			},
		},
		{
			name: "help short-circuits",
			args: []string{"--help", "ftp.example.com"},
			want: config{
				username: "anonymous",
				password: "anonymous@example.com",
				maxDepth: math.MaxInt,
				mode:     "dfs",
				help:     true,
			},
		},
		{
			name: "no arguments",
			args: nil,
			want: config{
				username: "anonymous",
				password: "anonymous@example.com",
				maxDepth: math.MaxInt,
				mode:     "dfs",
			},
		},
		{
			name:    "invalid max-depth",
			args:    []string{"ftp.example.com", "alice", "secret", "three"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("parseArgs(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_NoServerPrintsUsage(t *testing.T) {
	t.Parallel()
	var stdout, stderr strings.Builder

	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Errorf("run() = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("stdout missing usage text: %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", stderr.String())
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	var stdout, stderr strings.Builder

	if code := run([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Errorf("run(--help) = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("stdout missing usage text: %q", stdout.String())
	}
}

func TestRun_InvalidArguments(t *testing.T) {
	t.Parallel()
	var stdout, stderr strings.Builder

	if code := run([]string{"ftp.example.com", "u", "p", "nope"}, &stdout, &stderr); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid max-depth") {
		t.Errorf("stderr missing parse error: %q", stderr.String())
	}
}
