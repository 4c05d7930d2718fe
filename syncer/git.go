package syncer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs one command in dir and returns its combined output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// GitNotifier commits the working tree of a repository and pushes it.
type GitNotifier struct {
	dir    string
	remote string
	branch string
	run    CommandRunner
}

// NewGitNotifier syncs the repository in dir to remote/branch.
func NewGitNotifier(dir, remote, branch string) *GitNotifier {
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}
	return &GitNotifier{dir: dir, remote: remote, branch: branch, run: execRunner}
}

func (g *GitNotifier) Name() string { return "git" }

// Notify stages everything, records an (allowed empty) commit and pushes.
// It stops at the first failing step.
func (g *GitNotifier) Notify(ctx context.Context, message string) error {
	steps := [][]string{
		{"add", "."},
		{"commit", "--allow-empty", "-m", message},
		{"push", g.remote, g.branch},
	}
	for _, args := range steps {
		if out, err := g.run(ctx, g.dir, "git", args...); err != nil {
			return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}
