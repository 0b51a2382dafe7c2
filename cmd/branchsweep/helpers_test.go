package branchsweep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/skaphos/branchsweep/internal/hosting"
	"github.com/skaphos/branchsweep/internal/model"
	"github.com/skaphos/branchsweep/internal/vcs"
)

// stubAdapter is a minimal in-memory vcs.Adapter for command-level tests.
type stubAdapter struct {
	dirty     bool
	branches  []string
	merged    map[string]bool
	remotes   map[string]string
	deleteErr map[string]error
	current   string
	calls     []string
}

func newStubAdapter(branches ...string) *stubAdapter {
	return &stubAdapter{
		branches:  branches,
		merged:    map[string]bool{},
		remotes:   map[string]string{},
		deleteErr: map[string]error{},
	}
}

func (s *stubAdapter) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubAdapter) Name() string { return "stub" }

func (s *stubAdapter) IsRepo(context.Context, string) (bool, error) { return true, nil }

func (s *stubAdapter) WorktreeStatus(context.Context, string) (*model.Worktree, error) {
	if s.dirty {
		return &model.Worktree{Dirty: true, Unstaged: 1}, nil
	}
	return &model.Worktree{}, nil
}

func (s *stubAdapter) DiffStat(context.Context, string) string {
	if s.dirty {
		return " 1 file changed"
	}
	return ""
}

func (s *stubAdapter) LocalBranches(_ context.Context, _ string, mergedInto string) ([]string, error) {
	var out []string
	for _, name := range s.branches {
		if mergedInto != "" && !s.merged[name] && name != mergedInto {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func (s *stubAdapter) BranchExists(_ context.Context, _ string, name string) bool {
	for _, b := range s.branches {
		if b == name {
			return true
		}
	}
	return false
}

func (s *stubAdapter) CurrentBranch(context.Context, string) (string, error) {
	if s.current == "" {
		return "", errors.New("detached HEAD")
	}
	return s.current, nil
}

func (s *stubAdapter) Checkout(_ context.Context, _ string, name string) error {
	s.record("checkout %s", name)
	s.current = name
	return nil
}

func (s *stubAdapter) ConfiguredRemote(_ context.Context, _ string, branch string) string {
	return s.remotes[branch]
}

func (s *stubAdapter) Pull(context.Context, string) error {
	s.record("pull")
	return nil
}

func (s *stubAdapter) PullFrom(_ context.Context, _ string, remote, branch string) error {
	s.record("pull %s %s", remote, branch)
	return nil
}

func (s *stubAdapter) GC(context.Context, string) error {
	s.record("gc")
	return nil
}

func (s *stubAdapter) DeleteBranch(_ context.Context, _ string, name string, force bool) error {
	s.record("delete %s force=%t", name, force)
	if err := s.deleteErr[name]; err != nil {
		return err
	}
	kept := s.branches[:0]
	for _, b := range s.branches {
		if b != name {
			kept = append(kept, b)
		}
	}
	s.branches = kept
	return nil
}

func (s *stubAdapter) Rebase(_ context.Context, _ string, onto string) error {
	s.record("rebase %s onto %s", s.current, onto)
	return nil
}

func (s *stubAdapter) RebaseAbort(context.Context, string) error {
	s.record("rebase-abort")
	return nil
}

func (s *stubAdapter) RevParse(context.Context, string, string) (string, error) {
	return "deadbeef", nil
}

// stubHost answers merged change-request queries from a fixed table.
type stubHost struct {
	reqs map[string]*model.MergedRequest
}

func (s *stubHost) Name() string { return "stub" }

func (s *stubHost) MergedRequest(_ context.Context, _ string, branch string) (*model.MergedRequest, error) {
	return s.reqs[branch], nil
}

// withStubs swaps the adapter, host, and working-directory hooks for one test
// and restores flag state afterwards.
func withStubs(t *testing.T, adapter *stubAdapter, host *stubHost) {
	t.Helper()
	prevAdapter, prevHost, prevGetwd := newAdapter, newHost, getwd
	newAdapter = func() vcs.Adapter { return adapter }
	newHost = func() hosting.Host {
		if host == nil {
			return &stubHost{reqs: map[string]*model.MergedRequest{}}
		}
		return host
	}
	getwd = func() (string, error) { return t.TempDir(), nil }
	t.Cleanup(func() {
		newAdapter, newHost, getwd = prevAdapter, prevHost, prevGetwd
		resetTidyFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})
	resetTidyFlags()
}

func resetTidyFlags() {
	flagVerbose = 0
	flagQuiet = false
	flagConfig = ""
	flagNoColor = false
	flagTrunk = ""
	flagRemote = ""
	flagProtected = ""
	flagRebaseAll = false
	flagSkipGC = false
	flagDryRun = false
	flagYes = false
	flagSkipUpdateCheck = false
}

// runRoot executes the root command with args and captures both streams.
func runRoot(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return stdout, stderr, err
}
