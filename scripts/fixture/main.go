// SPDX-License-Identifier: MIT

// Command fixture builds a throwaway git repository for exercising
// branchsweep by hand. The generated repo has a trunk plus three kinds of
// branches: merged into the trunk (ancestry detectable), squash-merged (the
// change landed but the branch tip is not an ancestor), and unmerged work in
// progress.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

func main() {
	dir := flag.String("dir", "", "target directory (default: a fresh temp dir)")
	trunk := flag.String("trunk", "master", "trunk branch name")
	merged := flag.Int("merged", 2, "number of merged branches")
	squashed := flag.Int("squashed", 2, "number of squash-merged branches")
	unmerged := flag.Int("unmerged", 1, "number of unmerged branches")
	dirty := flag.Bool("dirty", false, "leave an uncommitted change in the working tree")
	flag.Parse()

	target := *dir
	if target == "" {
		tmp, err := os.MkdirTemp("", "branchsweep-fixture-*")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		target = tmp
	}

	plan := fixturePlan(*trunk, *merged, *squashed, *unmerged, *dirty)
	for _, step := range plan {
		if err := step.apply(target); err != nil {
			fmt.Fprintf(os.Stderr, "fixture step failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("fixture repo ready: %s\n", target)
	fmt.Printf("  trunk: %s, merged: %d, squashed: %d, unmerged: %d\n",
		*trunk, *merged, *squashed, *unmerged)
	fmt.Printf("run: cd %s && BRANCHSWEEP_TEST=1 branchsweep\n", target)
}

// step is one unit of fixture construction: either a git invocation or a
// file write in the repo.
type step struct {
	git  []string
	file string
	body string
}

func (s step) apply(dir string) error {
	if s.file != "" {
		return os.WriteFile(filepath.Join(dir, s.file), []byte(s.body), 0o644)
	}
	cmd := exec.Command("git", s.git...)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %v: %w\n%s", s.git, err, output.String())
	}
	return nil
}

// fixturePlan lays out the construction steps for a fixture repo. Squash
// branches get an extra filler commit so their tips never become trunk
// ancestors when the content is committed to the trunk separately.
func fixturePlan(trunk string, merged, squashed, unmerged int, dirty bool) []step {
	plan := []step{
		{git: []string{"init", "-b", trunk}},
		{git: []string{"config", "user.email", "fixture@example.invalid"}},
		{git: []string{"config", "user.name", "fixture"}},
		{file: "README.md", body: "fixture repo\n"},
		{git: []string{"add", "."}},
		{git: []string{"commit", "-m", "initial commit"}},
	}

	for i := 0; i < merged; i++ {
		branch := fmt.Sprintf("merged-%d", i+1)
		file := fmt.Sprintf("merged-%d.txt", i+1)
		plan = append(plan,
			step{git: []string{"checkout", "-b", branch}},
			step{file: file, body: branch + "\n"},
			step{git: []string{"add", "."}},
			step{git: []string{"commit", "-m", "work on " + branch}},
			step{git: []string{"checkout", trunk}},
			step{git: []string{"merge", "--no-ff", "-m", "merge " + branch, branch}},
		)
	}

	for i := 0; i < squashed; i++ {
		branch := fmt.Sprintf("squashed-%d", i+1)
		file := fmt.Sprintf("squashed-%d.txt", i+1)
		plan = append(plan,
			step{git: []string{"checkout", "-b", branch}},
			step{file: file, body: branch + "\n"},
			step{git: []string{"add", "."}},
			step{git: []string{"commit", "-m", "work on " + branch}},
			step{file: file + ".wip", body: "scratch\n"},
			step{git: []string{"add", "."}},
			step{git: []string{"commit", "-m", "wip on " + branch}},
			step{git: []string{"checkout", trunk}},
			// Land the same content as one squashed commit on the trunk.
			step{file: file, body: branch + "\n"},
			step{git: []string{"add", "."}},
			step{git: []string{"commit", "-m", "squash " + branch + " (#" + fmt.Sprint(i+1) + ")"}},
		)
	}

	for i := 0; i < unmerged; i++ {
		branch := fmt.Sprintf("wip-%d", i+1)
		file := fmt.Sprintf("wip-%d.txt", i+1)
		plan = append(plan,
			step{git: []string{"checkout", "-b", branch}},
			step{file: file, body: branch + "\n"},
			step{git: []string{"add", "."}},
			step{git: []string{"commit", "-m", "work on " + branch}},
			step{git: []string{"checkout", trunk}},
		)
	}

	if dirty {
		plan = append(plan, step{file: "README.md", body: "fixture repo, edited\n"})
	}
	return plan
}
