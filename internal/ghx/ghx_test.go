package ghx_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/branchsweep/internal/ghx"
)

// MockRunner implements ghx.Runner for testing.
type MockRunner struct {
	// Responses maps "dir:args" keys to (output, error) pairs.
	Responses map[string]MockResponse
}

type MockResponse struct {
	Output string
	Err    error
}

func (m *MockRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	key := dir + ":" + strings.Join(args, " ")
	if resp, ok := m.Responses[key]; ok {
		return resp.Output, resp.Err
	}
	return "", fmt.Errorf("unexpected call: dir=%q args=%v", dir, args)
}

const mergedQueryKey = "/repo:pr list --author @me --head feature-a --state merged --json number,title,headRefName --limit 1"

var _ = Describe("MergedRequest", func() {
	It("returns the merged request for the branch", func() {
		mock := &MockRunner{Responses: map[string]MockResponse{
			mergedQueryKey: {Output: `[{"number":7,"title":"Speed up parser","headRefName":"feature-a"}]`},
		}}
		req, err := ghx.MergedRequest(context.Background(), mock, "/repo", "feature-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(req).NotTo(BeNil())
		Expect(req.Number).To(Equal(7))
		Expect(req.HeadRef).To(Equal("feature-a"))
	})

	It("returns nil when no merged request exists", func() {
		mock := &MockRunner{Responses: map[string]MockResponse{
			mergedQueryKey: {Output: `[]`},
		}}
		req, err := ghx.MergedRequest(context.Background(), mock, "/repo", "feature-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(req).To(BeNil())
	})

	It("wraps CLI failures", func() {
		mock := &MockRunner{Responses: map[string]MockResponse{
			mergedQueryKey: {Err: errors.New("no git remotes found")},
		}}
		_, err := ghx.MergedRequest(context.Background(), mock, "/repo", "feature-a")
		Expect(err).To(MatchError(ContainSubstring("gh pr list failed")))
	})

	It("rejects malformed JSON", func() {
		mock := &MockRunner{Responses: map[string]MockResponse{
			mergedQueryKey: {Output: "not json"},
		}}
		_, err := ghx.MergedRequest(context.Background(), mock, "/repo", "feature-a")
		Expect(err).To(MatchError(ContainSubstring("parse")))
	})
})
