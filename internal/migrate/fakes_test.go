package migrate

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/spiffcs/bbmigrate/internal/model"
	"github.com/spiffcs/bbmigrate/internal/poll"
)

var errBoom = errors.New("boom")

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

func testPolicy() poll.Policy {
	return poll.Policy{
		Interval: 10 * time.Second,
		Timeout:  30 * time.Minute,
		Clock:    &fakeClock{now: time.Unix(0, 0)},
	}
}

type fakeSource struct {
	repos   []model.RepositoryDescriptor
	listErr error // yielded after all repos
	prs     map[string][]model.PullRequestRecord
	prErr   map[string]error
	prCalls []string
}

func (s *fakeSource) Repositories(_ context.Context) iter.Seq2[model.RepositoryDescriptor, error] {
	return func(yield func(model.RepositoryDescriptor, error) bool) {
		for _, r := range s.repos {
			if !yield(r, nil) {
				return
			}
		}
		if s.listErr != nil {
			yield(model.RepositoryDescriptor{}, s.listErr)
		}
	}
}

func (s *fakeSource) PullRequests(_ context.Context, slug string) ([]model.PullRequestRecord, error) {
	s.prCalls = append(s.prCalls, slug)
	if err := s.prErr[slug]; err != nil {
		return nil, err
	}
	return s.prs[slug], nil
}

func (s *fakeSource) CloneURL(slug string) string {
	return "https://jdoe@bitbucket.org/ws/" + slug + ".git"
}

// fakeDestination records every call as a short string and fails the ones
// configured in fail, keyed by the recorded call.
type fakeDestination struct {
	calls    []string
	fail     map[string]error
	statuses map[string][]model.ImportStatus
	polls    map[string]int
	requests []model.ImportRequest
	nextPR   int
}

func newFakeDestination() *fakeDestination {
	return &fakeDestination{
		fail:     map[string]error{},
		statuses: map[string][]model.ImportStatus{},
		polls:    map[string]int{},
	}
}

func (d *fakeDestination) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	d.calls = append(d.calls, call)
	return d.fail[call]
}

func (d *fakeDestination) called(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (d *fakeDestination) CreateRepository(_ context.Context, req model.CreateRepositoryRequest) (string, error) {
	if err := d.record("create %s/%s private=%t", req.Organization, req.Name, req.Private); err != nil {
		return "", err
	}
	return req.Name, nil
}

func (d *fakeDestination) GrantTeamPermission(_ context.Context, org, team, repo, permission string) error {
	return d.record("team %s/%s %s %s", org, team, repo, permission)
}

func (d *fakeDestination) SetActionsEnabled(_ context.Context, owner, repo string, enabled bool) error {
	return d.record("actions %s/%s %t", owner, repo, enabled)
}

func (d *fakeDestination) ReplaceTopics(_ context.Context, owner, repo string, topics []string) error {
	return d.record("topics %s/%s %s", owner, repo, strings.Join(topics, ","))
}

func (d *fakeDestination) StartImport(_ context.Context, owner, repo string, req model.ImportRequest) (model.ImportJob, error) {
	d.requests = append(d.requests, req)
	if err := d.record("import %s/%s", owner, repo); err != nil {
		return model.ImportJob{}, err
	}
	return model.ImportJob{Status: model.ImportStatusDetecting}, nil
}

// ImportStatus returns the configured statuses in order, repeating the last
// one. Repositories without configured statuses complete immediately.
func (d *fakeDestination) ImportStatus(_ context.Context, owner, repo string) (model.ImportStatus, error) {
	n := d.polls[repo]
	d.polls[repo] = n + 1
	if err := d.fail["status "+owner+"/"+repo]; err != nil {
		return "", err
	}
	seq := d.statuses[repo]
	if len(seq) == 0 {
		return model.ImportStatusComplete, nil
	}
	if n >= len(seq) {
		n = len(seq) - 1
	}
	return seq[n], nil
}

func (d *fakeDestination) CreatePullRequest(_ context.Context, owner, repo string, pr model.NewPullRequest) (int, error) {
	if err := d.record("pr %s/%s %s->%s %s", owner, repo, pr.Head, pr.Base, pr.Title); err != nil {
		return 0, err
	}
	d.nextPR++
	return d.nextPR, nil
}

func (d *fakeDestination) AddLabels(_ context.Context, owner, repo string, number int, labels []string) error {
	return d.record("labels %s/%s #%d %s", owner, repo, number, strings.Join(labels, ","))
}

func (d *fakeDestination) SetDefaultBranch(_ context.Context, owner, repo, branch string) error {
	return d.record("branch %s/%s %s", owner, repo, branch)
}

var _ DestinationPlatform = (*fakeDestination)(nil)
var _ SourcePlatform = (*fakeSource)(nil)
