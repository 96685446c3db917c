package gitctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo, when: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// commit records an empty commit. With no parents it builds on HEAD.
func (tr *testRepo) commit(msg string, parents ...plumbing.Hash) plumbing.Hash {
	tr.t.Helper()
	wt, err := tr.repo.Worktree()
	require.NoError(tr.t, err)
	tr.when = tr.when.Add(time.Minute)
	h, err := wt.Commit(msg, &git.CommitOptions{
		Author:            &object.Signature{Name: "Ann", Email: "ann@example.com", When: tr.when},
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(tr.t, err)
	return h
}

func (tr *testRepo) branch(name string, h plumbing.Hash) {
	tr.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), h)
	require.NoError(tr.t, tr.repo.Storer.SetReference(ref))
}

func (tr *testRepo) open() *Repo {
	tr.t.Helper()
	r, err := Open(tr.dir)
	require.NoError(tr.t, err)
	return r
}

func walk(t *testing.T, r *Repo, spec string) []string {
	t.Helper()
	rs, err := ParseRevSpec(spec)
	require.NoError(t, err)
	rg, err := r.Resolve(rs)
	require.NoError(t, err)
	var msgs []string
	require.NoError(t, rg.ForEach(func(c Commit) error {
		msgs = append(msgs, c.Message)
		return nil
	}))
	return msgs
}

func TestOpen_NotRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestOpen_Subdirectory(t *testing.T) {
	tr := newTestRepo(t)
	sub := filepath.Join(tr.dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	r, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, tr.dir, r.Root())
}

func TestHooksDir(t *testing.T) {
	tr := newTestRepo(t)
	r := tr.open()

	dir, err := r.HooksDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tr.dir, ".git", "hooks"), dir)

	cfg, err := tr.repo.Config()
	require.NoError(t, err)
	cfg.Raw.Section("core").SetOption("hooksPath", ".githooks")
	require.NoError(t, tr.repo.SetConfig(cfg))

	dir, err = tr.open().HooksDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tr.dir, ".githooks"), dir)
}

func TestConfigValue(t *testing.T) {
	tr := newTestRepo(t)
	cfg, err := tr.repo.Config()
	require.NoError(t, err)
	cfg.Raw.Section("committed").SetOption("config", "tools/committed.toml")
	require.NoError(t, tr.repo.SetConfig(cfg))

	r := tr.open()
	assert.Equal(t, "tools/committed.toml", r.ConfigValue("committed", "config"))
	assert.Empty(t, r.ConfigValue("committed", "missing"))
	assert.Empty(t, r.ConfigValue("nosuch", "config"))
}

func TestHead(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("Initial commit\n")
	h := tr.commit("Add parser\n\nBody\n")

	c, err := tr.open().Head()
	require.NoError(t, err)
	assert.Equal(t, h.String(), c.ID)
	assert.Equal(t, h.String()[:7], c.ShortID)
	assert.Equal(t, "Ann <ann@example.com>", c.Author)
	assert.Equal(t, "Add parser\n\nBody\n", c.Message)
	assert.Equal(t, 1, c.NumParents())
}

func TestHead_EmptyRepository(t *testing.T) {
	tr := newTestRepo(t)
	_, err := tr.open().Head()
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit("one")
	c2 := tr.commit("two")
	c3 := tr.commit("three")
	tr.branch("main", c3)
	r := tr.open()

	assert.Equal(t, []string{"three"}, walk(t, r, "main"))
	assert.Equal(t, []string{"two"}, walk(t, r, c2.String()))
	assert.Equal(t, []string{"three", "two"}, walk(t, r, c1.String()+"..main"))
	assert.Equal(t, []string{"three"}, walk(t, r, "HEAD~1.."))
	assert.Equal(t, []string{"three", "two"}, walk(t, r, "HEAD~2...HEAD"))
	assert.Empty(t, walk(t, r, "main.."+c1.String()))
}

func TestRange_DivergedUsesMergeBase(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit("one")
	c2 := tr.commit("two")
	f1 := tr.commit("feature", c1)
	tr.branch("main", c2)
	tr.branch("feature", f1)
	r := tr.open()

	rs, err := ParseRevSpec("feature..main")
	require.NoError(t, err)

	rg, err := r.Resolve(rs)
	require.NoError(t, err)
	base, diverged := rg.Diverged()
	assert.True(t, diverged)
	assert.Equal(t, c1.String(), base)
	assert.Equal(t, []string{"two"}, walk(t, r, "feature..main"))

	rg, err = r.Resolve(RevSpec{From: c1.String(), To: "main", IsRange: true})
	require.NoError(t, err)
	_, diverged = rg.Diverged()
	assert.False(t, diverged)
}

func TestRange_MergeCommit(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit("one")
	c2 := tr.commit("two")
	f1 := tr.commit("feature", c1)
	m := tr.commit("Merge feature", c2, f1)
	tr.branch("main", m)
	r := tr.open()

	rs, err := ParseRevSpec(c1.String() + "..main")
	require.NoError(t, err)
	rg, err := r.Resolve(rs)
	require.NoError(t, err)
	parents := map[string]int{}
	require.NoError(t, rg.ForEach(func(c Commit) error {
		parents[c.Message] = c.NumParents()
		return nil
	}))
	assert.Equal(t, map[string]int{"Merge feature": 2, "two": 1, "feature": 1}, parents)
}

func TestRange_BadRevision(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("one")
	r := tr.open()

	rs, err := ParseRevSpec("nosuchbranch..HEAD")
	require.NoError(t, err)
	_, err = r.Resolve(rs)
	assert.Error(t, err)

	_, err = r.Resolve(RevSpec{From: "nosuchbranch"})
	assert.Error(t, err)
}

func TestRange_StopsOnError(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit("one")
	tr.commit("two")
	tr.commit("three")
	r := tr.open()

	rs, err := ParseRevSpec(c1.String() + "..HEAD")
	require.NoError(t, err)
	rg, err := r.Resolve(rs)
	require.NoError(t, err)
	calls := 0
	err = rg.ForEach(func(Commit) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestParseRevSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    RevSpec
		wantErr bool
	}{
		{"HEAD", RevSpec{From: "HEAD"}, false},
		{"main..feature", RevSpec{From: "main", To: "feature", IsRange: true}, false},
		{"main...feature", RevSpec{From: "main", To: "feature", IsRange: true}, false},
		{"main..", RevSpec{From: "main", To: "HEAD", IsRange: true}, false},
		{"..feature", RevSpec{From: "HEAD", To: "feature", IsRange: true}, false},
		{" v1.0..v2.0 ", RevSpec{From: "v1.0", To: "v2.0", IsRange: true}, false},
		{"", RevSpec{}, true},
		{"a..b..c", RevSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRevSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
