package gitctx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrNotRepository is returned by Open when no repository encloses the path.
var ErrNotRepository = errors.New("not a git repository")

// shortIDLen is the abbreviation used for commit locators.
const shortIDLen = 7

// Repo is an opened repository.
type Repo struct {
	repo *git.Repository
	root string
}

// Commit is the part of a commit the checks look at.
type Commit struct {
	ID      string
	ShortID string
	Author  string
	Message string
	Parents int
}

// NumParents returns the parent count.
func (c Commit) NumParents() int { return c.Parents }

// Open finds the repository enclosing path, walking up to the .git dir.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", abs, err)
	}
	r := &Repo{repo: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	return r, nil
}

// Root returns the work tree root, or "" for a bare repository.
func (r *Repo) Root() string { return r.root }

// GitDir returns the path of the repository's .git directory.
func (r *Repo) GitDir() (string, error) {
	fs, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository is not on disk")
	}
	return fs.Filesystem().Root(), nil
}

// HooksDir returns core.hooksPath when set, else .git/hooks.
func (r *Repo) HooksDir() (string, error) {
	if p := r.ConfigValue("core", "hooksPath"); p != "" {
		if !filepath.IsAbs(p) && r.root != "" {
			p = filepath.Join(r.root, p)
		}
		return p, nil
	}
	dir, err := r.GitDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hooks"), nil
}

// ConfigValue reads section.key from the repository's git config, or "".
func (r *Repo) ConfigValue(section, key string) string {
	cfg, err := r.repo.Config()
	if err != nil {
		return ""
	}
	var ss *gitconfig.Section
	for _, s := range cfg.Raw.Sections {
		if s.IsName(section) {
			ss = s
		}
	}
	if ss == nil {
		return ""
	}
	return ss.Options.Get(key)
}

// Head returns the commit HEAD points at.
func (r *Repo) Head() (Commit, error) {
	c, err := r.resolve("HEAD")
	if err != nil {
		return Commit{}, err
	}
	return toCommit(c), nil
}

func (r *Repo) resolve(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", rev, err)
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return c, nil
}

func toCommit(c *object.Commit) Commit {
	id := c.Hash.String()
	return Commit{
		ID:      id,
		ShortID: id[:shortIDLen],
		Author:  c.Author.String(),
		Message: c.Message,
		Parents: c.NumParents(),
	}
}

// RevSpec is a parsed revision argument: a single revision, or a From..To
// range. "A...B" is accepted as a range too since both sides are walked from
// their merge base.
type RevSpec struct {
	From    string
	To      string
	IsRange bool
}

// ParseRevSpec splits spec. An empty side of a range means HEAD.
func ParseRevSpec(spec string) (RevSpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return RevSpec{}, errors.New("empty revision")
	}
	sep := ".."
	if strings.Contains(spec, "...") {
		sep = "..."
	}
	from, to, ok := strings.Cut(spec, sep)
	if !ok {
		return RevSpec{From: spec}, nil
	}
	if strings.Contains(to, "..") {
		return RevSpec{}, fmt.Errorf("invalid revision range %q", spec)
	}
	if from == "" {
		from = "HEAD"
	}
	if to == "" {
		to = "HEAD"
	}
	return RevSpec{From: from, To: to, IsRange: true}, nil
}

// Range is the set of commits a RevSpec selects in one repository.
type Range struct {
	spec RevSpec
	from *object.Commit
	to   *object.Commit
	base *object.Commit
}

// Resolve looks up both ends of spec and, for a range, their merge base.
// Errors here mean the revision arguments are wrong.
func (r *Repo) Resolve(spec RevSpec) (*Range, error) {
	from, err := r.resolve(spec.From)
	if err != nil {
		return nil, err
	}
	rg := &Range{spec: spec, from: from}
	if !spec.IsRange {
		return rg, nil
	}

	rg.to, err = r.resolve(spec.To)
	if err != nil {
		return nil, err
	}
	bases, err := from.MergeBase(rg.to)
	if err != nil {
		return nil, fmt.Errorf("finding merge base of %s and %s: %w", spec.From, spec.To, err)
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("%s and %s have no common ancestor", spec.From, spec.To)
	}
	rg.base = bases[0]
	return rg, nil
}

// Diverged returns the merge base when the range start is not an ancestor
// of its end, so the walk starts from the base instead.
func (rg *Range) Diverged() (string, bool) {
	if rg.base == nil || rg.base.Hash == rg.from.Hash {
		return "", false
	}
	return rg.base.Hash.String(), true
}

// ForEach calls fn for each selected commit, newest first. For a range the
// merge base and its ancestors are excluded and the end is included; a
// single revision yields only that commit. A non-nil error from fn stops
// the walk and is returned.
func (rg *Range) ForEach(fn func(Commit) error) error {
	if !rg.spec.IsRange {
		return fn(toCommit(rg.from))
	}

	hidden := map[plumbing.Hash]bool{}
	err := object.NewCommitPreorderIter(rg.base, nil, nil).ForEach(func(c *object.Commit) error {
		hidden[c.Hash] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking history of %s: %w", rg.base.Hash, err)
	}

	iter := object.NewCommitPreorderIter(rg.to, hidden, nil)
	defer iter.Close()
	return iter.ForEach(func(c *object.Commit) error {
		return fn(toCommit(c))
	})
}
