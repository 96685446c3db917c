package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/committed/internal/config"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config lookup at an empty home and clears the
// environment layer.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	for _, k := range config.Keys {
		t.Setenv("COMMITTED_"+strings.ToUpper(k), "")
	}
}

// noStdin makes the command behave as if stdin were a terminal.
func noStdin(t *testing.T) {
	t.Helper()
	orig := isReadableStdin
	isReadableStdin = func(io.Reader) bool { return false }
	t.Cleanup(func() { isReadableStdin = orig })
}

func run(t *testing.T, stdin io.Reader, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(args, stdin, &out, &errOut)
	return code, out.String(), errOut.String()
}

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

// --- stdin and commit-file modes ---

func TestStdin_Empty(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader(""), "--work-tree", t.TempDir())
	assert.Equal(t, ExitViolations, code)
	assert.Equal(t, "-: error Empty commits are disallowed\n", out)
}

func TestStdin_Wip(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("WIP: bad times ahead"), "--work-tree", t.TempDir())
	assert.Equal(t, ExitViolations, code)
	assert.Equal(t, "-: error Work-in-progress commits must be cleaned up\n", out)
}

func TestStdin_WipAllowed(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("WIP"), "--work-tree", t.TempDir(), "--wip")
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

func TestStdin_Clean(t *testing.T) {
	isolate(t)
	code, out, errOut := run(t, strings.NewReader("Add the parser\n\nIt handles trailers.\n"), "--work-tree", t.TempDir())
	assert.Equal(t, ExitSuccess, code, errOut)
	assert.Empty(t, out)
}

func TestStdin_TrimsCommentLines(t *testing.T) {
	isolate(t)
	msg := "Add the parser\n\n# Please enter the commit message for your changes.\n# Lines starting with '#' will be ignored.\n"
	code, out, _ := run(t, strings.NewReader(msg), "--work-tree", t.TempDir())
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

func TestStdin_JSONFormat(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("WIP: later"), "--work-tree", t.TempDir(), "--format", "JSON")
	assert.Equal(t, ExitViolations, code)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "-", rec["source"])
	assert.Equal(t, "error", rec["severity"])
	assert.Equal(t, map[string]any{"type": "wip"}, rec["content"])
}

func TestStdin_QuietStillFails(t *testing.T) {
	isolate(t)
	code, out, errOut := run(t, strings.NewReader(""), "--work-tree", t.TempDir(), "-q")
	assert.Equal(t, ExitViolations, code)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestStdin_StyleFlag(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("Add the parser"), "--work-tree", t.TempDir(), "--style", "conventional")
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, "Commit is not in Conventional format")

	code, out, _ = run(t, strings.NewReader("fix: Handle empty input"), "--work-tree", t.TempDir(), "--style", "Conventional")
	assert.Equal(t, ExitSuccess, code, out)
}

func TestStdin_LengthFlag(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("Add a new feature flag"), "--work-tree", t.TempDir(), "--subject-length", "5")
	assert.Equal(t, ExitViolations, code)
	assert.Equal(t, "-: error Commit subject is too long, 22 exceeds the max length of 5\n", out)
}

func TestCommitFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte("fixup! Add the parser\n# comment\n"), 0o644))

	code, out, _ := run(t, nil, "--work-tree", dir, "--commit-file", path)
	assert.Equal(t, ExitViolations, code)
	assert.Equal(t, path+": error Fixup commits must be squashed\n", out)

	_, out, _ = run(t, nil, "--work-tree", dir, "--commit-file", path, "--fixup")
	assert.NotContains(t, out, "Fixup commits must be squashed")
}

func TestCommitFile_Stdin(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, strings.NewReader("added stuff."), "--work-tree", t.TempDir(), "--commit-file", "-")
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, "-: error Subject should be in the imperative mood but found `added`")
	assert.Contains(t, out, "-: error Subject should be capitalized but found `added`")
	assert.Contains(t, out, "-: error Subject should not be punctuated but found `.`")
}

func TestCommitFile_Missing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	code, _, errOut := run(t, nil, "--work-tree", dir, "--commit-file", filepath.Join(dir, "nope"))
	assert.Equal(t, ExitRuntimeError, code)
	assert.Contains(t, errOut, "reading commit message")
}

// --- config layering ---

func TestConfigFile_Applied(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.toml"), []byte("subject_length = 5\n"), 0o644))

	code, out, _ := run(t, strings.NewReader("Add a new feature flag"), "--work-tree", dir)
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, "exceeds the max length of 5")

	// Flags beat the file.
	code, _, _ = run(t, strings.NewReader("Add a new feature flag"), "--work-tree", dir, "--subject-length", "0")
	assert.Equal(t, ExitSuccess, code)
}

func TestConfigFile_EnvBeatsFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.toml"), []byte("no_wip = false\n"), 0o644))
	t.Setenv("COMMITTED_NO_WIP", "true")

	code, _, _ := run(t, strings.NewReader("WIP"), "--work-tree", dir)
	assert.Equal(t, ExitViolations, code)
}

func TestConfigFile_YAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.yaml"), []byte("imperative_subject: false\n"), 0o644))

	code, out, _ := run(t, strings.NewReader("Added parser"), "--work-tree", dir)
	assert.Equal(t, ExitSuccess, code, out)
}

func TestConfigFile_UnknownKey(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.toml"), []byte("bogus = 1\n"), 0o644))

	code, _, errOut := run(t, strings.NewReader("Add parser"), "--work-tree", dir)
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "bogus")
}

func TestConfigFile_BadRegex(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "committed.toml"), []byte("ignore_author_re = \"(\"\n"), 0o644))

	code, _, _ := run(t, strings.NewReader("Add parser"), "--work-tree", dir)
	assert.Equal(t, ExitConfigError, code)
}

func TestConfigFlag_Missing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	code, _, _ := run(t, strings.NewReader("Add parser"), "--work-tree", dir, "--config", filepath.Join(dir, "nope.toml"))
	assert.Equal(t, ExitConfigError, code)
}

func TestDumpConfig(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, nil, "--work-tree", t.TempDir(), "--dump-config", "-", "--subject-length", "60")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "subject_length = 60")
	assert.Contains(t, out, "line_length = 72")
	assert.Contains(t, out, `style = "none"`)
}

func TestDumpConfig_File(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	code, _, _ := run(t, nil, "--work-tree", dir, "--dump-config", path)
	require.Equal(t, ExitSuccess, code)

	l, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, l.SubjectLength)
	assert.Equal(t, 50, *l.SubjectLength)
}

// --- usage errors ---

func TestUsageErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "xml"}},
		{"bad color", []string{"--color", "sometimes"}},
		{"bad style", []string{"--style", "angular"}},
		{"negative length", []string{"--line-length", "-1"}},
		{"conflicting pair", []string{"--wip", "--no-wip"}},
		{"unknown flag", []string{"--bogus"}},
		{"two modes", []string{"--commit-file", "-", "--dump-config", "-"}},
		{"too many args", []string{"a..b", "c..d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--work-tree", dir}, tt.args...)
			code, _, errOut := run(t, strings.NewReader("Add parser"), args...)
			assert.Equal(t, ExitUsageError, code)
			assert.True(t, strings.HasPrefix(errOut, "Error: "), errOut)
		})
	}
}

func TestHead_NotRepository(t *testing.T) {
	isolate(t)
	noStdin(t)
	code, _, errOut := run(t, nil, "--work-tree", t.TempDir())
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "not a git repository")
}

// --- repository modes ---

func TestHead(t *testing.T) {
	isolate(t)
	noStdin(t)
	tr := newTestRepo(t)
	tr.commit("Add the parser")
	head := tr.commit("fixed the thing.")

	code, out, _ := run(t, nil, "--work-tree", tr.dir)
	assert.Equal(t, ExitViolations, code)
	short := head.String()[:7]
	assert.Contains(t, out, short+": error Subject should be capitalized but found `fixed`")
	assert.Contains(t, out, short+": error Subject should not be punctuated but found `.`")
}

func TestHead_IgnoredAuthor(t *testing.T) {
	isolate(t)
	noStdin(t)
	tr := newTestRepo(t)
	tr.commit("fixed the thing.")
	t.Setenv("COMMITTED_IGNORE_AUTHOR_RE", "^Ann ")

	code, out, _ := run(t, nil, "--work-tree", tr.dir)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

func TestHead_TraceLogging(t *testing.T) {
	isolate(t)
	noStdin(t)
	tr := newTestRepo(t)
	tr.commit("Add the parser")

	code, _, errOut := run(t, nil, "--work-tree", tr.dir, "-vvvv")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "level=TRACE msg=Processing")
}

func TestRevSpec_Range(t *testing.T) {
	isolate(t)
	tr := newTestRepo(t)
	first := tr.commit("fixed the first thing.")
	tr.commit("Add the parser")
	tr.commit("Add the renderer")

	code, out, errOut := run(t, nil, "--work-tree", tr.dir, first.String()+"..HEAD")
	assert.Equal(t, ExitSuccess, code, errOut)
	assert.Empty(t, out)

	code, out, _ = run(t, nil, "--work-tree", tr.dir, first.String())
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, first.String()[:7]+": error")
}

func TestRevSpec_Unresolvable(t *testing.T) {
	isolate(t)
	tr := newTestRepo(t)
	tr.commit("Add the parser")

	code, _, _ := run(t, nil, "--work-tree", tr.dir, "nosuchbranch..HEAD")
	assert.Equal(t, ExitUsageError, code)
}

func TestRevSpec_MergeCommit(t *testing.T) {
	isolate(t)
	tr := newTestRepo(t)
	base := tr.commit("Add the parser")
	side := tr.commit("Add the renderer", base)
	main := tr.commit("Add the loader", base)
	merge := tr.commit("Merge the renderer", main, side)
	require.NoError(t, tr.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), merge)))

	code, out, _ := run(t, nil, "--work-tree", tr.dir, "--no-merge-commit", base.String()+"..HEAD")
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, merge.String()[:7]+": error Merge commits are disallowed")

	code, out, _ = run(t, nil, "--work-tree", tr.dir, base.String()+"..HEAD")
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

// --- subcommands ---

func TestVersionCmd(t *testing.T) {
	code, out, _ := run(t, nil, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "committed version "+version+"\n", out)
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	tr := newTestRepo(t)

	code, out, _ := run(t, nil, "--work-tree", tr.dir, "config", "init")
	require.Equal(t, ExitSuccess, code)
	path := filepath.Join(tr.dir, config.FileName)
	assert.Contains(t, out, path)

	l, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, l.LineLength)
	assert.Equal(t, 72, *l.LineLength)

	// A second init leaves the file alone.
	require.NoError(t, os.WriteFile(path, []byte("line_length = 80\n"), 0o644))
	code, _, errOut := run(t, nil, "--work-tree", tr.dir, "config", "init")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, "already exists")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line_length = 80\n", string(data))
}

func TestConfigInit_Global(t *testing.T) {
	isolate(t)
	code, _, _ := run(t, nil, "--work-tree", t.TempDir(), "config", "init", "--global")
	require.Equal(t, ExitSuccess, code)

	dir, err := config.ConfigDir()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}

func TestConfigSet(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	code, _, errOut := run(t, nil, "--work-tree", dir, "config", "set", "subject_length", "60")
	require.Equal(t, ExitSuccess, code, errOut)
	code, _, _ = run(t, nil, "--work-tree", dir, "config", "set", "style", "Conventional")
	require.Equal(t, ExitSuccess, code)

	l, err := config.LoadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	require.NotNil(t, l.SubjectLength)
	assert.Equal(t, 60, *l.SubjectLength)
	require.NotNil(t, l.Style)
	assert.Equal(t, "conventional", *l.Style)
	assert.Nil(t, l.LineLength)
}

func TestConfigSet_EmptyAllowedTypes(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	code, _, errOut := run(t, nil, "--work-tree", dir, "config", "set", "allowed_types", "")
	require.Equal(t, ExitSuccess, code, errOut)

	code, out, _ := run(t, strings.NewReader("wat: Handle empty input"), "--work-tree", dir, "--style", "conventional")
	assert.Equal(t, ExitSuccess, code, out)
}

func TestConfigSet_EditsDiscoveredFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "committed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("no_wip: false\n"), 0o644))

	code, _, errOut := run(t, nil, "--work-tree", dir, "config", "set", "line_length", "100")
	require.Equal(t, ExitSuccess, code, errOut)

	l, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, l.NoWip)
	assert.False(t, *l.NoWip)
	require.NotNil(t, l.LineLength)
	assert.Equal(t, 100, *l.LineLength)
}

func TestConfigSet_Invalid(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	code, _, _ := run(t, nil, "--work-tree", dir, "config", "set", "unknownKey", "value")
	assert.Equal(t, ExitConfigError, code)

	code, _, _ = run(t, nil, "--work-tree", dir, "config", "set", "line_length", "long")
	assert.Equal(t, ExitConfigError, code)

	code, _, _ = run(t, nil, "--work-tree", dir, "config", "set", "line_length")
	assert.NotEqual(t, ExitSuccess, code)
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	code, out, _ := run(t, nil, "--work-tree", dir, "config", "show")
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "# defaults\n"), out)
	assert.Contains(t, out, "subject_length = 50")

	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("subject_length = 65\n"), 0o644))
	code, out, _ = run(t, nil, "--work-tree", dir, "config", "show")
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "# "+path+"\n"), out)
	assert.Contains(t, out, "subject_length = 65")
}

func TestConfigFromGitConfig(t *testing.T) {
	isolate(t)
	noStdin(t)
	tr := newTestRepo(t)
	tr.commit("Add a new feature flag")

	require.NoError(t, os.WriteFile(filepath.Join(tr.dir, "policy.toml"), []byte("subject_length = 5\n"), 0o644))
	cfg, err := tr.repo.Config()
	require.NoError(t, err)
	cfg.Raw.Section("committed").SetOption("config", "policy.toml")
	require.NoError(t, tr.repo.SetConfig(cfg))

	code, out, _ := run(t, nil, "--work-tree", tr.dir)
	assert.Equal(t, ExitViolations, code)
	assert.Contains(t, out, "exceeds the max length of 5")
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitViolations)
	assert.Equal(t, 2, ExitRuntimeError)
	assert.Equal(t, 64, ExitUsageError)
	assert.Equal(t, 78, ExitConfigError)
}

func TestVerbosityLevel(t *testing.T) {
	assert.Equal(t, levelOff, verbosityLevel(3, true))
	assert.Equal(t, "ERROR", verbosityLevel(0, false).String())
	assert.Equal(t, "WARN", verbosityLevel(1, false).String())
	assert.Equal(t, "INFO", verbosityLevel(2, false).String())
	assert.Equal(t, "DEBUG", verbosityLevel(3, false).String())
	assert.Equal(t, LevelTrace, verbosityLevel(7, false))
}
