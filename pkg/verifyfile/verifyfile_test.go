package verifyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindFileExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node.hostverify")
	writeFile(t, path, "node")

	found, err := FindFile(dir, path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = FindFile(dir, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestFindFileTraversesUp(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "node")

	found, err := FindFile(nested, "")
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindFileStopsAtGit(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".git"), 0o700))
	writeFile(t, filepath.Join(dir, FileName), "node")

	_, err := FindFile(project, "")
	assert.ErrorIs(t, err, ErrNotFound)

	inProject := filepath.Join(project, FileName)
	writeFile(t, inProject, "node")
	found, err := FindFile(project, "")
	require.NoError(t, err)
	assert.Equal(t, inProject, found)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Line
	}{
		{
			name: "commands with and without prefix",
			content: `file /usr/local/bin/polkadot --file --mode-exact 0755
hostverify service polkadot --enabled`,
			want: []Line{
				{Number: 1, Args: []string{"file", "/usr/local/bin/polkadot", "--file", "--mode-exact", "0755"}},
				{Number: 2, Args: []string{"service", "polkadot", "--enabled"}},
			},
		},
		{
			name: "comments and blank lines",
			content: `# polkadot host

user polkadot --shell /sbin/nologin --system # inline
  # indented comment
socket tcp://0.0.0.0:30333
`,
			want: []Line{
				{Number: 3, Args: []string{"user", "polkadot", "--shell", "/sbin/nologin", "--system"}},
				{Number: 5, Args: []string{"socket", "tcp://0.0.0.0:30333"}},
			},
		},
		{
			name:    "quoted words",
			content: `binary /opt/my node/polkadot --min-version ">= 1.0.0, < 2"`,
			want: []Line{
				{Number: 1, Args: []string{"binary", "/opt/my", "node/polkadot", "--min-version", ">= 1.0.0, < 2"}},
			},
		},
		{
			name:    "hash inside a word is kept",
			content: `file /data/polkadot#1 --dir`,
			want: []Line{
				{Number: 1, Args: []string{"file", "/data/polkadot#1", "--dir"}},
			},
		},
		{
			name:    "escaped space",
			content: `file /data/a\ b --dir`,
			want: []Line{
				{Number: 1, Args: []string{"file", "/data/a b", "--dir"}},
			},
		},
		{
			name:    "escaped quotes inside double quotes",
			content: `file "/data/a \"b\" c" --dir`,
			want: []Line{
				{Number: 1, Args: []string{"file", `/data/a "b" c`, "--dir"}},
			},
		},
		{
			name:    "single quotes keep backslashes",
			content: `binary '/opt/a\b'`,
			want: []Line{
				{Number: 1, Args: []string{"binary", `/opt/a\b`}},
			},
		},
		{
			name:    "crlf line endings",
			content: "service polkadot --enabled\r\n",
			want: []Line{
				{Number: 1, Args: []string{"service", "polkadot", "--enabled"}},
			},
		},
		{
			name:    "empty",
			content: "",
			want:    []Line{},
		},
		{
			name:    "bare prefix only",
			content: "hostverify\n",
			want:    []Line{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	_, err := Parse("node\nuser 'polkadot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "node --skip-rpc\n")

	lines, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "hostverify node --skip-rpc", lines[0].String())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
