package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/earley/ebnf"
)

const listGrammar = `
List   = "[" [ Items ] "]" .
Items  = ident { "," ident } .
ident  = letter { letter } .
letter = "a" … "z" .
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeGrammar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(listGrammar), 0o644))
	return path
}

func TestExample_Math(t *testing.T) {
	out, err := run(t, "", "example", "math")
	require.NoError(t, err)
	require.Contains(t, out, "       ENTRY ::= SUM\n")
	require.Contains(t, out, "Null Set\n\n")
	require.Contains(t, out, " === 9 ===\n")
	require.True(t, strings.HasSuffix(out, "Parse succeeded.\n"), out)
}

func TestExample_Nullable(t *testing.T) {
	out, err := run(t, "", "example", "nullable")
	require.NoError(t, err)
	require.Contains(t, out, "    A is null.\n")
	require.Contains(t, out, "    B is null.\n")
	require.True(t, strings.HasSuffix(out, "Parse succeeded.\n"), out)
}

func TestExample_Rejected(t *testing.T) {
	out, err := run(t, "", "example", "unbalanced")
	require.True(t, errors.Is(err, errRejected), "got %v", err)
	require.True(t, strings.HasSuffix(out, "Parse failed.\n"), out)

	out, err = run(t, "", "example", "unbalanced", "--format", "json")
	require.True(t, errors.Is(err, errRejected), "got %v", err)
	require.Contains(t, out, `"accepted": false`)
}

func TestExample_JSON(t *testing.T) {
	out, err := run(t, "", "example", "math", "--format", "json")
	require.NoError(t, err)

	var data struct {
		Accepted bool `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.True(t, data.Accepted)
}

func TestExample_Unknown(t *testing.T) {
	_, err := run(t, "", "example", "lisp")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "", "check", writeGrammar(t), "--start", "List")
	require.NoError(t, err)
	require.Contains(t, out, "        List ::= \"[\" List.opt1 \"]\"\n")
	require.Contains(t, out, "    List.opt1 is null.\n")
}

func TestRecognize(t *testing.T) {
	path := writeGrammar(t)

	out, err := run(t, "", "recognize", path, "--start", "List", "[a,", "bc]")
	require.NoError(t, err)
	require.Equal(t, "Parse succeeded.\n", out)

	out, err = run(t, "[a b]", "recognize", path, "--start", "List")
	require.True(t, errors.Is(err, errRejected), "got %v", err)
	require.Equal(t, "Parse failed.\n", out)
}

func TestRecognize_File(t *testing.T) {
	path := writeGrammar(t)
	input := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("[ x ]\n"), 0o644))

	out, err := run(t, "", "recognize", path, "--start", "List", "--file", input, "--chart")
	require.NoError(t, err)
	require.Contains(t, out, " === 3 ===\n")
	require.True(t, strings.HasSuffix(out, "Parse succeeded.\n"), out)
}

func TestRecognize_Errors(t *testing.T) {
	path := writeGrammar(t)

	_, err := run(t, "", "recognize", path, "[]")
	require.Error(t, err, "missing --start")

	_, err = run(t, "", "recognize", path, "--start", "List", "--format", "xml", "[]")
	require.Error(t, err)

	_, err = run(t, "", "recognize", path, "--start", "List", "--skip", "(", "[]")
	require.Error(t, err)
}

func TestReplSession(t *testing.T) {
	r, err := newRecognizer(writeGrammar(t), "List", "")
	require.NoError(t, err)
	s := &replSession{recognizer: r}

	steps := []struct {
		line string
		want string
		quit bool
	}{
		{"[a,bc]", "accepted\n", false},
		{"[a b]", "rejected\n", false},
		{":chart", "chart on\n", false},
		{"[]", "", false},
		{" :chart ", "chart off\n", false},
		{":help", "unknown command :help\n", false},
		{":quit", "", true},
	}
	for _, step := range steps {
		var out bytes.Buffer
		quit, err := s.handle(step.line, &out)
		require.NoError(t, err, step.line)
		require.Equal(t, step.quit, quit, step.line)
		if step.line == "[]" {
			require.Contains(t, out.String(), " === 2 ===\n")
			require.True(t, strings.HasSuffix(out.String(), "accepted\n"), out.String())
			continue
		}
		require.Equal(t, step.want, out.String(), step.line)
	}
}

func TestReplSession_Skip(t *testing.T) {
	r, err := newRecognizer(writeGrammar(t), "List", ebnf.DefaultSkip)
	require.NoError(t, err)
	s := &replSession{recognizer: r}

	var out bytes.Buffer
	quit, err := s.handle("[ a , b ]", &out)
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, "accepted\n", out.String())
}
