package tool_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codecopilot/schema"
	"codecopilot/tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWriter(t *testing.T, opts ...tool.WriterOption) *tool.ProjectWriter {
	t.Helper()
	w, err := tool.NewProjectWriter(t.TempDir(), opts...)
	require.NoError(t, err)
	return w
}

func TestNewProjectWriterCreatesFreshDirectory(t *testing.T) {
	parent := t.TempDir()

	a, err := tool.NewProjectWriter(parent)
	require.NoError(t, err)
	b, err := tool.NewProjectWriter(parent)
	require.NoError(t, err)

	assert.NotEqual(t, a.Dir(), b.Dir())
	for _, dir := range []string{a.Dir(), b.Dir()} {
		assert.True(t, filepath.IsAbs(dir))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestWriteCreatesFile(t *testing.T) {
	w := newWriter(t)

	res, err := w.Write(schema.FileSpec{Filename: "app.py", Content: "print(1)"})
	require.NoError(t, err)

	assert.Equal(t, "app.py", res.Title)
	assert.Equal(t, filepath.Join(w.Dir(), "app.py"), res.Path)
	assert.Equal(t, 8, res.Bytes)
	assert.False(t, res.Overwrote)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "print(1)", string(data))
}

func TestWriteOverwritesInsteadOfMerging(t *testing.T) {
	w := newWriter(t)
	spec := schema.FileSpec{Filename: "notes.txt", Content: "a much longer first version"}

	_, err := w.Write(spec)
	require.NoError(t, err)
	_, err = w.Write(spec)
	require.NoError(t, err)

	res, err := w.Write(schema.FileSpec{Filename: "notes.txt", Content: "short"})
	require.NoError(t, err)
	assert.True(t, res.Overwrote)

	data, err := os.ReadFile(filepath.Join(w.Dir(), "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestWriteCreatesIntermediateDirectories(t *testing.T) {
	w := newWriter(t)

	_, err := w.Write(schema.FileSpec{Filename: "src/pkg/main.go", Content: "package main\n"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(w.Dir(), "src", "pkg", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestWriteRejectsEscapingPaths(t *testing.T) {
	w := newWriter(t)

	for _, name := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			_, err := w.Write(schema.FileSpec{Filename: name, Content: "x"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tool.ErrPathEscapes))
		})
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(w.Dir()), "outside.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteRejectsEmptyFilenameAndDirectories(t *testing.T) {
	w := newWriter(t)

	_, err := w.Write(schema.FileSpec{Filename: "", Content: "x"})
	assert.Error(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(w.Dir(), "src"), 0755))
	_, err = w.Write(schema.FileSpec{Filename: "src", Content: "x"})
	assert.Error(t, err)
}

func TestWritePlanModeLeavesDiskUntouched(t *testing.T) {
	w := newWriter(t, tool.WithWriterMode(tool.ModePlan))

	res, err := w.Write(schema.FileSpec{Filename: "app.py", Content: "print(1)"})
	require.NoError(t, err)
	assert.True(t, res.Planned)
	assert.Equal(t, "[PLAN] app.py", res.Title)

	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
