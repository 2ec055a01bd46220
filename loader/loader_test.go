package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/poiesic/bookrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestLoad_MissingRoot(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoad_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", []byte("# x"))

	l, err := New()
	require.NoError(t, err)

	_, err = l.Load(context.Background(), filepath.Join(root, "file.md"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoad_EmptyRoot(t *testing.T) {
	l, err := New()
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_RecursiveWithRelativePages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "intro.md", []byte("# Introduction\n\nWelcome."))
	writeFile(t, root, "module-1/ros2.md", []byte("# ROS 2\n\n## Nodes\n\nText."))
	writeFile(t, root, "module-1/notes.txt", []byte("ignored"))
	writeFile(t, root, "module-2/deep/SIM.MD", []byte("Plain text, no heading."))

	l, err := New()
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "intro.md", docs[0].Page)
	assert.Equal(t, []string{"Introduction"}, docs[0].Headings)
	assert.Equal(t, "# Introduction\n\nWelcome.", docs[0].Content)

	assert.Equal(t, "module-1/ros2.md", docs[1].Page)
	assert.Equal(t, []string{"ROS 2", "Nodes"}, docs[1].Headings)

	assert.Equal(t, "module-2/deep/SIM.MD", docs[2].Page)
	assert.Empty(t, docs[2].Headings)
	assert.Equal(t, "", docs[2].FirstHeading())
}

func TestLoad_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", []byte("# A"))
	writeFile(t, root, "b.mdx", []byte("# B"))

	l, err := New(WithExtensions("mdx", ".MD"))
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Page)
	assert.Equal(t, "b.mdx", docs[1].Page)
}

func TestLoad_SkipsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bad.md", []byte{0xff, 0xfe, 0xfd})
	writeFile(t, root, "good.md", []byte("# Good"))

	l, err := New()
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good.md", docs[0].Page)
}

func TestLoad_SkipsUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFile(t, root, "locked.md", []byte("# Locked"))
	writeFile(t, root, "open.md", []byte("# Open"))
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.md"), 0000))

	l, err := New()
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "open.md", docs[0].Page)
}

func TestLoad_FrontMatter(t *testing.T) {
	root := t.TempDir()
	content := "---\ntitle: Sensors and Perception\nsidebar_position: 2\n---\n\n# Sensors\n\nBody."
	writeFile(t, root, "sensors.md", []byte(content))

	l, err := New()
	require.NoError(t, err)

	docs, err := l.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Sensors and Perception", docs[0].Title)
	assert.Equal(t, []string{"Sensors"}, docs[0].Headings)
	assert.Equal(t, content, docs[0].Content)
}

func TestLoad_ContextCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", []byte("# A"))

	l, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithExtensions_Invalid(t *testing.T) {
	_, err := New(WithExtensions())
	assert.Error(t, err)
	_, err = New(WithExtensions(" "))
	assert.Error(t, err)
}
