package tree

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormatted(t *testing.T) {
	tr, _ := sample(t)

	var b strings.Builder
	require.NoError(t, tr.WriteFormatted(&b))
	assert.Equal(t, "0\n├── 1\n│   └── 2\n└── 3\n", b.String())
}

func TestWriteFormattedEmpty(t *testing.T) {
	tr := New[int]()
	var b strings.Builder
	require.NoError(t, tr.WriteFormatted(&b))
	assert.Equal(t, "", b.String())
}

func TestWriteFormattedClosedRails(t *testing.T) {
	tr, h := sample(t)
	_, err := tr.Insert(NewNode(4), UnderNode(h[3]))
	require.NoError(t, err)
	_, err = tr.Insert(NewNode(5), UnderNode(h[2]))
	require.NoError(t, err)

	want := "" +
		"0\n" +
		"├── 1\n" +
		"│   └── 2\n" +
		"│       └── 5\n" +
		"└── 3\n" +
		"    └── 4\n"
	assert.Equal(t, want, tr.String())
}

func TestWriteSubtreeWithLabel(t *testing.T) {
	tr, h := sample(t)

	var b strings.Builder
	require.NoError(t, tr.WriteSubtree(&b, h[1], func(v int) string { return "#" + strconv.Itoa(v) }))
	assert.Equal(t, "#1\n└── #2\n", b.String())

	_, err := tr.Remove(h[1], DropChildren)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.WriteSubtree(&b, h[1], strconv.Itoa), ErrInvalidHandle)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFormattedPropagatesWriteError(t *testing.T) {
	tr, _ := sample(t)
	assert.EqualError(t, tr.WriteFormatted(failingWriter{}), "disk full")
}
