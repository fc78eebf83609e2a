package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Line(t *testing.T) {
	var out bytes.Buffer
	p := NewReader(strings.NewReader("first\r\nsecond\nlast"), &out)

	for _, want := range []string{"first", "second", "last"} {
		got, err := p.Line("> ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := p.Line("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > > ", out.String())
}

func TestPrompter_SecretWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewReader(strings.NewReader(" s3cret \n"), &out)

	got, err := p.Secret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, " s3cret ", got)
}
