package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer

	got, err := promptLine(reader("  Water Lilies \n"), &out, "Title")
	require.NoError(t, err)
	assert.Equal(t, "Water Lilies", got)
	assert.Equal(t, "Title: ", out.String())

	got, err = promptLine(reader("Monet"), &out, "Artist")
	require.NoError(t, err)
	assert.Equal(t, "Monet", got)

	_, err = promptLine(reader(""), &out, "Year")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"stops at blank line", "oil on canvas\npond at Giverny\n\nignored\n", "oil on canvas\npond at Giverny"},
		{"crlf input", "first\r\nsecond\r\n\r\n", "first\nsecond"},
		{"eof without blank line", "only line", "only line"},
		{"empty", "\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptText(reader(tt.in), &out, "Description")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Description (blank line ends):")
		})
	}
}

func TestPromptPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	var out bytes.Buffer
	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	pw, err := promptPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "secret1", string(pw))
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = promptPassword(&out)
	assert.Error(t, err)
}
