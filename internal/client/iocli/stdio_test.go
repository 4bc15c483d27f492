package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := New(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "newline", input: "user input\n", want: "user input"},
		{name: "crlf", input: "user input\r\n", want: "user input"},
		{name: "no trailing newline", input: "last line", want: "last line"},
		{name: "keeps inner spaces", input: "  padded  \n", want: "  padded  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			stdio := New(strings.NewReader(tt.input), &out)

			result, err := stdio.ReadInput("Prompt: ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
			assert.Equal(t, "Prompt: ", out.String())
		})
	}
}

func TestReadInput_EOF(t *testing.T) {
	stdio := New(strings.NewReader(""), io.Discard)

	_, err := stdio.ReadInput("Prompt: ")
	assert.ErrorIs(t, err, io.EOF)
}

// Пароль и логин из одного pipe читаются последовательно
func TestReadPassword_NonTerminal(t *testing.T) {
	stdio := New(strings.NewReader("alice\ns3cret\n"), io.Discard)

	username, err := stdio.ReadInput("Username: ")
	require.NoError(t, err)
	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)

	assert.Equal(t, "alice", username)
	assert.Equal(t, "s3cret", password)
}

func TestReadPassword_PipeFile(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() {
		_ = r.Close()
	}()

	go func() {
		_, _ = w.Write([]byte("from-pipe\n"))
		_ = w.Close()
	}()

	stdio := New(r, io.Discard)
	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "from-pipe", password)
}
