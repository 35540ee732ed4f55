package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	origRP, origIT := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return pw, err }
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() { readPassword, isTerminal = origRP, origIT })
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("secret"), nil)

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), &out)
	require.Error(t, err)
}

func TestGetPassword_PipedInput(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	pw, err := GetPassword(rdr("piped-secret\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("piped-secret"), pw)
}

func TestGetYesNo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     bool
		want    bool
		wantErr bool
	}{
		{name: "empty picks default yes", input: "\n", def: true, want: true},
		{name: "empty picks default no", input: "\n", def: false, want: false},
		{name: "y", input: "y\n", want: true},
		{name: "YES", input: "YES\n", want: true},
		{name: "no", input: "no\n", def: true, want: false},
		{name: "garbage", input: "maybe\n", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetYesNo(rdr(tc.input), "Remember me?", tc.def, &out)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
