package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
)

func TestParseMetadataLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		key     string
		value   string
		ok      bool
		wantErr bool
	}{
		{name: "plain", line: "-attr: toc = 1", key: "toc", value: "1", ok: true},
		{name: "no spaces", line: "-attr:title=Hi", key: "title", value: "Hi", ok: true},
		{name: "not metadata", line: "toc = 1"},
		{name: "indented is not metadata", line: " -attr: a = b"},
		{name: "missing separator", line: "-attr: nothing", ok: true, wantErr: true},
		{name: "extra separator", line: "-attr: a = b = c", ok: true, wantErr: true},
		{name: "empty key", line: "-attr: = b", ok: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, value, ok, err := grammar.ParseMetadataLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				require.ErrorIs(t, err, grammar.ErrMalformedMetadata)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}
