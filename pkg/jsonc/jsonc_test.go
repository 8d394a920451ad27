package jsonc_test

import (
	"testing"

	"github.com/arthur-debert/ocp/pkg/errors"
	"github.com/arthur-debert/ocp/pkg/jsonc"
	"github.com/arthur-debert/ocp/pkg/jsonvalue"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no_comments",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "url_inside_string_untouched",
			in:   `{"url": "http://example.com"}`,
			want: `{"url": "http://example.com"}`,
		},
		{
			name: "block_marker_inside_string_untouched",
			in:   `{"glob": "src/**/*.ts"}`,
			want: `{"glob": "src/**/*.ts"}`,
		},
		{
			name: "line_comment_keeps_newline",
			in:   "{\n  // the theme\n  \"theme\": \"dark\" // trailing\n}",
			want: "{\n  \n  \"theme\": \"dark\" \n}",
		},
		{
			name: "block_comment_keeps_embedded_newlines",
			in:   "{/* one\ntwo\n*/\"a\": 1}",
			want: "{\n\n\"a\": 1}",
		},
		{
			name: "escaped_quote_does_not_end_string",
			in:   `{"q": "say \"// hi\""} // gone`,
			want: `{"q": "say \"// hi\""} `,
		},
		{
			name: "escaped_backslash_then_quote_ends_string",
			in:   `{"p": "C:\\"} // gone`,
			want: `{"p": "C:\\"} `,
		},
		{
			name: "carriage_return_ends_line_comment",
			in:   "{// x\r\n\"a\":1}",
			want: "{\r\n\"a\":1}",
		},
		{
			name: "unterminated_block_comment_drops_rest",
			in:   "{\"a\":1} /* open",
			want: "{\"a\":1} ",
		},
		{
			name: "multibyte_text_preserved",
			in:   `{"name": "café ☕"} // ünïcode`,
			want: `{"name": "café ☕"} `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jsonc.Strip(tt.in))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("jsonc_comments_stripped", func(t *testing.T) {
		v, err := jsonc.Decode("opencode.jsonc", []byte("{\n// c\n\"url\": \"http://example.com\" /* b */\n}"))
		require.NoError(t, err)
		assert.Equal(t, `{"url":"http://example.com"}`, string(jsonvalue.Marshal(v)))
	})

	t.Run("plain_json_not_stripped", func(t *testing.T) {
		_, err := jsonc.Decode("opencode.json", []byte("{\n// c\n\"a\": 1}"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedConfigFile))
	})

	t.Run("malformed_reports_path", func(t *testing.T) {
		_, err := jsonc.Decode("profiles/base/agent.jsonc", []byte(`{"a": }`))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedConfigFile))
		assert.Equal(t, "profiles/base/agent.jsonc", errors.GetErrorDetails(err)["path"])
	})
}

func TestDecodeFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/opencode.jsonc", []byte(`{"theme": "dark" // c
}`), 0644))

	v, err := jsonc.DecodeFile(fs, "/p/opencode.jsonc")
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(jsonvalue.Marshal(v)))

	_, err = jsonc.DecodeFile(fs, "/p/missing.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedConfigFile))
}

func TestExtensionHelpers(t *testing.T) {
	assert.True(t, jsonc.IsJSONC("a/b.jsonc"))
	assert.False(t, jsonc.IsJSONC("a/b.json"))
	assert.True(t, jsonc.IsJSON("a/b.json"))
	assert.True(t, jsonc.IsJSON("a/b.jsonc"))
	assert.False(t, jsonc.IsJSON("a/b.md"))
	assert.False(t, jsonc.IsJSON("a/json"))
}
