package jsdoc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mdxgen/internal/model"
)

func TestParseCounterBlock(t *testing.T) {
	raw := `/**
 * Represents a counter.
 * @param {number} [start=0] - initial value
 * @returns {Counter} a new counter
 * @example
 * const c = new Counter(5);
 */`

	doc := Parse(raw)

	want := model.ParsedJSDoc{
		Description: "Represents a counter.",
		Summary:     "Represents a counter.",
		Params: []model.Param{
			{Name: "start", Type: "number", Optional: true, Default: "0", Description: "initial value"},
		},
		Returns:    &model.Returns{Type: "Counter", Description: "a new counter"},
		Examples:   []model.Example{{Caption: "", Code: "const c = new Counter(5);"}},
		Visibility: model.Public,
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAcceptsMissingDelimiters(t *testing.T) {
	withDelims := Parse("/**\n * Adds two numbers.\n * @param {number} a - left\n */")
	without := Parse("Adds two numbers.\n@param {number} a - left")
	assert.Equal(t, withDelims, without)
}

func TestParamForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.Param
	}{
		{
			name: "typed",
			in:   "{string} name - the user name",
			want: model.Param{Name: "name", Type: "string", Description: "the user name"},
		},
		{
			name: "typed optional with default",
			in:   "{number} [start=0] - initial value",
			want: model.Param{Name: "start", Type: "number", Optional: true, Default: "0", Description: "initial value"},
		},
		{
			name: "name then type",
			in:   "name {string} the user name",
			want: model.Param{Name: "name", Type: "string", Description: "the user name"},
		},
		{
			name: "colon type",
			in:   "name:string the user name",
			want: model.Param{Name: "name", Type: "string", Description: "the user name"},
		},
		{
			name: "bare with dash",
			in:   "name - the user name",
			want: model.Param{Name: "name", Type: "any", Description: "the user name"},
		},
		{
			name: "bare without dash",
			in:   "name the user name",
			want: model.Param{Name: "name", Type: "any", Description: "the user name"},
		},
		{
			name: "nested generic type",
			in:   "{Array<{id: string}>} items - rows to insert",
			want: model.Param{Name: "items", Type: "Array<{id: string}>", Description: "rows to insert"},
		},
		{
			name: "closure optional marker",
			in:   "{string=} label - display label",
			want: model.Param{Name: "label", Type: "string", Optional: true, Description: "display label"},
		},
		{
			name: "dotted property",
			in:   "{boolean} [options.force] - overwrite existing",
			want: model.Param{Name: "options.force", Type: "boolean", Optional: true, Description: "overwrite existing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseParam(tt.in))
		})
	}
}

// Every accepted @param spelling of the same parameter serializes identically.
func TestParamFormsSerializeIdentically(t *testing.T) {
	forms := []string{
		"{string} name - the user name",
		"name {string} the user name",
		"name:string the user name",
	}
	for _, f := range forms {
		doc := Parse("@param " + f)
		require.Len(t, doc.Params, 1, f)
		assert.Equal(t, "name: string - the user name", doc.Params[0].String(), f)
	}
}

func TestParamContinuationLines(t *testing.T) {
	doc := Parse(`/**
 * @param {Object} options - connection options
 *   used when dialing the server
 * @param {number} retries - how often to retry
 */`)

	require.Len(t, doc.Params, 2)
	assert.Equal(t, "connection options used when dialing the server", doc.Params[0].Description)
	assert.Equal(t, "how often to retry", doc.Params[1].Description)
}

func TestReturnsAndThrows(t *testing.T) {
	doc := Parse(`/**
 * @return {Promise<void>} resolves when flushed
 * @throws {TypeError} when closed
 * @exception something odd
 */`)

	require.NotNil(t, doc.Returns)
	assert.Equal(t, model.Returns{Type: "Promise<void>", Description: "resolves when flushed"}, *doc.Returns)
	assert.Equal(t, []model.Throws{
		{Type: "TypeError", Description: "when closed"},
		{Type: "Error", Description: "something odd"},
	}, doc.Throws)

	untyped := Parse("@returns the value")
	require.NotNil(t, untyped.Returns)
	assert.Equal(t, "", untyped.Returns.Type)
	assert.Equal(t, "the value", untyped.Returns.Description)
}

func TestExamples(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Example
	}{
		{
			name: "caption element",
			raw:  "@example <caption>Basic usage</caption>\nconst x = make();",
			want: model.Example{Caption: "Basic usage", Code: "const x = make();"},
		},
		{
			name: "plain title line",
			raw:  "@example Connecting to a room\nconst room = client.enter('lobby');",
			want: model.Example{Caption: "Connecting to a room", Code: "const room = client.enter('lobby');"},
		},
		{
			name: "code on the tag line",
			raw:  "@example client.connect()",
			want: model.Example{Code: "client.connect()"},
		},
		{
			name: "code with parens on first line",
			raw:  "@example client.connect()\nclient.close()",
			want: model.Example{Code: "client.connect()\nclient.close()"},
		},
		{
			name: "fenced code",
			raw:  "@example\n```js\nconst a = 1;\n```",
			want: model.Example{Code: "const a = 1;"},
		},
		{
			name: "indentation kept",
			raw:  "/**\n * @example\n * if (ok) {\n *   run();\n * }\n */",
			want: model.Example{Code: "if (ok) {\n  run();\n}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.raw)
			require.Len(t, doc.Examples, 1)
			assert.Equal(t, tt.want, doc.Examples[0])
		})
	}
}

func TestListTagsPreserveOrder(t *testing.T) {
	doc := Parse(`/**
 * @see Room
 * @fires change
 * @emits close
 * @see Presence
 * @listens open
 * @tutorial getting-started
 * @tutorial presence
 * @todo remove legacy path
 */`)

	assert.Equal(t, []string{"Room", "Presence"}, doc.See)
	assert.Equal(t, []string{"change", "close"}, doc.Fires)
	assert.Equal(t, []string{"open"}, doc.Listens)
	assert.Equal(t, []string{"getting-started", "presence"}, doc.Tutorials)
	assert.Equal(t, []string{"remove legacy path"}, doc.Todos)
}

func TestFlagsAndScalars(t *testing.T) {
	doc := Parse(`/**
 * @private
 * @async
 * @hideconstructor
 * @since 2.1.0
 * @deprecated
 * @custom keep me
 */`)

	assert.Equal(t, model.Private, doc.Visibility)
	assert.True(t, doc.Async)
	assert.True(t, doc.HideConstructor)
	assert.Equal(t, "2.1.0", doc.Since)
	require.NotNil(t, doc.Deprecated)
	assert.Equal(t, "", doc.Deprecated.Message)
	assert.Equal(t, []model.Tag{{Name: "custom", Value: "keep me"}}, doc.Unknown)

	withReason := Parse("@deprecated use connect() instead")
	require.NotNil(t, withReason.Deprecated)
	assert.Equal(t, "use connect() instead", withReason.Deprecated.Message)

	assert.Nil(t, Parse("Plain text").Deprecated)
	assert.Equal(t, model.Protected, Parse("@protected").Visibility)
	assert.Equal(t, model.Public, Parse("no tags").Visibility)
}

func TestMultilineDescription(t *testing.T) {
	doc := Parse(`/**
 * Creates a room.
 *
 * Rooms are cached per id.
 * @param {string} id - room id
 */`)

	assert.Equal(t, "Creates a room.\n\nRooms are cached per id.", doc.Description)
	assert.Equal(t, "Creates a room.", doc.Summary)
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("word ", 40)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "first sentence", in: "Opens a socket. Then waits.", want: "Opens a socket."},
		{name: "exclamation", in: "Careful! This mutates.", want: "Careful!"},
		{name: "dotted version kept", in: "Works with v1.2 of the API", want: "Works with v1.2 of the API"},
		{name: "newlines collapsed", in: "Spans\ntwo lines.", want: "Spans two lines."},
		{name: "truncated", in: long, want: strings.TrimSpace(long[:SummaryLimit]) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.in))
		})
	}
}
