package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"symbol", "See {@link Counter}.", "See [Counter](#counter)."},
		{"symbol with label", "See {@link Counter the counter}.", "See [the counter](#counter)."},
		{"pipe label", "See {@link Counter#inc|inc}.", "See [inc](#counterinc)."},
		{"url", "Read {@link https://example.com/docs Docs}.", "Read [Docs](https://example.com/docs)."},
		{"bare url", "{@link https://example.com}", "[https://example.com](https://example.com)"},
		{"bracket label", "[click here]{@link Room}", "[click here](#room)"},
		{"linkcode", "{@linkcode useRoom}", "[useRoom](#useroom)"},
		{"tutorial", "Start with {@tutorial getting-started}.", "Start with [tutorial](/tutorials/getting-started)."},
		{"bracket tutorial", "[Setup guide]{@tutorial setup}", "[Setup guide](/tutorials/setup)"},
		{"no tags", "plain {text}", "plain {text}"},
		{"empty link is kept", "{@link }", "{@link }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceLinks(tt.in))
		})
	}
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "#roomprovider", Anchor("RoomProvider"))
	assert.Equal(t, "#counterinc", Anchor("Counter.inc"))
	assert.Equal(t, "#maxrooms", Anchor("MAX_ROOMS"))
	assert.Equal(t, "#use-room", Anchor("use-room"))
}

func TestEscapeAttr(t *testing.T) {
	assert.Equal(t, "a &quot;b&quot; &lt;c&gt; &amp; d&#39;s", EscapeAttr(`a "b" <c> & d's`))
}

func TestProse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"braces escaped", "pass {a: 1}", `pass \{a: 1\}`},
		{"inline code kept", "use `{a: 1}` here", "use `{a: 1}` here"},
		{"angle bracket escaped", "returns <div>", "returns &lt;div>"},
		{"links substituted", "see {@link Room}", "see [Room](#room)"},
		{"fence kept", "before\n```js\nconst x = {};\n```\nafter {x}", "before\n```js\nconst x = {};\n```\nafter \\{x\\}"},
		{"trimmed", "  \n text \n", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prose(tt.in))
		})
	}
}

func TestInlineText(t *testing.T) {
	assert.Equal(t, `a \| b c`, inlineText("a | b\n  c"))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"RoomProvider":  "room-provider",
		"MAX_ROOMS":     "max-rooms",
		"useRoom":       "use-room",
		"useHTTPClient": "use-http-client",
		"Counter":       "counter",
		"$store":        "store",
		"v2Client":      "v2-client",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slug(in))
		})
	}
}

func TestSluggerSuffixesRepeats(t *testing.T) {
	s := newSlugger()
	assert.Equal(t, "foo", s.next("Foo"))
	assert.Equal(t, "foo-2", s.next("Foo"))
	assert.Equal(t, "foo-3", s.next("foo"))
	assert.Equal(t, "item", s.next("$"))
}
