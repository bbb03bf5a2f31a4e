package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mdxgen/internal/errors"
)

const header = "---\ntitle: Counter\n---\n\n"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Issue
	}{
		{
			name:    "balanced",
			content: header + "<Tabs>\n<Tab title=\"a\">\n\n```js\nx\n```\n\n</Tab>\n</Tabs>\n<Card title=\"x\" href=\"/y\" />\n",
		},
		{
			name:    "tags in code are ignored",
			content: header + "```ts\nconst a: Array<Foo> = [];\n```\n\n### `get(): Promise<Item>`\n",
		},
		{
			name:    "lower-case html is ignored",
			content: header + "<a id=\"foo\" />\n\n<div>\n",
		},
		{
			name:    "never closed",
			content: header + "<Accordion>\n<AccordionItem title=\"x\">\n</AccordionItem>\n",
			want:    []Issue{{Line: 5, Message: "<Accordion> is never closed"}},
		},
		{
			name:    "misnested",
			content: header + "<Tabs>\n<Tab>\n</Tabs>\n",
			want:    []Issue{{Line: 7, Message: "</Tabs> closes <Tab> opened on line 6"}, {Line: 5, Message: "<Tabs> is never closed"}},
		},
		{
			name:    "stray close",
			content: header + "</Note>\n",
			want:    []Issue{{Line: 5, Message: "</Note> has no opening tag"}},
		},
		{
			name:    "missing front matter",
			content: "# Counter\n",
			want:    []Issue{{Line: 1, Message: "missing front matter"}},
		},
		{
			name:    "front matter without title",
			content: "---\ndescription: x\n---\n",
			want:    []Issue{{Line: 2, Message: "front matter has no title"}},
		},
		{
			name:    "unterminated fence",
			content: header + "```js\n<Tabs>\n",
			want:    []Issue{{Line: 7, Message: "unterminated code fence"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.content))
		})
	}
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("classes/counter.mdx", header+"<Note>\nhi\n</Note>\n"))

	err := Check("classes/counter.mdx", header+"<Note>\n")
	require.Error(t, err)
	assert.Equal(t, errors.KindRender, errors.GetKind(err))
	assert.Contains(t, err.Error(), "classes/counter.mdx: line 5: <Note> is never closed")
}
