package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyFromAny(t *testing.T) {
	r := ReplyFromAny("plain text")
	assert.True(t, r.IsText())
	assert.Equal(t, "plain text", r.Text())

	r = ReplyFromAny(map[string]any{"response": "inner text"})
	assert.True(t, r.IsText())
	assert.Equal(t, "inner text", r.Text())

	r = ReplyFromAny(map[string]any{"response": map[string]any{"response": `{"verdict":"clear"}`}})
	assert.Equal(t, `{"verdict":"clear"}`, r.Text())

	r = ReplyFromAny(map[string]any{"verdict": "flag"})
	assert.Equal(t, ReplyStructured, r.Kind())
	assert.Equal(t, map[string]any{"verdict": "flag"}, r.Value())
	assert.Equal(t, `{"verdict":"flag"}`, r.Raw())

	r = ReplyFromAny(json.RawMessage(`{"response": "from raw"}`))
	assert.Equal(t, "from raw", r.Text())

	r = ReplyFromAny(nil)
	assert.True(t, r.IsEmpty())

	r = ReplyFromAny(3.5)
	assert.Equal(t, "3.5", r.Text())
}

func TestReplyFromAny_StructuredResponseField(t *testing.T) {
	r := ReplyFromAny(map[string]any{"response": map[string]any{"verdict": "clear"}})
	assert.Equal(t, ReplyStructured, r.Kind())

	v := Reconcile(r)
	assert.Equal(t, VerdictClear, v.Verdict)
}
