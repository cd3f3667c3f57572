package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/wordgauge/internal/dictionary"
	"github.com/ppiankov/wordgauge/internal/document"
	"github.com/ppiankov/wordgauge/internal/model"
)

// countingDict records how often each word is looked up
type countingDict struct {
	known map[string]model.Classification
	calls map[string]int
}

func (d *countingDict) Classify(word string) model.Classification {
	d.calls[word]++
	if c, ok := d.known[word]; ok {
		return c
	}
	return model.Unknown
}

func newCountingDict(known map[string]model.Classification) *countingDict {
	return &countingDict{known: known, calls: make(map[string]int)}
}

func TestClassify_RunExample(t *testing.T) {
	store := dictionary.NewStore()
	require.NoError(t, store.LoadPlugin(dictionary.Definition{
		Patterns: map[string]map[string][]string{"1": {"run$": {"running"}}},
	}))
	store.LoadDictionary("run")
	store.Expand()

	doc := document.BuildText("example", "I run while running.")
	New(store).Classify(doc)

	assert.Equal(t, 4, doc.Size())
	assert.Equal(t, 1, doc.Known())
	assert.Equal(t, 1, doc.Maybe())
	assert.Equal(t, 2, doc.Unknown())

	for word, want := range map[string]model.Classification{
		"run":     model.Known,
		"running": model.Maybe,
		"i":       model.Unknown,
		"while":   model.Unknown,
	} {
		st, ok := doc.Stats.Get(word)
		require.True(t, ok)
		assert.Equal(t, want, st.Classification, word)
	}
}

func TestClassify_PrefixExample(t *testing.T) {
	store := dictionary.NewStore()
	require.NoError(t, store.LoadPlugin(dictionary.Definition{Prefixes: []string{"un"}}))
	store.LoadDictionary("happy")
	store.Expand()

	doc := document.BuildText("prefix", "Unhappy, happy")
	New(store).Classify(doc)

	un, _ := doc.Stats.Get("unhappy")
	assert.Equal(t, model.Maybe, un.Classification)
	happy, _ := doc.Stats.Get("happy")
	assert.Equal(t, model.Known, happy.Classification)
}

func TestClassify_OncePerUniqueWord(t *testing.T) {
	dict := newCountingDict(map[string]model.Classification{"the": model.Known})
	doc := document.BuildText("d", "The cat and the dog.\nTHE END, the end")

	resolved := New(dict).Classify(doc)

	assert.Equal(t, 5, resolved, "the, cat, and, dog, end")
	for word, n := range dict.calls {
		assert.Equal(t, 1, n, "%q looked up more than once", word)
	}
	st, _ := doc.Stats.Get("the")
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, 4, doc.Known())
}

func TestClassify_Idempotent(t *testing.T) {
	dict := newCountingDict(map[string]model.Classification{"a": model.Known, "b": model.Maybe})
	doc := document.BuildText("d", "a b c\nc b a")
	c := New(dict)

	require.Equal(t, 3, c.Classify(doc))
	before := doc.Stats.Table()

	assert.Equal(t, 0, c.Classify(doc))
	assert.Equal(t, before, doc.Stats.Table())
	assert.Equal(t, 1, dict.calls["a"])
}

func TestClassify_NeverOverwritesDecision(t *testing.T) {
	doc := document.BuildText("d", "word")
	st, _ := doc.Stats.Get("word")
	st.Classification = model.Maybe

	New(newCountingDict(map[string]model.Classification{"word": model.Known})).Classify(doc)

	assert.Equal(t, model.Maybe, st.Classification)
}

func TestClassify_EmptyDocument(t *testing.T) {
	doc := document.New("empty")
	assert.Equal(t, 0, New(dictionary.NewStore()).Classify(doc))
	assert.Equal(t, 0, doc.Size())
}
