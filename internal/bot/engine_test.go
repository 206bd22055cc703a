package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKnowledge() map[string]*Topic {
	return map[string]*Topic{
		"start": {
			Keywords: []string{"start", "hello"},
			Text:     "welcome",
			Options:  []string{"Graphs"},
		},
		"graph": {
			Keywords: []string{"graph", "edge", "vertex"},
			Text:     "graphs have vertices and edges",
			Options:  []string{"BFS"},
		},
		"stack": {
			Keywords: []string{"stack", "lifo", "pop"},
			Text:     "stacks are last in first out",
			Options:  []string{"Queues"},
		},
	}
}

func TestRespondExactKeyword(t *testing.T) {
	e := NewEngine(testKnowledge())
	resp := e.Respond("how does a graph work?")
	require.NotNil(t, resp)
	assert.Equal(t, "graphs have vertices and edges", resp.Text)
	assert.Equal(t, []string{"BFS"}, resp.Options)
}

func TestRespondStripsPunctuationAndCase(t *testing.T) {
	e := NewEngine(testKnowledge())
	resp := e.Respond("STACK!!!")
	assert.Equal(t, "stacks are last in first out", resp.Text)
}

func TestRespondPrefixMatch(t *testing.T) {
	// "graphs" is not indexed but shares the "graph" prefix... the other
	// way around: "gra" walks the trie to the graph keyword.
	e := NewEngine(testKnowledge())
	resp := e.Respond("tell me about gra")
	assert.Equal(t, "graphs have vertices and edges", resp.Text)
}

func TestRespondFuzzyMatch(t *testing.T) {
	e := NewEngine(testKnowledge())
	resp := e.Respond("grapj") // one edit away from "graph"
	assert.Equal(t, "graphs have vertices and edges", resp.Text)
}

func TestRespondEmptyInputReturnsStart(t *testing.T) {
	e := NewEngine(testKnowledge())
	resp := e.Respond("   ")
	assert.Equal(t, "welcome", resp.Text)
}

func TestRespondFallbackOnNoMatch(t *testing.T) {
	e := NewEngine(testKnowledge())
	resp := e.Respond("zzzzzzzzzzzz")
	require.NotNil(t, resp)
	assert.Contains(t, resp.Text, "couldn't match")
	assert.NotEmpty(t, resp.Options)
}

func TestRespondFirstKeywordOutweighsLater(t *testing.T) {
	// "pop" is stack's third keyword (weight 1); "graph" is graph's first
	// (weight 3). Both present, graph wins.
	e := NewEngine(testKnowledge())
	resp := e.Respond("pop a graph")
	assert.Equal(t, "graphs have vertices and edges", resp.Text)
}

func TestDefaultKnowledgeBaseHasStart(t *testing.T) {
	kb := DefaultKnowledgeBase()
	require.Contains(t, kb, "start")
	e := NewEngine(kb)
	resp := e.Respond("hello")
	assert.NotEmpty(t, resp.Text)
}

func TestAutocompleteOrdering(t *testing.T) {
	tr := newTrie()
	tr.insert("stack", "stack", 3)
	tr.insert("start", "start", 2)
	hits := tr.autocomplete("sta")
	require.Len(t, hits, 2)
	assert.Equal(t, "stack", hits[0].Word)
	assert.Equal(t, "start", hits[1].Word)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("graph", "graph"))
	assert.Equal(t, 1, levenshtein("graph", "grapf"))
	assert.Equal(t, 2, levenshtein("graph", "grph!"))
	assert.Equal(t, 5, levenshtein("", "graph"))
}
