// Package bot is a small keyword chat bot over a fixed knowledge base.
// Questions are matched by exact trie lookup first, then prefix
// autocomplete, then Levenshtein fuzzy search.
package bot

import (
	"fmt"
	"strings"
	"sync"
)

const (
	maxHistorySize   = 10
	fuzzyMaxDistance = 2
)

// Response is what the bot answers with: the topic text plus suggested
// follow-up options.
type Response struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Engine matches free-text questions to knowledge topics.
type Engine struct {
	knowledge map[string]*Topic
	index     *trie

	mu      sync.Mutex
	history []historyEntry
}

type historyEntry struct {
	input string
	key   string
}

// NewEngine builds the keyword index over the knowledge base
func NewEngine(knowledge map[string]*Topic) *Engine {
	e := &Engine{knowledge: knowledge, index: newTrie()}
	for key, topic := range knowledge {
		for i, word := range topic.Keywords {
			// earlier keywords are more significant
			weight := len(topic.Keywords) - i
			e.index.insert(strings.ToLower(strings.TrimSpace(word)), key, weight)
		}
	}
	return e
}

type match struct {
	key   string
	score float64
}

// Respond answers a single question. Unmatched input gets a fallback with
// topic suggestions rather than an error.
func (e *Engine) Respond(input string) *Response {
	words := tokenize(input)
	if len(words) == 0 {
		return e.topicResponse("start")
	}

	matches := e.exactMatches(words)
	if len(matches) == 0 {
		matches = e.prefixMatches(words)
	}
	if len(matches) == 0 {
		matches = e.fuzzyMatches(words)
	}

	if len(matches) == 0 {
		return e.fallback(words)
	}

	best := e.selectBest(matches)
	e.remember(strings.Join(words, " "), best)
	return e.topicResponse(best)
}

func tokenize(input string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '?', '.', ',', '!', ';', ':':
			return ' '
		}
		return r
	}, strings.ToLower(input))
	return strings.Fields(cleaned)
}

func (e *Engine) exactMatches(words []string) []match {
	var matches []match
	for _, word := range words {
		if node := e.index.search(word); node != nil {
			for _, key := range node.keys {
				matches = append(matches, match{key: key, score: float64(node.weight) * 10})
			}
		}
	}
	return matches
}

func (e *Engine) prefixMatches(words []string) []match {
	var matches []match
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		hits := e.index.autocomplete(word)
		if len(hits) > 3 {
			hits = hits[:3]
		}
		for _, hit := range hits {
			for _, key := range hit.Keys {
				matches = append(matches, match{key: key, score: float64(hit.Weight) * 5})
			}
		}
	}
	return matches
}

func (e *Engine) fuzzyMatches(words []string) []match {
	longest := ""
	for _, w := range words {
		if len(w) > len(longest) {
			longest = w
		}
	}
	if len(longest) < 4 {
		return nil
	}

	var matches []match
	for key, topic := range e.knowledge {
		for _, keyword := range topic.Keywords {
			kw := strings.ToLower(keyword)
			dist := levenshtein(longest, kw)
			if dist > fuzzyMaxDistance {
				continue
			}
			maxLen := len(longest)
			if len(kw) > maxLen {
				maxLen = len(kw)
			}
			similarity := 1 - float64(dist)/float64(maxLen)
			matches = append(matches, match{key: key, score: similarity * 3})
		}
	}
	return matches
}

// selectBest aggregates scores per topic and applies a recency boost for
// topics touched in the last few exchanges
func (e *Engine) selectBest(matches []match) string {
	scores := make(map[string]float64)
	var order []string
	for _, m := range matches {
		if _, seen := scores[m.key]; !seen {
			order = append(order, m.key)
		}
		scores[m.key] += m.score
	}

	e.mu.Lock()
	recent := e.history
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	for _, entry := range recent {
		if _, ok := scores[entry.key]; ok {
			scores[entry.key] *= 1.5
		}
	}
	e.mu.Unlock()

	best := ""
	bestScore := -1.0
	for _, key := range order {
		if scores[key] > bestScore {
			bestScore = scores[key]
			best = key
		}
	}
	return best
}

func (e *Engine) remember(input, key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, historyEntry{input: input, key: key})
	if len(e.history) > maxHistorySize {
		e.history = e.history[1:]
	}
}

func (e *Engine) topicResponse(key string) *Response {
	topic, ok := e.knowledge[key]
	if !ok {
		topic = e.knowledge["start"]
	}
	if topic == nil {
		return &Response{Text: "I have nothing to say about that yet."}
	}
	return &Response{Text: topic.Text, Options: topic.Options}
}

func (e *Engine) fallback(words []string) *Response {
	suggestions := []string{"Data Structures Overview", "Algorithms Overview", "Back to Start"}
	switch {
	case anyWordIn(words, "fast", "speed", "performance", "slow"):
		suggestions = []string{"Performance Analysis", "Optimization Techniques"}
	case anyWordIn(words, "tree", "node", "leaf", "root"):
		suggestions = []string{"Tree Structures", "BST Deep Dive"}
	case anyWordIn(words, "graph", "network", "connection"):
		suggestions = []string{"Graph & HashMap", "BFS Algorithm"}
	}

	return &Response{
		Text: fmt.Sprintf(
			"I couldn't match %q to anything I know. Try asking about graphs, tries, stacks, queues, hash maps or BFS.",
			strings.Join(words, " ")),
		Options: suggestions,
	}
}

func anyWordIn(words []string, candidates ...string) bool {
	for _, w := range words {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}
