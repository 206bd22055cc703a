package bot

import "sort"

type trieNode struct {
	children map[rune]*trieNode
	keys     []string
	weight   int
	end      bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

type trie struct {
	root *trieNode
	size int
}

func newTrie() *trie {
	return &trie{root: newTrieNode(), size: 1}
}

// insert indexes a keyword under a knowledge key. A word shared by several
// topics accumulates all their keys; its weight is the max seen.
func (t *trie) insert(word, key string, weight int) {
	node := t.root
	for _, r := range word {
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
			t.size++
		}
		node = child
	}
	node.end = true
	if !containsString(node.keys, key) {
		node.keys = append(node.keys, key)
	}
	if weight > node.weight {
		node.weight = weight
	}
}

// search returns the terminal node for an exact word, or nil
func (t *trie) search(word string) *trieNode {
	node := t.root
	for _, r := range word {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	if !node.end {
		return nil
	}
	return node
}

// suggestion is one autocomplete hit
type suggestion struct {
	Word   string
	Keys   []string
	Weight int
}

// autocomplete collects every indexed word under the prefix, heaviest first
func (t *trie) autocomplete(prefix string) []suggestion {
	node := t.root
	for _, r := range prefix {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}

	var results []suggestion
	collect(node, prefix, &results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Weight > results[j].Weight
	})
	return results
}

func collect(node *trieNode, prefix string, results *[]suggestion) {
	if node.end {
		*results = append(*results, suggestion{Word: prefix, Keys: node.keys, Weight: node.weight})
	}
	// sorted child order keeps output deterministic
	runes := make([]rune, 0, len(node.children))
	for r := range node.children {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	for _, r := range runes {
		collect(node.children[r], prefix+string(r), results)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// levenshtein computes the edit distance between two words
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j], curr[j-1], prev[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
