package bot

// Topic is one node of the bot's knowledge base. Keywords are listed most
// significant first; earlier keywords index with higher weight.
type Topic struct {
	Keywords []string `json:"-"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
}

// DefaultKnowledgeBase is the built-in data-structures tutor the chat UI
// ships with.
func DefaultKnowledgeBase() map[string]*Topic {
	return map[string]*Topic{
		"start": {
			Keywords: []string{"start", "hello", "help", "menu"},
			Text:     "Hi! I'm EonBot. Ask me about data structures and algorithms: graphs, tries, stacks, hash maps, BFS and more.",
			Options:  []string{"Data Structures Overview", "Algorithms Overview"},
		},
		"graph": {
			Keywords: []string{"graph", "network", "edge", "vertex", "adjacency"},
			Text:     "A graph is a set of vertices connected by edges. This app stores friendships as an undirected graph using adjacency lists, which makes friends-of-friends traversal cheap.",
			Options:  []string{"BFS Algorithm", "Graph & HashMap"},
		},
		"bfs": {
			Keywords: []string{"bfs", "breadth", "traversal", "shortest"},
			Text:     "Breadth-first search visits a graph level by level using a queue. The friend recommendations here are a bounded BFS: only nodes at distance 2 matter.",
			Options:  []string{"Graph & HashMap", "Queue Basics"},
		},
		"stack": {
			Keywords: []string{"stack", "lifo", "push", "pop"},
			Text:     "A stack is last-in-first-out: push onto the top, pop from the top. Your notification panel is literally a stack, including the pop operation.",
			Options:  []string{"Queue Basics", "Data Structures Overview"},
		},
		"queue": {
			Keywords: []string{"queue", "fifo", "enqueue", "dequeue"},
			Text:     "A queue is first-in-first-out. BFS uses one to remember which vertex to visit next.",
			Options:  []string{"BFS Algorithm", "Stack Deep Dive"},
		},
		"hashmap": {
			Keywords: []string{"hashmap", "hash", "map", "dictionary", "complexity"},
			Text:     "A hash map gives expected O(1) insert and lookup by hashing keys into buckets. The relay's room registry is a hash map from user id to live connections.",
			Options:  []string{"Graph & HashMap", "Performance Analysis"},
		},
		"trie": {
			Keywords: []string{"trie", "prefix", "autocomplete", "search"},
			Text:     "A trie stores words character by character, so every prefix query is a single walk from the root. I use one myself to match your questions to topics.",
			Options:  []string{"Performance Analysis", "Data Structures Overview"},
		},
		"bst": {
			Keywords: []string{"bst", "tree", "binary", "node", "insert"},
			Text:     "A binary search tree keeps keys ordered: smaller to the left, larger to the right. The activity report builds one keyed by hour of day to find your busiest chat hour.",
			Options:  []string{"Tree Structures", "BST Deep Dive"},
		},
	}
}
