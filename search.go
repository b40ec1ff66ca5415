package viewz

import (
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Field search uses fzf's matcher with its query syntax:
//
//	foo     fuzzy subsequence
//	'foo    exact substring
//	^foo    prefix
//	foo$    suffix
//	!foo    negation of any of the above
//	a b     all terms must match
//	a | b   either group may match

func init() {
	algo.Init("default")
}

var searchSlab = util.MakeSlab(100*1024, 2048)

type matchKind uint8

const (
	matchFuzzy matchKind = iota
	matchExact
	matchPrefix
	matchSuffix
)

type searchTerm struct {
	pattern       []rune
	kind          matchKind
	negated       bool
	caseSensitive bool
}

// Query is a parsed search query: OR-ed groups of AND-ed terms.
type Query struct {
	groups [][]searchTerm
}

// ParseQuery parses raw into a reusable query.
func ParseQuery(raw string) Query {
	var q Query
	for _, part := range strings.Split(raw, "|") {
		var group []searchTerm
		for _, tok := range strings.Fields(part) {
			group = append(group, parseSearchTerm(tok))
		}
		if len(group) > 0 {
			q.groups = append(q.groups, group)
		}
	}
	return q
}

func parseSearchTerm(tok string) searchTerm {
	var t searchTerm
	if len(tok) > 1 && tok[0] == '!' {
		t.negated = true
		tok = tok[1:]
	}
	switch {
	case len(tok) > 1 && tok[0] == '\'':
		t.kind, tok = matchExact, tok[1:]
	case len(tok) > 1 && tok[0] == '^':
		t.kind, tok = matchPrefix, tok[1:]
	case len(tok) > 1 && tok[len(tok)-1] == '$':
		t.kind, tok = matchSuffix, tok[:len(tok)-1]
	}
	t.caseSensitive = strings.IndexFunc(tok, unicode.IsUpper) >= 0
	if !t.caseSensitive {
		tok = strings.ToLower(tok)
	}
	t.pattern = []rune(tok)
	return t
}

// Empty reports whether the query has no terms.
func (q Query) Empty() bool {
	return len(q.groups) == 0
}

// Score matches candidate against q. Higher scores are better matches.
func (q Query) Score(candidate string) (int, bool) {
	if q.Empty() {
		return 0, true
	}
	best, matched := -1, false
	for _, group := range q.groups {
		total, ok := 0, true
		for _, t := range group {
			s, hit := t.score(candidate)
			if !hit {
				ok = false
				break
			}
			total += s
		}
		if ok && total > best {
			best, matched = total, true
		}
	}
	return best, matched
}

func (t searchTerm) score(candidate string) (int, bool) {
	chars := util.ToChars([]byte(candidate))
	fn := algo.FuzzyMatchV2
	switch t.kind {
	case matchExact:
		fn = algo.ExactMatchNaive
	case matchPrefix:
		fn = algo.PrefixMatch
	case matchSuffix:
		fn = algo.SuffixMatch
	}
	res, _ := fn(t.caseSensitive, false, true, &chars, t.pattern, false, searchSlab)
	hit := res.Start >= 0
	if t.negated {
		return 0, !hit
	}
	return res.Score, hit
}

// FocusLabels returns a searchable label for every focusable node of root, in
// Focusable order: the drill-down title, or the heading of the nearest
// enclosing card, followed by the leaf's own text when it has one.
func FocusLabels(root *Node) []string {
	var out []string
	var walk func(n *Node, heading string)
	walk = func(n *Node, heading string) {
		if h := n.Header(); h != "" {
			heading = h
		}
		if n.Interactive() {
			out = append(out, strings.TrimSpace(heading+" "+nodeText(n)))
		}
		for _, c := range n.Children {
			walk(c, heading)
		}
	}
	walk(root, "")
	return out
}

func nodeText(n *Node) string {
	if n.Kind == NodeDrill {
		return n.Text
	}
	if s, ok := n.Leaf.Data.(string); ok && n.Leaf.Kind == LeafButton {
		return s
	}
	return ""
}

// Search ranks the focusable nodes of root against raw and returns their
// focus indices, best match first.
func Search(root *Node, raw string) []int {
	q := ParseQuery(raw)
	type hit struct{ index, score int }
	var hits []hit
	for i, label := range FocusLabels(root) {
		if s, ok := q.Score(label); ok {
			hits = append(hits, hit{i, s})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return b.score - a.score })
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.index
	}
	return out
}
