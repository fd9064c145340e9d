// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qbank/internal/ident"
	"github.com/pdiddy/qbank/pkg/types"
)

func record(question, answer string) types.QuestionRecord {
	return types.QuestionRecord{
		ID:       ident.QuestionID(question),
		Topic:    "React",
		Level:    types.LevelEasy,
		Type:     types.TypeFlashcard,
		Question: question,
		Answer:   answer,
		Tags:     []string{},
	}
}

// --- Similar ---

func TestSimilar(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"short identical", "what is jsx?", "what is jsx?", true},
		{"short differ by one char", "what is jsx", "what is jsy", false},
		{"ten chars differ by one", "abcdefghij", "abcdefghik", false},
		{"one side short", "what is jsx?", "what is jsx? explain in detail please", false},
		{"long identical", "what is the virtual dom in react", "what is the virtual dom in react", true},
		{
			name: "long near-duplicate",
			a:    "what is the virtual dom and how does react use it",
			b:    "what is the virtual dom and how does react use it?",
			want: true,
		},
		{
			name: "subset counts against smaller set",
			a:    "explain react hooks lifecycle",
			b:    "please explain react hooks lifecycle with some examples",
			want: true,
		},
		{
			name: "exactly 70 percent is not a match",
			// tokens > 3 chars: a = {alpha beta gamma delta epsilon zeta1 eta12 theta iota1 kappa}
			a:    "alpha beta gamma delta epsilon zeta1 eta12 theta iota1 kappa",
			b:    "alpha beta gamma delta epsilon zeta1 eta12 xxxxx yyyyy zzzzz",
			want: false,
		},
		{
			name: "80 percent matches",
			a:    "alpha beta gamma delta epsilon zeta1 eta12 theta iota1 kappa",
			b:    "alpha beta gamma delta epsilon zeta1 eta12 theta yyyyy zzzzz",
			want: true,
		},
		{
			name: "no long tokens on one side",
			a:    "a b c d e f g h i j k l m n o p q",
			b:    "what is the virtual dom in react",
			want: false,
		},
		{
			name: "no long tokens on either side",
			a:    "a b c d e f g h i j k l m n o p q",
			b:    "a b c d e f g h i j k l m n o p r",
			want: false,
		},
		{
			name: "unrelated",
			a:    "how do you handle forms in react",
			b:    "what is server side rendering about",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Similar(tt.a, tt.b))
			assert.Equal(t, tt.want, Similar(tt.b, tt.a), "Similar must be symmetric")
		})
	}
}

func TestTokenSet(t *testing.T) {
	got := tokenSet("what's use_state (useState) vs. redux-toolkit? abc")
	want := map[string]struct{}{
		"what":      {},
		"use_state": {},
		"useState":  {},
		"redux":     {},
		"toolkit":   {},
	}
	assert.Equal(t, want, got)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what is jsx?", Normalize("  What is JSX?\n"))
}

// --- Merger ---

func TestMergeIdempotent(t *testing.T) {
	r := record("What is the virtual DOM in React?", "A lightweight copy of the DOM.")
	out := Merge([]types.QuestionRecord{r, r})
	require.Len(t, out, 1)
	assert.Equal(t, r, out[0])
}

func TestMergePrefersLongerAnswer(t *testing.T) {
	short := record("What is the virtual DOM and how does React use it?", strings.Repeat("s", 50))
	long := record("What is the virtual DOM and how does React use it", strings.Repeat("l", 200))

	out := Merge([]types.QuestionRecord{short, long})
	require.Len(t, out, 1)
	assert.Equal(t, long, out[0])

	out = Merge([]types.QuestionRecord{long, short})
	require.Len(t, out, 1)
	assert.Equal(t, long, out[0])
}

func TestMergeEqualLengthKeepsFirst(t *testing.T) {
	first := record("What is the virtual DOM in React?", "aaaa")
	second := record("what is the virtual dom in react?", "bbbb")

	var m Merger
	m.Add(first)
	m.Add(second)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, first, m.Records()[0])
	assert.Equal(t, 1, m.Discarded)
	assert.Equal(t, 0, m.Replaced)
}

func TestMergeShortQuestionsExact(t *testing.T) {
	a := record("What is X?", "one")
	b := record("What is Y?", "two")
	out := Merge([]types.QuestionRecord{a, b})
	assert.Len(t, out, 2)
}

func TestMergeReplacementKeepsPosition(t *testing.T) {
	first := record("How do you lift state up between sibling components?", "short")
	other := record("What does the useEffect cleanup function do exactly?", "cleanup")
	better := record("How do you lift state up between sibling components", "a considerably longer answer")

	var m Merger
	for _, r := range []types.QuestionRecord{first, other, better} {
		m.Add(r)
	}

	out := m.Records()
	require.Len(t, out, 2)
	assert.Equal(t, better, out[0])
	assert.Equal(t, other, out[1])
	assert.Equal(t, 1, m.Replaced)
	assert.Equal(t, 0, m.Discarded)
}

func TestMergeFirstMatchWins(t *testing.T) {
	// b is similar to both a and c; a was accepted first so b folds into a.
	a := record("explain react context provider consumer pattern", "aa")
	c := record("explain redux store reducer action pattern", "cc")
	b := record("explain react context provider consumer pattern redux store", "a longer answer")

	out := Merge([]types.QuestionRecord{a, c, b})
	require.Len(t, out, 2)
	assert.Equal(t, b, out[0])
	assert.Equal(t, c, out[1])
}

func TestMergeDeterministic(t *testing.T) {
	in := []types.QuestionRecord{
		record("What is the virtual DOM in React?", "one"),
		record("How do you lift state up between sibling components?", "two"),
		record("What is the virtual DOM in React", "three!"),
		record("What is JSX?", "four"),
	}
	assert.Equal(t, Merge(in), Merge(in))
}

func TestRecordsReturnsCopy(t *testing.T) {
	var m Merger
	m.Add(record("What is JSX?", "syntax"))
	out := m.Records()
	out[0].Answer = "mutated"
	assert.Equal(t, "syntax", m.Records()[0].Answer)
}
