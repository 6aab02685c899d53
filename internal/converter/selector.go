package converter

import (
	"fmt"
	"sort"

	"docbridge/internal/format"
	"docbridge/internal/services"
)

// Pair is an ordered (input, output) format combination.
type Pair struct {
	From format.Format
	To   format.Format
}

func (p Pair) String() string {
	return fmt.Sprintf("%s to %s", p.From, p.To)
}

// targets is the supported-pair table: each entry is the --format value the
// strategy passes to markitdown.
var targets = map[Pair]string{
	{From: format.Markdown, To: format.Word}: "docx",
	{From: format.Word, To: format.Markdown}: "markdown",
}

// SupportedPairs returns every supported pair in a stable order.
func SupportedPairs() []Pair {
	pairs := make([]Pair, 0, len(targets))
	for pair := range targets {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

// Supports reports whether a strategy exists for the pair.
func Supports(in, out format.Format) bool {
	_, ok := targets[Pair{From: in, To: out}]
	return ok
}

// Selector hands out strategies bound to a shared Runner.
type Selector struct {
	runner Runner
}

// NewSelector constructs a selector whose strategies invoke runner.
func NewSelector(runner Runner) *Selector {
	return &Selector{runner: runner}
}

// Select returns the strategy for the exact pair. Identity pairs and any pair
// that would need an intermediate format are rejected.
func (s *Selector) Select(in, out format.Format) (Strategy, error) {
	pair := Pair{From: in, To: out}
	if _, ok := targets[pair]; !ok {
		return nil, services.UnsupportedFormat(pair.String())
	}
	return newStrategy(pair, s.runner), nil
}
