// Package converter holds the conversion strategies and the selector that
// maps an ordered (input, output) format pair onto one of them.
//
// The supported pairs live in a single table keyed by Pair; each entry names
// the target argument handed to markitdown. Strategies are stateless: they
// re-check the input, create the output's parent directories, run the tool
// once through a Runner, and refuse to trust a zero exit status unless the
// output file actually exists afterwards. No step is retried.
package converter
