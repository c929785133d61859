// Package textutil provides text normalization and similarity measures used
// when comparing course titles and descriptions across terms.
//
// The primary use cases are:
//   - Normalizing catalog text (Unicode NFKC, whitespace, lowercasing)
//   - Computing a bounded infix edit distance normalized by the shorter text
//
// The infix alignment does not penalize gaps before or after the shorter text,
// so "intro to economics" matches "introduction to economics i" far more
// closely than a global edit distance would suggest.
package textutil
