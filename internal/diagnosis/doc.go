// Package diagnosis implements the turn-based fault isolation engine.
//
// A conversation starts from a free-text description. Keyword extraction yields
// the attributes already known; the candidate set is every fault sharing at
// least one of them, or the whole catalogue when nothing was recognized. Each
// turn then asks about the unresolved attribute shared by the most candidates
// and partitions the set on the yes/no answer, until one fault remains
// (solved), none remain (no_match), or no attribute is left that could tell
// the remainder apart (ambiguous).
//
// The engine keeps no conversation memory. Every call receives the State the
// previous call returned and produces a new one; the input is never mutated.
// Continue validates the supplied State against the knowledge base it runs on,
// including the base version recorded when the conversation started.
//
// Questions break count ties by picking the attribute met first when walking
// candidates in declaration order and each fault's attributes in declared
// order. Reordering the knowledge base may therefore change which question is
// asked, but never the set of reachable outcomes.
package diagnosis
