// Slices a flat instruction sequence into stages at FROM boundaries and
// computes each stage's content hash.
//
// Ported from the original's parse_stages loop, with one deliberate
// behaviour change: comment instructions participate in each stage's
// content_text (and therefore its hash) here, whereas the original dropped
// them. See the design notes for why the hash-sensitivity to comments is
// kept as specified rather than silently "fixed".
package stageplan
