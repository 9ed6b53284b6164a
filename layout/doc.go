// SPDX-License-Identifier: Unlicense OR MIT

/*
Package layout computes screen-space rectangles for a widget tree
encoded as a flat stream of commands.

The command stream is a pre-order walk of the tree: containers are
bracketed by OpBeginContainer/OpEndContainer, leaves are OpChild or
OpSpacer, and OpBeginOffset/OpEndOffset apply a pure translation to
everything in between. The stream is produced once per frame by an
external tree builder and consumed linearly by Layout.

Layout runs two forward passes over the same stream. The first pass
resolves intrinsic ("wrap") sizes bottom-up and accumulates flex
weights per container; the second resolves Fill sizes top-down,
computes absolute rectangles and emits placements, clip markers and
measure snapshots into a Frame. Slots are pushed in command order so
the second pass re-reads the first pass's results by identical cursor
arithmetic.

All scratch memory lives in a State that is cleared, not freed,
between frames, so a warm State performs no allocation. A State is
owned by exactly one UI surface and must not be shared.

Callers typically invoke Layout twice per frame: the first call
reports desired text widths in Frame.Texts, the caller re-wraps its
text to those widths, and the second call places everything with the
wrapped heights. Layout itself is unaware of the feedback loop; with
unchanged inputs it produces bit-identical output on every call.
*/
package layout
