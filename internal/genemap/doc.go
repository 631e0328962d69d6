// Package genemap lays out the gene map diagram: exon and CDS rectangles,
// transcription start and terminator markers, the strand baselines and a
// ruled tick axis on a fixed 1000x150 canvas.
//
// Layout is pure arithmetic over unit-interval coordinates produced by
// [coords.Normalize]; [RenderSVG] turns the resulting [Diagram] into markup.
//
// # Orientation
//
// Plus-strand genes draw exons in the upper band and number them left to
// right; ticks run left to right with "+" labels. Minus-strand genes draw
// exons in the lower band, number them right to left, mirror the tick axis
// and swap the anchors of the start and terminator markers.
package genemap
