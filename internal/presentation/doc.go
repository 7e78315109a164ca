// Package presentation defines the aggregate persisted and exported by
// presenvid: a Presentation owning ordered Slides, each owning recorded
// Audio takes.
//
// The aggregate is a plain value; storage backends serialize it wholesale and
// the assembly pipeline consumes the selected take of every slide in slide
// order. Helpers here enforce the invariants the rest of the codebase relies
// on: slide order is significant, a slide's selected take always resolves to
// one of its audios, and output dimensions are derived from the largest slide
// image and rounded up to even values for the encoder.
package presentation
