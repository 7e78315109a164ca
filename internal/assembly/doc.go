// Package assembly turns a presentation's ordered (image, audio, duration)
// triples into one concatenated video through the external transcoding
// engine.
//
// Each slide becomes a fixed-duration clip (its image looped at a constant
// frame rate over the selected take), the last slide gets an extra silent
// tail clip so playback does not cut off abruptly, and a concat-demuxer
// manifest stitches the clips with stream copy. The engine's working storage
// is a per-export temp directory that is removed on every exit path.
//
// The engine instance is stateful and single-threaded, so the Assembler
// serializes all invocations behind a mutex; callers never need their own
// locking.
package assembly
