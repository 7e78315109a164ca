// Package ffmpeg wraps the external transcoding engine as a thin
// command-line client.
//
// The engine is treated as an opaque processor invoked with argument lists;
// all knowledge about codecs and filters lives with the callers that build
// the arguments. The Client interface exists so the assembly pipeline can be
// tested without an ffmpeg binary on PATH.
package ffmpeg
