// Package main hosts the presenvid CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the whole presentation lifecycle:
// creating decks from images, managing slides and recorded takes, rendering
// video exports, moving bundles between machines, and configuration
// scaffolding. It centralizes configuration resolution, repository selection,
// and logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
