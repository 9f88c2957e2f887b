// Package main hosts the scribe CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes a single blocking prediction
// (`scribe predict`) plus the operational commands around it: installing the
// bundled VAD checkpoint, checking that binaries and paths are usable,
// listing alignment-capable languages, and configuration scaffolding.
// Configuration is resolved lazily once per invocation so commands that do
// not need it (config init) never fail on a broken file.
//
// Prediction JSON goes to stdout (or --output); logs go to stderr.
package main
