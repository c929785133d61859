// Package main hosts the catalogid CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration, runs identity resolution
// over the snapshot directory, inspects the persisted id caches, and
// scaffolds configuration files. Resolution logic lives in internal/pipeline;
// commands here only handle flags and rendering.
package main
