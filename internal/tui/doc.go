// Package tui implements the interactive terminal client: the order feed,
// the CRM pipeline, the assistant tool panels and the profile editor, glued
// together by a Bubble Tea model with per-concern state containers.
package tui
