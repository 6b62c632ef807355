// Package testutils provides test doubles shared across packages: a
// virtual-time scheduler for driving poll loops step by step and an
// in-memory log handler for asserting on log output.
package testutils
