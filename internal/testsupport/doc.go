// Package testsupport holds helpers shared by package tests: throwaway
// configs, markitdown stand-in scripts, sample documents, and a history store
// wired to t.Cleanup.
package testsupport
