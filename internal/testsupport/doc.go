// Package testsupport builds throwaway configurations and fixture files for
// package tests.
package testsupport
