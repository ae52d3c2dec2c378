// Package testsupport provides shared helpers for package tests: temp-dir
// configurations and small fixture writers.
package testsupport
