// Package filesystem provides the local-disk implementation of driven.FileSystem
// used by the locator and the rubric checks.
package filesystem
