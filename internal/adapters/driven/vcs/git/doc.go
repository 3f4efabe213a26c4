// Package git implements driven.VCS by running the git command line tool.
package git
