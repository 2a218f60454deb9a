package testutil

import "os"

// TempDirer wraps the TempDir method, satisfied by [*testing.T].
type TempDirer interface {
	Cleanuper
	TempDir() string
}

// InTempDir creates a temporary directory, changes into it, and changes back
// to the original working directory when the test finishes. It returns the
// path of the temporary directory.
func InTempDir(c TempDirer) string {
	dir := c.TempDir()
	old, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			panic(err)
		}
	})
	return dir
}
