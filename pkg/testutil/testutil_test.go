package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(fn func()) { c.fns = append(c.fns, fn) }

func (c *cleanuper) runCleanups() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}

func TestSet(t *testing.T) {
	c := &cleanuper{}
	s := "old"
	Set(c, &s, "new")
	if s != "new" {
		t.Errorf("after Set, s = %q, want %q", s, "new")
	}
	c.runCleanups()
	if s != "old" {
		t.Errorf("after cleanup, s = %q, want %q", s, "old")
	}
}

func TestInTempDir(t *testing.T) {
	old, _ := os.Getwd()
	var dir string
	t.Run("sub", func(t *testing.T) {
		dir = InTempDir(t)
		wd, _ := os.Getwd()
		if evalSymlinks(wd) != evalSymlinks(dir) {
			t.Errorf("working directory = %q, want %q", wd, dir)
		}
	})
	if wd, _ := os.Getwd(); wd != old {
		t.Errorf("working directory not restored: %q, want %q", wd, old)
	}
}

func evalSymlinks(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}

var scaledTests = []struct {
	env  string
	want time.Duration
}{
	{"", time.Second},
	{"2", 2 * time.Second},
	{"0.5", time.Second / 2},
	{"bad", time.Second},
	{"-1", time.Second},
}

func TestScaled(t *testing.T) {
	for _, test := range scaledTests {
		t.Setenv("CMDL_TEST_TIME_SCALE", test.env)
		if got := Scaled(time.Second); got != test.want {
			t.Errorf("with $CMDL_TEST_TIME_SCALE = %q, Scaled(1s) = %v, want %v",
				test.env, got, test.want)
		}
	}
}
