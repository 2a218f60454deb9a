package testutil

import (
	"os"
	"strconv"
	"time"
)

// Scaled returns d scaled by $CMDL_TEST_TIME_SCALE. If the environment
// variable does not exist or contains an invalid value, the default value of
// 1 is used.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * getTestTimeScale())
}

func getTestTimeScale() float64 {
	env := os.Getenv("CMDL_TEST_TIME_SCALE")
	if env == "" {
		return 1
	}
	scale, err := strconv.ParseFloat(env, 64)
	if err != nil || scale <= 0 {
		return 1
	}
	return scale
}
