// Package logutil provides loggers that write to a shared, configurable sink.
//
// All loggers discard their output until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	out     = io.Discard
	loggers []*log.Logger
	lock    sync.Mutex
)

// Discard is a Logger that ignores all loggings, regardless of the sink.
var Discard = log.New(io.Discard, "", 0)

// GetLogger gets a logger with the given prefix that writes to the shared
// sink.
func GetLogger(prefix string) *log.Logger {
	lock.Lock()
	defer lock.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to
// the given writer, including loggers obtained later.
func SetOutput(newout io.Writer) {
	lock.Lock()
	defer lock.Unlock()
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers to the given file,
// appending to it. If the name is empty, output is discarded.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(file)
	return nil
}
