package util

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

type LogLevel int32

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

type LogCategory int32

const (
	LogMesh LogCategory = 1 << iota
	LogIO
	LogConfig
	LogSystem

	LogAll = LogMesh | LogIO | LogConfig | LogSystem
)

// workers log concurrently, so both filters are atomics
var (
	globalLogLevel      atomic.Int32
	globalLogCategories atomic.Int32
)

func init() {
	globalLogLevel.Store(int32(LogLevelInfo))
	globalLogCategories.Store(int32(LogAll))
}

func SetLogLevel(lvl LogLevel) {
	globalLogLevel.Store(int32(lvl))
}

func SetLogCategories(cat LogCategory) {
	globalLogCategories.Store(int32(cat))
}

func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "error":
		return LogLevelError, nil
	case "warning", "warn":
		return LogLevelWarning, nil
	case "", "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	}
	return LogLevelInfo, errors.Errorf("unknown log level %q", name)
}

func ParseLogCategories(names []string) (LogCategory, error) {
	if len(names) == 0 {
		return LogAll, nil
	}
	var cat LogCategory
	for _, name := range names {
		switch strings.ToLower(name) {
		case "mesh":
			cat |= LogMesh
		case "io":
			cat |= LogIO
		case "config":
			cat |= LogConfig
		case "system":
			cat |= LogSystem
		case "all":
			cat |= LogAll
		default:
			return 0, errors.Errorf("unknown log category %q", name)
		}
	}
	return cat, nil
}

func IsLogEnabled(cat LogCategory, lvl LogLevel) bool {
	return lvl <= LogLevel(globalLogLevel.Load()) && LogCategory(globalLogCategories.Load())&cat != 0
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if !IsLogEnabled(cat, lvl) {
		return
	}
	fmt.Fprintln(os.Stderr, txt)
}

func LogMeshInfo(txt string) {
	log(LogMesh, LogLevelInfo, txt)
}

func LogMeshDebug(txt string) {
	log(LogMesh, LogLevelDebug, txt)
}

func LogMeshWarning(txt string) {
	log(LogMesh, LogLevelWarning, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIODebug(txt string) {
	log(LogIO, LogLevelDebug, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogConfigInfo(txt string) {
	log(LogConfig, LogLevelInfo, txt)
}

func LogConfigWarning(txt string) {
	log(LogConfig, LogLevelWarning, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogSystemError(txt string) {
	log(LogSystem, LogLevelError, txt)
}
