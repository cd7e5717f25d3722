package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger
	// DebugLog discards output unless Config.Verbose is set
	DebugLog *log.Logger

	logFile io.Closer
)

// Config holds logging configuration
type Config struct {
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Verbose    bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() Config {
	return Config{
		FileName:   "hotkeyhub.log",
		MaxSizeMB:  5,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}
}

func init() {
	// Loggers must be usable before Initialize, tests never call it
	InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	DebugLog = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime)
}

// Initialize points the loggers at a rotating file in cfg.Dir.
// Call Close when done.
func Initialize(cfg Config) error {
	if cfg.Dir == "" {
		cfg.Dir = os.TempDir()
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultConfig().FileName
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	Close()
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, cfg.FileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLog = log.New(writer, "INFO: ", flags)
	WarningLog = log.New(writer, "WARNING: ", flags)
	ErrorLog = log.New(writer, "ERROR: ", flags)
	if cfg.Verbose {
		DebugLog = log.New(writer, "DEBUG: ", flags)
	} else {
		DebugLog = log.New(io.Discard, "DEBUG: ", flags)
	}

	logFile = writer
	return nil
}

// Close flushes and closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
