// logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelTags = [...]struct {
	tag   string
	color string
}{
	DEBUG: {"[DEBUG] ", colorGray},
	INFO:  {"[INFO]  ", colorReset},
	WARN:  {"[WARN]  ", colorYellow},
	ERROR: {"[ERROR] ", colorRed},
}

// ParseLevel maps a level name (debug, info, warn/warning, error) to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return DEBUG, fmt.Errorf("unknown log level %q", name)
	}
}

type Logger struct {
	console  [len(levelTags)]*log.Logger // colored
	plain    [len(levelTags)]*log.Logger // no color, for files
	file     *os.File
	minLevel LogLevel
}

var (
	defaultLogger *Logger
	once          sync.Once
	mu            sync.Mutex
)

// ensureInitialized creates a console logger if Init was never called
func ensureInitialized() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if defaultLogger == nil {
			defaultLogger = newLogger(os.Stdout, nil, nil, DEBUG)
		}
	})
}

func newLogger(console, plain io.Writer, file *os.File, level LogLevel) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	l := &Logger{file: file, minLevel: level}
	for lvl, t := range levelTags {
		if console != nil {
			l.console[lvl] = log.New(console, t.color+t.tag+colorReset, flags)
		}
		if plain != nil {
			l.plain[lvl] = log.New(plain, t.tag, flags)
		}
	}
	return l
}

// Init initializes the logger with optional file and console output.
// If filename is empty, logs only to console.
// If console is false, logs only to file.
func Init(filename string, console bool) error {
	var file *os.File
	if filename != "" {
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
	}

	var consoleOut io.Writer
	if console {
		consoleOut = os.Stdout
	}
	if file == nil && consoleOut == nil {
		return fmt.Errorf("no output destination specified")
	}

	var plainOut io.Writer
	if file != nil {
		plainOut = file
	}
	install(newLogger(consoleOut, plainOut, file, currentLevel()))
	return nil
}

// SetOutput sends uncolored output to w only. Mostly useful in tests.
func SetOutput(w io.Writer) {
	install(newLogger(nil, w, nil, currentLevel()))
}

func install(l *Logger) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger != nil && defaultLogger.file != nil {
		defaultLogger.file.Close()
	}
	defaultLogger = l
}

func currentLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		return DEBUG
	}
	return defaultLogger.minLevel
}

// SetLevel sets the minimum log level (DEBUG, INFO, WARN, ERROR)
// Messages below this level will not be logged
func SetLevel(level LogLevel) {
	ensureInitialized()
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.minLevel = level
}

// Close closes the log file if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if defaultLogger != nil && defaultLogger.file != nil {
		defaultLogger.file.Close()
		defaultLogger.file = nil
		defaultLogger.plain = [len(levelTags)]*log.Logger{}
	}
}

func output(level LogLevel, msg string) {
	ensureInitialized()
	mu.Lock()
	l := defaultLogger
	mu.Unlock()

	if level < l.minLevel {
		return
	}
	// depth 3: output <- Infof <- caller
	if c := l.console[level]; c != nil {
		c.Output(3, msg)
	}
	if p := l.plain[level]; p != nil {
		p.Output(3, msg)
	}
}

// Debug logs a debug message
func Debug(v ...interface{}) { output(DEBUG, fmt.Sprint(v...)) }

// Debugf logs a formatted debug message
func Debugf(format string, v ...interface{}) { output(DEBUG, fmt.Sprintf(format, v...)) }

// Info logs an info message
func Info(v ...interface{}) { output(INFO, fmt.Sprint(v...)) }

// Infof logs a formatted info message
func Infof(format string, v ...interface{}) { output(INFO, fmt.Sprintf(format, v...)) }

// Warn logs a warning message
func Warn(v ...interface{}) { output(WARN, fmt.Sprint(v...)) }

// Warnf logs a formatted warning message
func Warnf(format string, v ...interface{}) { output(WARN, fmt.Sprintf(format, v...)) }

// Error logs an error message
func Error(v ...interface{}) { output(ERROR, fmt.Sprint(v...)) }

// Errorf logs a formatted error message
func Errorf(format string, v ...interface{}) { output(ERROR, fmt.Sprintf(format, v...)) }

// Fatal logs an error message and exits the program
func Fatal(v ...interface{}) {
	output(ERROR, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits the program
func Fatalf(format string, v ...interface{}) {
	output(ERROR, fmt.Sprintf(format, v...))
	os.Exit(1)
}
