package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nknorg/powledger/config"
)

const (
	DebugLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	maxLevelLog
)

const (
	callDepth  = 4
	logFlags   = log.Ldate | log.Lmicroseconds
	timeLayout = "2006-01-02_15.04.05"
	mb         = 1024 * 1024

	rotateCheckInterval = 30 * time.Second
)

var levelTags = [maxLevelLog]string{
	DebugLevel: colored("1;35", "[DEBUG]"),
	InfoLevel:  colored("0;32", "[INFO ]"),
	WarnLevel:  colored("0;33", "[WARN ]"),
	ErrorLevel: colored("0;31", "[ERROR]"),
}

// Log is usable before Init and writes to stdout at info level. WebLog
// receives HTTP access lines and discards them until Init.
var (
	Log    = New(os.Stdout, InfoLevel)
	WebLog = New(io.Discard, InfoLevel)

	initOnce sync.Once
)

func colored(code, msg string) string {
	return fmt.Sprintf("\033[%sm%s\033[m", code, msg)
}

func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

type Logger struct {
	sync.RWMutex
	level   int
	logger  *log.Logger
	logFile *os.File
}

// New creates a logger writing to out.
func New(out io.Writer, level int) *Logger {
	return &Logger{
		level:  level,
		logger: log.New(out, "", logFlags),
	}
}

func (l *Logger) reset(out io.Writer, level int, file *os.File) {
	l.Lock()
	defer l.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
	}
	l.level = level
	l.logger = log.New(out, "", logFlags)
	l.logFile = file
}

func (l *Logger) SetDebugLevel(level int) error {
	if level >= maxLevelLog || level < 0 {
		return errors.New("invalid debug level")
	}

	l.Lock()
	defer l.Unlock()

	l.level = level
	return nil
}

func (l *Logger) Level() int {
	l.RLock()
	defer l.RUnlock()
	return l.level
}

// write emits one line as "<level> GID <id>, <msg>".
func (l *Logger) write(level int, msg string) error {
	l.RLock()
	defer l.RUnlock()

	if level < l.level {
		return nil
	}

	line := fmt.Sprintf("%s GID %d, %s", levelTags[level], goroutineID(), msg)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return l.logger.Output(callDepth, line)
}

func (l *Logger) output(level int, a ...interface{}) error {
	return l.write(level, fmt.Sprintln(a...))
}

func (l *Logger) outputf(level int, format string, a ...interface{}) error {
	return l.write(level, fmt.Sprintf(format, a...))
}

func (l *Logger) Debug(a ...interface{}) {
	l.output(DebugLevel, a...)
}

func (l *Logger) Debugf(format string, a ...interface{}) {
	l.outputf(DebugLevel, format, a...)
}

func (l *Logger) Info(a ...interface{}) {
	l.output(InfoLevel, a...)
}

func (l *Logger) Infof(format string, a ...interface{}) {
	l.outputf(InfoLevel, format, a...)
}

func (l *Logger) Warning(a ...interface{}) {
	l.output(WarnLevel, a...)
}

func (l *Logger) Warningf(format string, a ...interface{}) {
	l.outputf(WarnLevel, format, a...)
}

func (l *Logger) Error(a ...interface{}) {
	l.output(ErrorLevel, a...)
}

func (l *Logger) Errorf(format string, a ...interface{}) {
	l.outputf(ErrorLevel, format, a...)
}

// callSite returns "func() file:line" for the caller of the exported helper
// that called it. CallersFrames expands inlined frames, so the skip count
// stays correct when the helpers get inlined.
func callSite() string {
	pc := make([]uintptr, 8)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return "?"
	}
	frame, _ := runtime.CallersFrames(pc[:n]).Next()
	funcName := strings.TrimPrefix(filepath.Ext(frame.Function), ".")
	return fmt.Sprintf("%s() %s:%d", funcName, filepath.Base(frame.File), frame.Line)
}

func Debug(a ...interface{}) {
	if Log.Level() > DebugLevel {
		return
	}
	Log.output(DebugLevel, append([]interface{}{callSite()}, a...)...)
}

func Debugf(format string, a ...interface{}) {
	if Log.Level() > DebugLevel {
		return
	}
	Log.write(DebugLevel, callSite()+" "+fmt.Sprintf(format, a...))
}

func Info(a ...interface{}) {
	Log.output(InfoLevel, a...)
}

func Infof(format string, a ...interface{}) {
	Log.outputf(InfoLevel, format, a...)
}

func Warning(a ...interface{}) {
	Log.output(WarnLevel, a...)
}

func Warningf(format string, a ...interface{}) {
	Log.outputf(WarnLevel, format, a...)
}

func Error(a ...interface{}) {
	Log.output(ErrorLevel, a...)
}

func Errorf(format string, a ...interface{}) {
	Log.outputf(ErrorLevel, format, a...)
}

func Fatalf(format string, a ...interface{}) {
	Log.outputf(ErrorLevel, format, a...)
	os.Exit(1)
}

func openLogFile(dir, name string) (*os.File, error) {
	if fi, err := os.Stat(dir); err == nil {
		if !fi.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
	} else if err := os.MkdirAll(dir, 0766); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, time.Now().Format(timeLayout)+"_"+name+".log")
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
}

// sink describes where one logger writes once Init has run.
type sink struct {
	logger     *Logger
	name       string
	alsoStdout bool
}

func (s *sink) open() error {
	writers := []io.Writer{}
	var file *os.File
	if len(config.Parameters.LogPath) > 0 {
		var err error
		file, err = openLogFile(config.Parameters.LogPath, s.name)
		if err != nil {
			return fmt.Errorf("open log file in %v failed: %v", config.Parameters.LogPath, err)
		}
		writers = append(writers, file)
	}
	if s.alsoStdout {
		writers = append(writers, os.Stdout)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}
	s.logger.reset(out, config.Parameters.LogLevel, file)
	return nil
}

// Init points Log and WebLog at config.Parameters.LogPath and starts the
// size based rotation loop. An empty LogPath keeps stdout only.
func Init() error {
	var err error
	initOnce.Do(func() {
		sinks := []*sink{
			{logger: Log, name: "LOG", alsoStdout: true},
			{logger: WebLog, name: "WEBLOG"},
		}
		for _, s := range sinks {
			if err = s.open(); err != nil {
				return
			}
		}

		if len(config.Parameters.LogPath) == 0 {
			return
		}
		go rotate(sinks)
	})
	return err
}

func rotate(sinks []*sink) {
	for {
		time.Sleep(rotateCheckInterval)
		for _, s := range sinks {
			if !s.logger.needNewLogFile() {
				continue
			}
			if err := s.open(); err != nil {
				Log.Errorf("Rotate %s file error: %v", s.name, err)
			}
		}
	}
}

func (l *Logger) GetLogFileSize() (int64, error) {
	l.RLock()
	defer l.RUnlock()

	if l.logFile == nil {
		return 0, errors.New("no log file")
	}
	fi, err := l.logFile.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (l *Logger) needNewLogFile() bool {
	size, err := l.GetLogFileSize()
	if err != nil {
		return false
	}
	return size > int64(config.Parameters.MaxLogFileSize)*mb
}
