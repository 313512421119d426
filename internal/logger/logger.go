package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const envVar = "CMK_LOG"

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "module"
	_ = zap.RegisterEncoder("module", newModuleEncoder)
	// this must be at debug level because we handle the level ourselves
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, _ := cfg.Build()
	return logger.Sugar()
}

var (
	Logger = newLogger()
	Debugw = Logger.Debugw
	Debug  = Logger.Debug
	Debugf = Logger.Debugf
	Info   = Logger.Info
	Warn   = Logger.Warn
)

func newModuleEncoder(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
	return parseLevels(zapcore.NewConsoleEncoder(cfg), os.Getenv(envVar)), nil
}

func stringToLevel(str string) (zapcore.Level, bool) {
	for _, lvl := range []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
		zapcore.PanicLevel,
		zapcore.FatalLevel} {
		if str == lvl.String() {
			return lvl, true
		}
	}
	if str == "off" {
		return zapcore.FatalLevel + 1, true
	}
	return 0, false
}

// parseLevels reads a value like "error,target=debug". A bare level sets the
// default, a bare package name enables debug for that package.
func parseLevels(enc zapcore.Encoder, val string) moduleEncoder {
	me := moduleEncoder{
		Encoder: enc,
		level:   zapcore.ErrorLevel,
		modules: map[string]zapcore.Level{},
	}
	if val == "" {
		return me
	}
	for _, match := range strings.Split(strings.ToLower(val), ",") {
		match = strings.TrimSpace(match)
		lvl, found := stringToLevel(match)
		switch {
		case match == "":
		case found:
			me.level = lvl
		case !strings.Contains(match, "="):
			me.modules[match] = zapcore.DebugLevel
		default: // module=level, ignored if malformed
			parts := strings.Split(match, "=")
			if len(parts) == 2 {
				if lvl, found := stringToLevel(parts[1]); found {
					me.modules[parts[0]] = lvl
				}
			}
		}
	}
	return me
}

type moduleEncoder struct {
	zapcore.Encoder
	level   zapcore.Level
	modules map[string]zapcore.Level
}

func (me moduleEncoder) effectiveLevel(caller zapcore.EntryCaller) zapcore.Level {
	moduleWithFileAndLine := caller.TrimmedPath()
	if moduleWithFileAndLine == "undefined" {
		return me.level
	}
	if idx := strings.IndexRune(moduleWithFileAndLine, '/'); idx > 0 {
		if lvl, found := me.modules[moduleWithFileAndLine[:idx]]; found {
			return lvl
		}
	}
	return me.level
}

func (me moduleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line, err := me.Encoder.EncodeEntry(entry, fields)
	if entry.Level < me.effectiveLevel(entry.Caller) {
		line.Reset() // return nothing
	}
	return line, err
}

func (me moduleEncoder) Clone() zapcore.Encoder {
	modules := make(map[string]zapcore.Level, len(me.modules))
	for k, v := range me.modules {
		modules[k] = v
	}
	return moduleEncoder{Encoder: me.Encoder.Clone(), level: me.level, modules: modules}
}

var failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func Print(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
}
func Printfln(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// Failure writes a highlighted diagnostic line to w.
func Failure(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, failureStyle.Render(fmt.Sprintf(format, a...)))
}
