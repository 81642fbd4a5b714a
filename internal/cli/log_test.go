package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("scanned") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))

	time.Sleep(10 * time.Millisecond)
	prog.stage("scan")
	prog.done("imported", "shots", 3)

	out := buf.String()
	for _, want := range []string{"stage", "name=scan", "imported", "shots=3", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressStagesHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.stage("load")
	if strings.Contains(buf.String(), "load") {
		t.Errorf("stage logged at info level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return a default logger when none is set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the stored logger")
	}
}

func TestLoadConfigStoresLogger(t *testing.T) {
	env := newTestEnv(t)
	c := New(&env.logs, LogInfo)
	c.configPath = env.config

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := c.loadConfig(cmd); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if loggerFromContext(cmd.Context()) != c.Logger {
		t.Error("loadConfig did not put the CLI logger into the command context")
	}

	quiet := filepath.Join(env.dir, "quiet.toml")
	if err := os.WriteFile(quiet, []byte("log_level = \"error\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.configPath = quiet
	c.SetVerbose(true)
	if err := c.loadConfig(cmd); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("verbose level = %v, want debug", c.Logger.GetLevel())
	}
}
