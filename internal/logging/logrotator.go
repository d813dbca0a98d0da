// Package logging provides daily log-file rotation with background gzip
// compression of the previous day's file. Two independent archival streams
// share this same rotation/compression machinery: the raw hex-framed
// Mode-S lines as received off the wire, and the decoded BaseStation/SBS
// CSV lines the exporter produces — each keeps its own file-per-day
// sequence, distinguished by kind.
package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Stream kinds. RawFrames archives the raw hex-framed lines a receiver
// sends before decode; SBSExport archives the decoded BaseStation/SBS CSV
// lines internal/export produces.
const (
	RawFrames = "raw"
	SBSExport = "sbs"
)

// LogRotator handles daily log rotation with gzip compression of rotated
// files for one archival stream (identified by kind).
type LogRotator struct {
	logDir      string
	kind        string
	useUTC      bool
	logger      *logrus.Logger
	currentFile *os.File
	currentDate string
	mutex       sync.RWMutex
}

// NewLogRotator creates a log rotator for the given stream kind, writing
// into logDir (created if necessary), and opens today's log file.
func NewLogRotator(logDir, kind string, useUTC bool, logger *logrus.Logger) (*LogRotator, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &LogRotator{
		logDir: logDir,
		kind:   kind,
		useUTC: useUTC,
		logger: logger,
	}

	if err := rotator.rotateLogFile(); err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}

	return rotator, nil
}

// Start runs the rotation scheduler until ctx is canceled, checking once a
// minute whether the date has rolled over.
func (r *LogRotator) Start(ctx context.Context) {
	r.logger.Info("starting log rotator")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("log rotator stopping")
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

func (r *LogRotator) checkRotation() {
	now := r.now()
	currentDate := now.Format("2006-01-02")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate != currentDate {
		r.logger.WithFields(logrus.Fields{
			"old_date": r.currentDate,
			"new_date": currentDate,
		}).Info("rotating log file")

		if err := r.rotateLogFile(); err != nil {
			r.logger.WithError(err).Error("failed to rotate log file")
		}
	}
}

func (r *LogRotator) now() time.Time {
	if r.useUTC {
		return time.Now().UTC()
	}
	return time.Now()
}

// rotateLogFile closes the current file (compressing it asynchronously) and
// opens the file for the current date.
func (r *LogRotator) rotateLogFile() error {
	newDate := r.now().Format("2006-01-02")

	if r.currentFile != nil {
		oldFile := r.currentFile
		oldDate := r.currentDate

		if err := oldFile.Close(); err != nil {
			r.logger.WithError(err).Error("failed to close old log file")
		}
		go r.compressLogFile(oldDate)
	}

	filename := fmt.Sprintf("%s_%s.log", r.kind, newDate)
	path := filepath.Join(r.logDir, filename)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	r.currentFile = file
	r.currentDate = newDate

	r.logger.WithField("file", path).Info("created new log file")
	return nil
}

// compressLogFile gzips the given date's log file and removes the
// uncompressed original.
func (r *LogRotator) compressLogFile(date string) {
	logFile := filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log", r.kind, date))
	gzipFile := filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log.gz", r.kind, date))

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return
	}

	src, err := os.Open(logFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("failed to open source file for compression")
		return
	}
	defer src.Close()

	dst, err := os.Create(gzipFile)
	if err != nil {
		r.logger.WithError(err).WithField("file", gzipFile).Error("failed to create compressed file")
		return
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)
	gzWriter.Name = filepath.Base(logFile)
	gzWriter.ModTime = time.Now()

	if _, err := io.Copy(gzWriter, src); err != nil {
		r.logger.WithError(err).Error("failed to compress log file")
		return
	}
	if err := gzWriter.Close(); err != nil {
		r.logger.WithError(err).Error("failed to close gzip writer")
		return
	}
	if err := os.Remove(logFile); err != nil {
		r.logger.WithError(err).WithField("file", logFile).Error("failed to remove original log file")
		return
	}

	r.logger.WithField("file", gzipFile).Info("log file compressed")
}

// GetWriter returns the currently open log file for use as an io.Writer.
func (r *LogRotator) GetWriter() (io.Writer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return nil, fmt.Errorf("no current log file")
	}
	return r.currentFile, nil
}

// Write lets a LogRotator itself be passed anywhere an io.Writer is
// expected (e.g. teeing the transport driver's raw input), re-resolving
// the current file on every call so writes keep landing in the right
// day's file across a midnight rotation.
func (r *LogRotator) Write(p []byte) (int, error) {
	w, err := r.GetWriter()
	if err != nil {
		return 0, err
	}
	return w.Write(p)
}

// Close stops the rotator and closes the current file.
func (r *LogRotator) Close() error {
	r.logger.Info("closing log rotator")

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("failed to close current log file")
			return err
		}
		r.currentFile = nil
	}
	return nil
}

// GetCurrentLogFile returns the path of the currently open log file.
func (r *LogRotator) GetCurrentLogFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}
	return filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log", r.kind, r.currentDate))
}

// GetLogFiles lists every log file for this stream in the log directory,
// compressed or not.
func (r *LogRotator) GetLogFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.logDir, r.kind+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes log files (other than the current one) whose
// modification time is older than maxDays.
func (r *LogRotator) CleanupOldLogs(maxDays int) error {
	if maxDays <= 0 {
		return fmt.Errorf("maxDays must be positive")
	}

	files, err := r.GetLogFiles()
	if err != nil {
		return fmt.Errorf("failed to get log files: %w", err)
	}

	var cutoff time.Time
	if r.useUTC {
		cutoff = time.Now().UTC().AddDate(0, 0, -maxDays)
	} else {
		cutoff = time.Now().AddDate(0, 0, -maxDays)
	}

	removed := 0
	current := r.GetCurrentLogFile()
	for _, file := range files {
		if file == current {
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("failed to stat log file")
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("failed to remove old log file")
			} else {
				r.logger.WithField("file", file).Info("removed old log file")
				removed++
			}
		}
	}

	r.logger.WithField("count", removed).Info("cleaned up old log files")
	return nil
}
