package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir         string
	pollFile    *os.File
	summaryFile *os.File

	pollHeaderWritten    bool
	summaryHeaderWritten bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "polls.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating polls.csv: %w", err)
	}
	om.pollFile = f

	f, err = os.Create(filepath.Join(dir, "windows.csv"))
	if err != nil {
		om.pollFile.Close()
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	om.summaryFile = f

	return om, nil
}

// WritePoll appends one poll record to polls.csv.
func (om *OutputManager) WritePoll(p PollStats) error {
	if om == nil {
		return nil
	}
	records := []PollStats{p}
	if !om.pollHeaderWritten {
		if err := gocsv.Marshal(records, om.pollFile); err != nil {
			return fmt.Errorf("writing poll: %w", err)
		}
		om.pollHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.pollFile); err != nil {
		return fmt.Errorf("writing poll: %w", err)
	}
	return nil
}

// WriteSummary appends one window summary to windows.csv.
func (om *OutputManager) WriteSummary(s WindowSummary) error {
	if om == nil {
		return nil
	}
	records := []WindowSummary{s}
	if !om.summaryHeaderWritten {
		if err := gocsv.Marshal(records, om.summaryFile); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		om.summaryHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.summaryFile); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if om.pollFile != nil {
		if err := om.pollFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.summaryFile != nil {
		if err := om.summaryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
