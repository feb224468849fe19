package script

import (
	"fmt"
	"io"
	"time"
)

// Failure describes a failed step.
type Failure struct {
	Step    int
	Name    string
	Message string
}

// FileResult is the outcome of one script file.
type FileResult struct {
	Filename string
	Steps    int
	Failures []Failure
	Duration time.Duration
}

// OK reports whether every step passed.
func (f *FileResult) OK() bool {
	return len(f.Failures) == 0
}

// Summary aggregates file results.
type Summary struct {
	Files    []*FileResult
	Duration time.Duration
}

// Add records a file result.
func (s *Summary) Add(result *FileResult) {
	s.Files = append(s.Files, result)
}

// Steps returns the number of executed steps.
func (s *Summary) Steps() int {
	total := 0
	for _, f := range s.Files {
		total += f.Steps
	}
	return total
}

// Failed returns the number of failed steps.
func (s *Summary) Failed() int {
	total := 0
	for _, f := range s.Files {
		total += len(f.Failures)
	}
	return total
}

// OK reports whether every step of every file passed.
func (s *Summary) OK() bool {
	return s.Failed() == 0
}

// Format writes a text summary.
func (s *Summary) Format(w io.Writer) error {
	for _, f := range s.Files {
		status := "Success"
		if !f.OK() {
			status = fmt.Sprintf("Failed (%d step(s))", len(f.Failures))
		}
		if _, err := fmt.Fprintf(w, "%s: %s (%d step(s) in %d ms)\n", f.Filename, status, f.Steps, f.Duration.Milliseconds()); err != nil {
			return err
		}
		for _, failure := range f.Failures {
			if _, err := fmt.Fprintf(w, "  step %d %s: %s\n", failure.Step, failure.Name, failure.Message); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Executed files: %d\n", len(s.Files)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Executed steps: %d\n", s.Steps()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Failed steps:   %d\n", s.Failed()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Duration:       %d ms\n", s.Duration.Milliseconds()); err != nil {
		return err
	}
	return nil
}
