package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/minios-linux/langsync/langfile"
)

// Session carries one synchronization run for one file: the two inputs,
// the rebuilt output and its report.
type Session struct {
	UpstreamPath string
	TargetPath   string
	Classifier   Classifier

	Upstream *langfile.File
	Existing *langfile.File
	Output   *langfile.File
	Report   Report

	// UpstreamMissing is set by Load when the upstream file does not
	// exist. Upstream is then empty and so is the output.
	UpstreamMissing bool

	existingData []byte
}

// NewSession returns a session that rebuilds targetPath from upstreamPath.
func NewSession(upstreamPath, targetPath string, cls Classifier) *Session {
	return &Session{
		UpstreamPath: upstreamPath,
		TargetPath:   targetPath,
		Classifier:   cls,
	}
}

// Load reads both inputs. A missing file on either side is treated as an
// empty file, so a new locale starts from nothing.
func (s *Session) Load() error {
	up, err := langfile.ParseFile(s.UpstreamPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		up = langfile.New(nil)
		s.UpstreamMissing = true
	case err != nil:
		return err
	}
	s.Upstream = up

	data, err := os.ReadFile(s.TargetPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.Existing = langfile.New(nil)
		s.existingData = nil
		return nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", s.TargetPath, err)
	}
	existing, err := langfile.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", s.TargetPath, err)
	}
	s.Existing = existing
	s.existingData = data
	return nil
}

// Run computes the output. Load must have succeeded.
func (s *Session) Run() Report {
	s.Output, s.Report = Sync(s.Upstream, s.Existing, s.Classifier)
	return s.Report
}

// Changed reports whether the output differs from the target on disk.
func (s *Session) Changed() bool {
	if s.Output == nil {
		return false
	}
	data, err := s.Output.Marshal()
	if err != nil {
		return true
	}
	return s.existingData == nil || !bytes.Equal(data, s.existingData)
}

// Save writes the output to the target path.
func (s *Session) Save() error {
	if s.Output == nil {
		return errors.New("session has no output; call Run first")
	}
	return s.Output.WriteFile(s.TargetPath)
}
