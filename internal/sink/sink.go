// Package sink persists rendered reports to files.
package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/metrics"
)

type Config struct {
	Dir           string
	OverwriteName string
	Prefix        string
	Encoder       Encoder
	Logger        *slog.Logger
}

// Sink writes reports either to one fixed file or to the next free
// numbered file in Dir.
type Sink struct {
	dir           string
	overwriteName string
	prefix        string
	enc           Encoder
	logger        *slog.Logger
}

func New(cfg Config) *Sink {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.OverwriteName == "" {
		cfg.OverwriteName = "report"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "report_"
	}
	if cfg.Encoder == nil {
		cfg.Encoder = TextEncoder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sink{
		dir:           cfg.Dir,
		overwriteName: cfg.OverwriteName,
		prefix:        cfg.Prefix,
		enc:           cfg.Encoder,
		logger:        cfg.Logger.With("component", "sink"),
	}
}

func (s *Sink) OverwritePath() string {
	return filepath.Join(s.dir, s.overwriteName+s.enc.Ext())
}

// WriteOverwrite replaces the contents of OverwritePath with rep.
func (s *Sink) WriteOverwrite(rep domain.Report) (path string, err error) {
	defer func() { metrics.ObserveWrite("overwrite", err) }()

	data, err := s.enc.Encode(rep)
	if err != nil {
		return "", err
	}
	path = s.OverwritePath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("report file replaced", "path", path, "bytes", len(data))
	return path, nil
}

// WriteNew writes rep to <prefix><n><ext> for the smallest n >= 1 whose file
// does not exist yet. Files are created exclusively, so an existing file is
// never touched even if another process is numbering in the same directory.
func (s *Sink) WriteNew(rep domain.Report) (path string, err error) {
	defer func() { metrics.ObserveWrite("new", err) }()

	data, err := s.enc.Encode(rep)
	if err != nil {
		return "", err
	}

	for n := 1; ; n++ {
		path = filepath.Join(s.dir, s.prefix+strconv.Itoa(n)+s.enc.Ext())
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if werr = errors.Join(werr, cerr); werr != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("write %s: %w", path, werr)
		}
		s.logger.Debug("report file created", "path", path, "bytes", len(data))
		return path, nil
	}
}
