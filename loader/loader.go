// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/bookrag/core"
)

// DefaultExtensions lists the file extensions loaded when none are configured.
var DefaultExtensions = []string{".md"}

// Loader reads a directory tree of Markdown files into Documents.
type Loader struct {
	extensions map[string]bool
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithExtensions sets the file extensions to load, matched case-insensitively.
// Extensions may be given with or without the leading dot.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) error {
		if len(exts) == 0 {
			return errors.New("at least one extension is required")
		}
		l.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				return errors.New("extension cannot be empty")
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions[ext] = true
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// New creates a Loader.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{logger: slog.Default()}
	if err := WithExtensions(DefaultExtensions...)(l); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "loader")
	return l, nil
}

// Load walks root and returns one Document per readable file with a
// matching extension, in lexical path order.
//
// Returns an error wrapping core.ErrNotFound if root does not exist or is not
// a directory. Files that cannot be read or are not valid UTF-8 are skipped
// with a warning.
func (l *Loader) Load(ctx context.Context, root string) ([]core.Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: documents directory %s", core.ErrNotFound, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrNotFound, root)
	}

	var docs []core.Document
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			l.logger.Warn("skipping unreadable path", "path", path, "err", walkErr)
			return nil
		}
		if d.IsDir() || !l.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		doc, ok := l.readDocument(root, path)
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("loaded documents", "root", root, "count", len(docs))
	return docs, nil
}

func (l *Loader) readDocument(root, path string) (core.Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn("skipping unreadable file", "path", path, "err", err)
		return core.Document{}, false
	}
	if !utf8.Valid(data) {
		l.logger.Warn("skipping file with invalid UTF-8", "path", path)
		return core.Document{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		l.logger.Warn("skipping file outside root", "path", path, "err", err)
		return core.Document{}, false
	}

	content := string(data)
	meta, body := splitFrontMatter(content)
	title, err := parseTitle(meta)
	if err != nil {
		l.logger.Warn("ignoring malformed front matter", "path", path, "err", err)
	}

	return core.Document{
		Page:     filepath.ToSlash(rel),
		Content:  content,
		Headings: ExtractHeadings(body),
		Title:    title,
	}, true
}
