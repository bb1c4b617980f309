// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/jsonc/internal/serialize"
	"golang.org/x/sync/errgroup"
)

// byteOrderMark is the UTF-8 encoding of U+FEFF.
const byteOrderMark = "\xef\xbb\xbf"

// maxParallelReads bounds the number of files ReadFiles reads at once.
const maxParallelReads = 16

// ReadFile reads the contents of the named file and parses them as for
// [Codec.Parse]. A leading UTF-8 byte order mark is ignored.
//
// If the file cannot be read, the error has kind [ErrFileSystem].
func (c *Codec) ReadFile(path string, opts *ReadOptions) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.log.V(1).Info("read failed", "path", path, "error", err.Error())
		return nil, &Error{Op: "read", Path: path, Kind: ErrFileSystem, Err: err}
	}
	v, err := c.parse("read", strings.TrimPrefix(string(data), byteOrderMark), opts)
	if err != nil {
		err.(*Error).Path = path
		return nil, err
	}
	return v, nil
}

// ReadFiles reads and parses the named files concurrently, as for
// [Codec.ReadFile], and returns their values in the same order as paths.
// If any file fails, ReadFiles reports the first error, and the remaining
// reads are abandoned.
//
// A reviver in opts may be called concurrently. If it panics, the panic is
// propagated to the caller of ReadFiles once the other reads have stopped.
func (c *Codec) ReadFiles(ctx context.Context, paths []string, opts *ReadOptions) ([]any, error) {
	out := make([]any, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() (err error) {
			defer func() {
				if x := recover(); x != nil {
					err = readPanic{x}
				}
			}()
			if err := ctx.Err(); err != nil {
				return &Error{Op: "read", Path: path, Kind: ErrFileSystem, Err: err}
			}
			v, err := c.ReadFile(path, opts)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if p, ok := err.(readPanic); ok {
			panic(p.value)
		}
		return nil, err
	}
	return out, nil
}

// readPanic carries a panic out of a concurrent read.
type readPanic struct{ value any }

func (p readPanic) Error() string { return fmt.Sprintf("panic: %v", p.value) }

// WriteFile renders v as for [Codec.Stringify] and writes it to the named
// file. Missing parent directories are created, unless opts.NoMkdir is true.
// A nil opts provides default settings.
//
// If the file cannot be written, the error has kind [ErrFileSystem].
func (c *Codec) WriteFile(path string, v any, opts *WriteOptions) error {
	text, err := serialize.Marshal(v, opts.settings())
	if err != nil {
		e := encodeError("write", err)
		e.Path = path
		return e
	}
	if !opts.noMkdir() {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0777); err != nil {
			return &Error{Op: "write", Path: path, Kind: ErrFileSystem, Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(text), opts.mode()); err != nil {
		c.log.V(1).Info("write failed", "path", path, "error", err.Error())
		return &Error{Op: "write", Path: path, Kind: ErrFileSystem, Err: err}
	}
	c.log.V(1).Info("wrote file", "path", path, "bytes", len(text))
	return nil
}

// ReadFile reads and parses the named file. See [Codec.ReadFile].
func ReadFile(path string, opts *ReadOptions) (any, error) { return std.ReadFile(path, opts) }

// ReadFiles reads and parses the named files concurrently. See
// [Codec.ReadFiles].
func ReadFiles(ctx context.Context, paths []string, opts *ReadOptions) ([]any, error) {
	return std.ReadFiles(ctx, paths, opts)
}

// WriteFile renders v and writes it to the named file. See [Codec.WriteFile].
func WriteFile(path string, v any, opts *WriteOptions) error { return std.WriteFile(path, v, opts) }
