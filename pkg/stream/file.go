package stream

import (
	"encoding"
	"fmt"
	"os"
	"sync"
)

// File is a stream file opened for appending. Unlike Writer it is safe for
// concurrent use.
type File struct {
	mu   sync.Mutex
	file *os.File
	w    *Writer
	path string
}

// OpenFile opens or creates the stream file at path. With truncate set any
// previous content is dropped, otherwise new frames go after it.
func OpenFile(path string, c Compression, truncate bool) (*File, error) {
	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream file: %w", err)
	}
	return &File{file: file, w: NewWriter(file, c), path: path}, nil
}

// WriteElement appends one frame to the buffer.
func (f *File) WriteElement(op Op, m encoding.BinaryMarshaler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.WriteElement(op, m)
}

// Flush forces the buffer contents to be written to the os file descriptor.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.Flush()
}

// Sync forces a flush to disk (fsync).
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.w.Flush(); err != nil {
		return err
	}
	return f.file.Sync()
}

// Frames returns the number of frames written through f.
func (f *File) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.w.Frames()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Close flushes pending frames and closes the underlying file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.w.Flush(); err != nil {
		_ = f.file.Close()
		return err
	}
	return f.file.Close()
}
