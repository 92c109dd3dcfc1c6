// Package mmap maps files read-only into memory for zero-copy access.
package mmap

import (
	"fmt"
	"os"
)

// Mapping is a file mapped read-only into memory.
// The mapped bytes stay valid until Close.
type Mapping struct {
	file *os.File
	data []byte
}

// Open memory-maps the named file read-only.
// An empty file yields a Mapping with no data.
func Open(path string) (*Mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &Mapping{file: file}, nil
	}
	if size != int64(int(size)) {
		file.Close()
		return nil, fmt.Errorf("cannot map %s: size %d overflows the address space", path, size)
	}
	data, err := mapFile(int(file.Fd()), int(size))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("cannot map %s: %w", path, err)
	}
	return &Mapping{file: file, data: data}, nil
}

// Data returns the mapped bytes.
// The slice is only valid until Close.
func (m *Mapping) Data() []byte {
	return m.data
}

// Size returns the mapped length in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// AdviseSequential hints to the kernel that the mapping will be read
// sequentially from front to back, increasing readahead.
func (m *Mapping) AdviseSequential() error {
	if len(m.data) == 0 {
		return nil
	}
	return madvise(m.data, adviseSequential)
}

// AdviseWillNeed hints to the kernel that the whole mapping will be
// needed soon, prompting it to prefetch the pages.
func (m *Mapping) AdviseWillNeed() error {
	if len(m.data) == 0 {
		return nil
	}
	return madvise(m.data, adviseWillNeed)
}

// Close unmaps the data and closes the underlying file.
// Close is idempotent.
// The bytes returned by Data must not be used after Close.
func (m *Mapping) Close() error {
	var err error
	if m.data != nil {
		err = unmapFile(m.data)
		m.data = nil
	}
	if m.file != nil {
		if closeErr := m.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.file = nil
	}
	return err
}
