//go:build darwin

package mmap

import (
	"syscall"
	"unsafe"
)

// The syscall package does not define the MADV_* values on darwin,
// these match /usr/include/sys/mman.h.
const (
	adviseSequential = 2
	adviseWillNeed   = 3
)

func mapFile(fd, length int) ([]byte, error) {
	return syscall.Mmap(fd, 0, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

func unmapFile(data []byte) error {
	return syscall.Munmap(data)
}

func madvise(data []byte, advice int) error {
	if len(data) == 0 {
		return nil
	}
	_, _, errno := syscall.Syscall(syscall.SYS_MADVISE, uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)), uintptr(advice))
	if errno != 0 {
		return errno
	}
	return nil
}
