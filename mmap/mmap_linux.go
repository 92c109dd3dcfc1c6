//go:build linux

package mmap

import "syscall"

const (
	adviseSequential = syscall.MADV_SEQUENTIAL
	adviseWillNeed   = syscall.MADV_WILLNEED
)

func mapFile(fd, length int) ([]byte, error) {
	return syscall.Mmap(fd, 0, length, syscall.PROT_READ, syscall.MAP_SHARED)
}

func unmapFile(data []byte) error {
	return syscall.Munmap(data)
}

func madvise(data []byte, advice int) error {
	return syscall.Madvise(data, advice)
}
