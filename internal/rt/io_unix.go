//go:build unix

package rt

import (
	"errors"

	"golang.org/x/sys/unix"
)

// openFile opens path and closes it again, returning the descriptor number
// the kernel assigned. Ports never hold on to descriptors.
func openFile(path string, write bool) (int, error) {
	flags := unix.O_RDONLY | unix.O_CLOEXEC
	if write {
		flags = unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC
	}
	fd, err := unix.Open(path, flags, 0o644)
	if err != nil {
		return -1, err
	}
	return fd, unix.Close(fd)
}

func writeFile(path string, data []byte) (err error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := unix.Close(fd); err == nil {
			err = cerr
		}
	}()
	for len(data) > 0 {
		n, err := unix.Write(fd, data)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	size := 0
	if err := unix.Fstat(fd, &st); err == nil && st.Size > 0 {
		size = int(st.Size)
	}
	buf := make([]byte, 0, size+1)
	chunk := make([]byte, 4096)
	for {
		n, err := unix.Read(fd, chunk)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return buf, nil
		}
		buf = append(buf, chunk[:n]...)
	}
}
