//go:build !unix

package rt

import "os"

// openFile opens path and closes it again, returning the descriptor number.
// Ports never hold on to descriptors.
func openFile(path string, write bool) (int, error) {
	var f *os.File
	var err error
	if write {
		f, err = os.Create(path)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return -1, err
	}
	fd := int(f.Fd())
	return fd, f.Close()
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
