package adapter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"covnet.dev/pkg/covnet/internal/model"
)

// VectorStore opens stimulus-vector files: one line per driven transaction,
// read back by the testbench alongside the design under test.
type VectorStore interface {
	Open(path model.Path, names []string) (VectorFile, error)
}

// VectorFile receives one row of signal values per transaction.
type VectorFile interface {
	Push(values []int64) error
	Close() error
}

type localVectorStore struct{}

// NewVectorStore creates a VectorStore writing to the local filesystem.
func NewVectorStore() VectorStore {
	return &localVectorStore{}
}

// Open creates (or truncates) a vector file. The signal names are written
// as a leading comment so the column order is recorded with the data.
func (vs *localVectorStore) Open(path model.Path, names []string) (VectorFile, error) {
	file, err := os.Create(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create vector file %s: %w", path, err)
	}

	w := bufio.NewWriter(file)

	if len(names) > 0 {
		if _, err := fmt.Fprintf(w, "# %s\n", strings.Join(names, ", ")); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write vector header: %w", err)
		}
	}

	return &localVectorFile{file: file, w: w}, nil
}

type localVectorFile struct {
	file *os.File
	w    *bufio.Writer
}

// Push implements VectorFile.
func (vf *localVectorFile) Push(values []int64) error {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = strconv.FormatInt(v, 10)
	}

	if _, err := vf.w.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write vector row: %w", err)
	}

	return nil
}

// Close implements VectorFile.
func (vf *localVectorFile) Close() error {
	if err := vf.w.Flush(); err != nil {
		vf.file.Close()
		return fmt.Errorf("failed to flush vector file: %w", err)
	}

	return vf.file.Close()
}
