package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput dumps each http exchange to <dir>/<message id>.txt.
// the directory is wiped on startup so it only ever holds the most
// recent run.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		panic(err)
	}
	return FilesystemOutput{directory: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, id+".txt")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		slog.Warn("failed to write http dump", "path", path, "err", err)
	}
}
