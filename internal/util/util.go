package util

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// InitDir creates the parent directory of path with the given mode.
func InitDir(path string, mode fs.FileMode) error {
	expanded := os.ExpandEnv(path)
	return os.MkdirAll(filepath.Dir(expanded), mode)
}

func CheckError(err error) {
	// For now just delegate to Cobra's CheckErr
	cobra.CheckErr(err)
}
