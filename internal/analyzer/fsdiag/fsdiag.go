// Package fsdiag diagnoses filesystem startup failures: missing files
// (typically configuration) and permission errors.
package fsdiag

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterAnalyzer("filenotfound", func() (types.Analyzer, error) {
		return fileNotFound{}, nil
	})
	registry.Default().MustRegisterAnalyzer("permission", func() (types.Analyzer, error) {
		return permissionDenied{}, nil
	})
}

type fileNotFound struct{}

func (fileNotFound) Name() string  { return "filenotfound" }
func (fileNotFound) Priority() int { return -10 }

func (fileNotFound) Analyze(failure error) *types.Diagnosis {
	if !errors.Is(failure, fs.ErrNotExist) {
		return nil
	}
	d := &types.Diagnosis{
		Description: "A file required at startup does not exist.",
		Action:      "Create the file, or point the application at the correct path.",
		Cause:       failure,
	}
	if path := pathOf(failure); path != "" {
		d.Description = fmt.Sprintf("The file %s required at startup does not exist.", path)
	}
	return d
}

type permissionDenied struct{}

func (permissionDenied) Name() string  { return "permission" }
func (permissionDenied) Priority() int { return -10 }

func (permissionDenied) Analyze(failure error) *types.Diagnosis {
	if !errors.Is(failure, fs.ErrPermission) {
		return nil
	}
	d := &types.Diagnosis{
		Description: "The application lacks permission to access a file it needs at startup.",
		Action:      "Adjust the file's ownership or mode, or run the application as a user with access.",
		Cause:       failure,
	}
	if path := pathOf(failure); path != "" {
		d.Description = fmt.Sprintf("The application lacks permission to access %s.", path)
	}
	return d
}

func pathOf(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return ""
}
