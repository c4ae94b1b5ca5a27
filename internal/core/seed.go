package core

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"
)

// BuildFiletree returns a tree mirroring the directories and files found under
// dirPath on fsys. Only names, kinds and modification times are copied;
// symlinks and other special files are skipped.
func BuildFiletree(fsys billy.Filesystem, dirPath string) (*Filetree, error) {
	ft := New()
	if err := buildDirTree(fsys, dirPath, ft.root); err != nil {
		return nil, err
	}
	return ft, nil
}

func buildDirTree(fsys billy.Filesystem, dirPath string, dir *Dir) error {
	entries, err := fsys.ReadDir(dirPath)
	if err != nil {
		code := errors.CodeInternal
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return errors.WithContext(errors.Wrap(err, code, "failed to read seed directory"), "path", dirPath)
	}

	for _, entry := range entries {
		var child Element
		switch {
		case entry.IsDir():
			childDir := NewDir(entry.Name())
			if err := buildDirTree(fsys, fsys.Join(dirPath, entry.Name()), childDir); err != nil {
				return err
			}
			child = childDir
		case entry.Mode().IsRegular():
			child = NewFile(entry.Name())
		default:
			continue
		}

		child.SetCreatedAt(entry.ModTime())
		if err := dir.Add(child); err != nil {
			return err
		}
	}

	return nil
}
