// Package save writes files atomically, optionally keeping a backup copy
// of the previous contents.
package save

import (
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/errors"
)

// File replaces the contents of path with data. The data is written to a
// temporary file in the same directory, synced and renamed over path, so
// readers see either the old or the new contents. An existing file keeps
// its mode; a new file gets constants.FilePermissions. When path is a
// symlink the link is kept and its target is replaced, with any backup
// written next to the target.
func File(path string, data []byte, opts ...Option) error {
	options := Defaults().Apply(opts...)

	path, err := resolve(path)
	if err != nil {
		return err
	}

	perm := os.FileMode(constants.FilePermissions)
	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		if options.backupSuffix != "" {
			if err := backup(path, path+options.backupSuffix, perm); err != nil {
				return err
			}
			options.logger.Debug().
				Str("path", path).
				Str("backup", path+options.backupSuffix).
				Msg("Wrote backup")
		}
	case !os.IsNotExist(err):
		return errors.WrapIO("stat", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.WrapIO("sync", tmpPath, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	committed = true

	options.logger.Debug().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Saved file")
	return nil
}

// resolve follows symlinks in path. A path that does not exist yet is
// returned unchanged.
func resolve(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	switch {
	case err == nil:
		return resolved, nil
	case os.IsNotExist(err):
		return path, nil
	default:
		return "", errors.WrapIO("resolve", path, err)
	}
}

// backup copies src to dst, replacing dst.
func backup(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // path comes from the caller's configuration
	if err != nil {
		return errors.WrapIO("open", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // path derived from registry path
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapIO("write", dst, err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return errors.WrapIO("sync", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.WrapIO("close", dst, err)
	}
	return nil
}
