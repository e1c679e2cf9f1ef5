// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

// Package filemode defines the set of valid file modes for tree entries,
// mirroring the small, fixed vocabulary git itself uses (regular file,
// executable, symlink, directory, submodule/gitlink).
package filemode

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// A FileMode represents the mode of a tree entry, following the sparse
// set of values that git itself allows.
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0040000
	Regular    FileMode = 0100644
	Deprecated FileMode = 0100664
	Executable FileMode = 0100755
	Symlink    FileMode = 0120000
	Submodule  FileMode = 0160000

	// Fragments marks a blob whose content has been split into a
	// separate fragments object rather than stored inline. It is an
	// extension bit outside the range git itself assigns to file modes,
	// so it can be combined with any of the modes above.
	Fragments FileMode = 0400000
)

var ErrMalformedMode = errors.New("malformed mode")

// IsErrMalformedMode returns whether an error is ErrMalformedMode.
func IsErrMalformedMode(err error) bool {
	return errors.Is(err, ErrMalformedMode)
}

// New takes the octal string representation of a FileMode and returns
// the FileMode and a nil error, or an error if the string doesn't
// represent an octal number.
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("%w: %s", ErrMalformedMode, s)
	}
	return FileMode(n), nil
}

// String returns the octal string representation of the file mode.
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// IsFile returns true if the file mode represents a file (regular,
// deprecated, executable, or symlink), as opposed to a directory or
// submodule.
func (m FileMode) IsFile() bool {
	base := m &^ Fragments
	switch base {
	case Regular, Deprecated, Executable, Symlink:
		return true
	default:
		return false
	}
}

// ToOSFileMode returns the os.FileMode used for the entry in a worktree,
// ignoring the Fragments bit, or an error for a malformed mode.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m &^ Fragments {
	case Dir, Submodule:
		return os.ModePerm | os.ModeDir, nil
	case Regular, Deprecated:
		return os.FileMode(0644), nil
	case Executable:
		return os.FileMode(0755), nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrMalformedMode, m)
}

// IsMalformed returns true if the receiving FileMode does not match any
// of the valid ones.
func (m FileMode) IsMalformed() bool {
	base := m &^ Fragments
	switch base {
	case Empty, Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}
