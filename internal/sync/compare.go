package sync

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// InSync reports whether both snapshot files have identical content.
func InSync(remotePath, localPath string) (bool, error) {
	remoteSum, err := fileDigest(remotePath)
	if err != nil {
		return false, err
	}
	localSum, err := fileDigest(localPath)
	if err != nil {
		return false, err
	}
	return remoteSum == localSum, nil
}

// fileDigest returns the hex MD5 of a file's bytes.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
