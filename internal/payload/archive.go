package payload

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// MaxMemberSize bounds the size of a file extracted from an archive.
const MaxMemberSize = 64 << 20

// ErrMemberNotFound is returned when an archive has no file with the
// requested name.
var ErrMemberNotFound = errors.New("member not found in archive")

var (
	zipMagic  = []byte("PK\x03\x04")
	gzipMagic = []byte{0x1f, 0x8b}
)

// IsArchive reports whether b starts like a zip or gzip stream.
func IsArchive(b []byte) bool {
	return bytes.HasPrefix(b, zipMagic) || bytes.HasPrefix(b, gzipMagic)
}

// ExtractMember returns the contents of the first regular file named name
// (compared by base name) in a zip or tar.gz archive.
func ExtractMember(archive []byte, name string) ([]byte, error) {
	switch {
	case bytes.HasPrefix(archive, zipMagic):
		return extractZipMember(archive, name)
	case bytes.HasPrefix(archive, gzipMagic):
		return extractTarGzMember(archive, name)
	default:
		return nil, fmt.Errorf("unrecognized archive format")
	}
}

func extractZipMember(archive []byte, name string) ([]byte, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}

	for _, file := range zipReader.File {
		if err := checkMemberPath(file.Name); err != nil {
			return nil, err
		}
		if file.FileInfo().IsDir() || path.Base(file.Name) != name {
			continue
		}
		if file.UncompressedSize64 > MaxMemberSize {
			return nil, fmt.Errorf("member %s is %d bytes, limit %d", file.Name, file.UncompressedSize64, MaxMemberSize)
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open member %s: %w", file.Name, err)
		}
		defer rc.Close()

		return readMember(rc, file.Name)
	}

	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
}

func extractTarGzMember(archive []byte, name string) ([]byte, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}

		if err := checkMemberPath(header.Name); err != nil {
			return nil, err
		}
		if header.Typeflag != tar.TypeReg || path.Base(header.Name) != name {
			continue
		}
		if header.Size > MaxMemberSize {
			return nil, fmt.Errorf("member %s is %d bytes, limit %d", header.Name, header.Size, MaxMemberSize)
		}

		return readMember(tarReader, header.Name)
	}
}

// checkMemberPath rejects absolute names and names that climb out of the
// archive root.
func checkMemberPath(name string) error {
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("illegal file path: %s", name)
	}
	return nil
}

func readMember(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxMemberSize+1))
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", name, err)
	}
	if len(data) > MaxMemberSize {
		return nil, fmt.Errorf("member %s exceeds limit %d", name, MaxMemberSize)
	}
	return data, nil
}
