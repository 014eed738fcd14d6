package wheatconv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions are the recognized image file extensions, in the order the
// converters probe them.
var imageExtensions = []string{".png", ".jpg", ".bmp"}

// stem returns the file name of path with its final extension removed.
func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// filesByExtInDir returns all regular files directly in dirPath whose name
// ends in ext. All files are returned if ext is empty.
func filesByExtInDir(dirPath, ext string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dirPath, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		if !e.Type().IsRegular() && e.Type()&os.ModeSymlink == 0 {
			continue
		}
		files = append(files, filepath.Join(dirPath, name))
	}
	return files, nil
}

// imageStemsInDir returns the set of stems of all image files directly in
// dirPath, across the recognized extensions.
func imageStemsInDir(dirPath string) (map[string]struct{}, error) {
	stems := make(map[string]struct{})
	for _, ext := range imageExtensions {
		files, err := filesByExtInDir(dirPath, ext)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			stems[stem(f)] = struct{}{}
		}
	}
	return stems, nil
}

// locateImage probes imagesDir for <stem> with each recognized extension, in
// order, and returns the first existing path.
func locateImage(imagesDir, imageStem string) (string, bool) {
	for _, ext := range imageExtensions {
		p := filepath.Join(imagesDir, imageStem+ext)
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

// fileExists reports whether path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readLines returns a slice of lines read from the file at path.
func readLines(path string) (lines []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q as lines: %w", path, err)
	}

	return lines, nil
}

// copyFile copies the regular file at src to dst, creating or truncating dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(out, &err)

	_, err = io.Copy(out, in)
	return err
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil),
// e is set to that error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
