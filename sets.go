package wheatconv

// Split membership files. Each split is a plaintext file under sets/ with one
// image stem per line; all.txt and train_val.txt are derived unions.

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agrovision/wheatconv/logger"
)

// The named dataset splits.
var splitNames = []string{"train", "val", "test"}

// ReadSplitList returns the image stems listed in the split file at path.
// Blank lines are ignored. A missing or unreadable file yields an empty list.
func ReadSplitList(path string) []string {
	lines, err := readLines(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.S().Warnf("Cannot read split file %s: %v", path, err)
		}
		return nil
	}

	stems := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			stems = append(stems, line)
		}
	}
	return stems
}

// WriteSplitFile writes the stems to path, sorted, one per line.
func WriteSplitFile(path string, stems map[string]struct{}) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	for _, s := range sortedStems(stems) {
		if _, err := fmt.Fprintln(file, s); err != nil {
			return err
		}
	}
	return nil
}

// WriteSetFiles writes the five split files under setsDir: the three source
// splits plus the derived all.txt and train_val.txt unions.
func WriteSetFiles(setsDir string, train, val, test map[string]struct{}) error {
	all := union(union(train, val), test)
	trainVal := union(train, val)

	files := []struct {
		name  string
		stems map[string]struct{}
	}{
		{"train.txt", train},
		{"val.txt", val},
		{"test.txt", test},
		{"all.txt", all},
		{"train_val.txt", trainVal},
	}
	for _, f := range files {
		if err := WriteSplitFile(filepath.Join(setsDir, f.name), f.stems); err != nil {
			return err
		}
	}

	logger.S().Infof("Created sets files: train=%d, val=%d, test=%d, all=%d",
		len(train), len(val), len(test), len(all))
	return nil
}

// Resplit assigns every image under categoryRoot/images to train/val/test
// according to the cumulative percentages and rewrites all five sets files.
//
// cumulativeSplits holds the cumulative distribution for train, val, test
// and must end at 100. Assignment is random per image; the derived unions
// hold by construction.
func Resplit(categoryRoot string, cumulativeSplits []int, rng *rand.Rand) error {
	if len(cumulativeSplits) != len(splitNames) {
		return fmt.Errorf("expected %d cumulative split values, got %d",
			len(splitNames), len(cumulativeSplits))
	}
	if cumulativeSplits[len(cumulativeSplits)-1] != 100 {
		return fmt.Errorf("the split percentages do not add up to 100")
	}

	stems, err := imageStemsInDir(filepath.Join(categoryRoot, "images"))
	if err != nil {
		return err
	}

	sets := make([]map[string]struct{}, len(splitNames))
	for i := range sets {
		sets[i] = make(map[string]struct{})
	}

	for _, s := range sortedStems(stems) {
		r := rng.Intn(100)
		for i, c := range cumulativeSplits {
			if r < c {
				sets[i][s] = struct{}{}
				break
			}
		}
	}

	return WriteSetFiles(filepath.Join(categoryRoot, "sets"), sets[0], sets[1], sets[2])
}

// stemSet maps the image names to the set of their stems.
func stemSet(names map[string]string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for name := range names {
		set[stem(name)] = struct{}{}
	}
	return set
}

// union returns a new set holding the members of both a and b.
func union(a, b map[string]struct{}) map[string]struct{} {
	u := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		u[k] = struct{}{}
	}
	for k := range b {
		u[k] = struct{}{}
	}
	return u
}

// sortedStems returns the members of set in lexicographic order.
func sortedStems(set map[string]struct{}) []string {
	stems := make([]string, 0, len(set))
	for s := range set {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	return stems
}
