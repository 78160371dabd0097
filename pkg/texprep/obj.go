package texprep

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// normalMapKeys are the material statements that name a normal map.
var normalMapKeys = map[string]bool{
	"map_bump": true,
	"bump":     true,
	"norm":     true,
	"map_kn":   true,
}

// scanStatements calls fn with the keyword and argument of every
// statement in an OBJ or MTL file. Comments and blank lines are skipped.
func scanStatements(path string, fn func(key, arg string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("texprep: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		if key == "" {
			continue
		}
		fn(key, strings.TrimSpace(arg))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("texprep: read %s: %w", path, err)
	}
	return nil
}

// mapPath extracts the file name from a texture map argument, skipping
// options such as "-bm 1.0".
func mapPath(arg string) string {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// NormalMapsInObj returns the normal map files referenced by the materials
// of the OBJ model at objPath, in first-seen order without duplicates.
// Paths are resolved against the directory of the file naming them.
func NormalMapsInObj(objPath string) ([]string, error) {
	objDir := filepath.Dir(objPath)
	var libs []string
	err := scanStatements(objPath, func(key, arg string) {
		if key != "mtllib" {
			return
		}
		for _, lib := range strings.Fields(arg) {
			libs = append(libs, filepath.Join(objDir, lib))
		}
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var maps []string
	for _, lib := range libs {
		libDir := filepath.Dir(lib)
		err := scanStatements(lib, func(key, arg string) {
			if !normalMapKeys[strings.ToLower(key)] {
				return
			}
			p := mapPath(arg)
			if p == "" {
				return
			}
			p = filepath.Join(libDir, filepath.FromSlash(strings.ReplaceAll(p, `\`, "/")))
			if !seen[p] {
				seen[p] = true
				maps = append(maps, p)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return maps, nil
}

// FlipYAllNormalMapsInObj flips every normal map used by the model at
// objPath in place. Progress is drawn to progress when it is not nil. It
// returns the files it flipped.
func FlipYAllNormalMapsInObj(objPath string, progress io.Writer) ([]string, error) {
	maps, err := NormalMapsInObj(objPath)
	if err != nil {
		return nil, err
	}
	slog.Info("flipping normal maps", "obj", objPath, "count", len(maps))
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions(len(maps),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("flipping normal maps"),
		progressbar.OptionShowCount(),
	)
	defer bar.Close()

	var done []string
	for _, p := range maps {
		if err := FlipYNormalMap(p, p); err != nil {
			return done, err
		}
		slog.Debug("flipped normal map", "path", p)
		done = append(done, p)
		bar.Add(1)
	}
	return done, nil
}
