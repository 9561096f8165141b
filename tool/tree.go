package tool

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	FileLimit = 100
)

var ignorePatterns = []string{
	"node_modules",
	"__pycache__",
	".git",
	".venv",
	"venv",
	"target",
	"dist",
	"build",
	".idea",
	".vscode",
	".cache",
}

// TreeResult is a rendered listing of the files in a project directory.
type TreeResult struct {
	Output    string
	Count     int
	Truncated bool
}

// Tree renders the files under root as an indented listing, directories
// first. Generated dependency and build folders are skipped and the listing
// stops after FileLimit files.
func Tree(root string) (TreeResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return TreeResult{}, fmt.Errorf("path not found: %s", root)
		}
		return TreeResult{}, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return TreeResult{}, fmt.Errorf("path is not a directory: %s", root)
	}

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		if shouldIgnore(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, filepath.ToSlash(rel))
			if len(files) >= FileLimit {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return TreeResult{}, fmt.Errorf("failed to walk directory: %w", err)
	}

	dirs := map[string]bool{".": true}
	filesByDir := make(map[string][]string)
	for _, file := range files {
		dir := pathDir(file)
		for d := dir; d != "."; d = pathDir(d) {
			dirs[d] = true
		}
		filesByDir[dir] = append(filesByDir[dir], pathBase(file))
	}

	return TreeResult{
		Output:    filepath.ToSlash(root) + "/\n" + renderDir(".", 0, dirs, filesByDir),
		Count:     len(files),
		Truncated: len(files) >= FileLimit,
	}, nil
}

func shouldIgnore(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, pattern := range ignorePatterns {
			if part == pattern {
				return true
			}
		}
	}
	return false
}

func pathDir(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "."
	}
	return p[:i]
}

func pathBase(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

func renderDir(dirPath string, depth int, dirs map[string]bool, filesByDir map[string][]string) string {
	var output strings.Builder

	if depth > 0 {
		output.WriteString(fmt.Sprintf("%s%s/\n", strings.Repeat("  ", depth), pathBase(dirPath)))
	}
	childIndent := strings.Repeat("  ", depth+1)

	children := []string{}
	for d := range dirs {
		if d != dirPath && d != "." && pathDir(d) == dirPath {
			children = append(children, d)
		}
	}
	sort.Strings(children)

	for _, child := range children {
		output.WriteString(renderDir(child, depth+1, dirs, filesByDir))
	}

	fileList := filesByDir[dirPath]
	sort.Strings(fileList)
	for _, file := range fileList {
		output.WriteString(childIndent + file + "\n")
	}

	return output.String()
}
