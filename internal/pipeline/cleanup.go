package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// generatedExts are the only extensions cleanup will ever touch.
var generatedExts = map[string]bool{".cpp": true, ".h": true, ".cmake": true}

// generatedPrefixes match the basenames this generator owns. Anything
// else in the output directory is user property and survives a clean.
var generatedPrefixes = []string{
	"ppc_recomp",
	"ppc_func_mapping",
	"function_table_init",
	"ppc_config",
}

// ownsFile reports whether a basename belongs to a prior run of this
// project.
func ownsFile(name, project string) bool {
	if !generatedExts[filepath.Ext(name)] {
		return false
	}
	if name == "sources.cmake" {
		return true
	}
	if project != "" && strings.HasPrefix(name, project+"_") {
		return true
	}
	for _, p := range generatedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// cleanOutputDir removes prior generated artifacts and creates the
// directory when missing. It never recurses and never deletes files it
// cannot prove it generated, so a repointed out_directory_path cannot
// eat unrelated work.
func cleanOutputDir(dir, project string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !ownsFile(e.Name(), project) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove stale %s: %w", e.Name(), err)
		}
	}
	return nil
}
