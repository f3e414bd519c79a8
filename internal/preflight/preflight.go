package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sys/unix"

	"discset/internal/config"
	"discset/internal/scan"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg. Write access is only
// required when dryRun is false.
func RunAll(cfg *config.Config, dryRun bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("ROM directory", cfg.Paths.RomsDir, !dryRun))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir, true))

	if dryRun || cfg.Catalog.Mode != config.CatalogModePatch {
		return results
	}
	for _, platform := range cfg.Catalog.Platforms {
		if len(cfg.Scan.Platforms) > 0 && !contains(cfg.Scan.Platforms, platform) {
			continue
		}
		path := filepath.Join(cfg.Paths.RomsDir, platform, cfg.Catalog.FileName)
		results = append(results, CheckCatalogAccess(platform, path))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if write {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckCatalogAccess verifies that an existing catalog and its directory are
// writable so the backup and the rewrite can both succeed. A missing catalog
// passes; the run reports it per set instead.
func CheckCatalogAccess(platform, path string) Result {
	name := fmt.Sprintf("Catalog (%s)", platform)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (absent)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	if err := unix.Access(filepath.Dir(path), unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory not writable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// PlatformCount returns how many platform directories a run would scan, for
// display alongside the checks.
func PlatformCount(cfg *config.Config) (int, error) {
	platforms, err := scan.Platforms(cfg.Paths.RomsDir, cfg.Scan.Platforms)
	if err != nil {
		return 0, err
	}
	return len(platforms), nil
}

func contains(values []string, target string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.EqualFold(v, target) })
}
