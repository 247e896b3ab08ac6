package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/scss/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns the directory named by dirFunc, falling back to fallback
// under the home directory and then to the working directory.
func userDir(dirFunc func() (string, error), fallback string) string {
	if dir, err := dirFunc(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), basePrefix())
	},
)

// cacheDir returns the cache directory path used for transient files.
var cacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), basePrefix())
	},
)

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// configPathEnv returns the name of the environment variable holding extra
// configuration directories, such as SCSS_CONFIG_PATH.
func configPathEnv() string {
	return strings.ToUpper(strings.ReplaceAll(basePrefix(), "-", "_")) + "_CONFIG_PATH"
}

// configPaths returns the configuration files to load, in order: the one in
// the user configuration directory, then one in each directory listed in
// [configPathEnv]. Missing files are skipped by kong.
func configPaths() []string {
	delim := string(os.PathListSeparator)

	search := mung.Make(
		mung.WithSubjectItems(os.Getenv(configPathEnv())),
		mung.WithDelim(delim),
		mung.WithPrefixItems(configDir()),
		mung.WithFilter(func(dir string) bool { return strings.TrimSpace(dir) != "" }),
	).String()

	var paths []string

	for dir := range strings.SplitSeq(search, delim) {
		if dir == "" {
			continue
		}

		if path := filepath.Join(dir, baseConfig); !slices.Contains(paths, path) {
			paths = append(paths, path)
		}
	}

	return paths
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	err := os.MkdirAll(configDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
