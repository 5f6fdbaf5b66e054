package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads presentation asset overrides from a directory.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := resolveBase(basePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadStyle loads {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.load("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate loads {basePath}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.load("templates", name, ".html", ErrTemplateNotFound)
}

// LoadContent loads {basePath}/content/{name}.md.
func (f *FilesystemLoader) LoadContent(name string) (string, error) {
	return f.load("content", name, ".md", ErrContentNotFound)
}

func (f *FilesystemLoader) load(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, dir, name+ext)
	if err := verifyPathContainment(f.basePath, filePath); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return string(data), nil
}

// DataDir maps catalogued relative paths (maps, images, spreadsheets) onto a
// local directory. The directory need not exist yet; missing assets are
// materialized into it on demand.
type DataDir struct {
	basePath string
}

// NewDataDir creates a DataDir rooted at path.
func NewDataDir(path string) (*DataDir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	absPath, err := resolveBase(path)
	if err != nil {
		return nil, err
	}
	return &DataDir{basePath: absPath}, nil
}

// Root returns the absolute directory path.
func (d *DataDir) Root() string {
	return d.basePath
}

// Resolve returns the absolute local path for rel. Absolute paths and paths
// leaving the directory are rejected with ErrPathTraversal.
func (d *DataDir) Resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrPathTraversal, rel)
	}

	filePath := filepath.Join(d.basePath, filepath.FromSlash(rel))
	if err := verifyPathContainment(d.basePath, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// resolveBase cleans path to an absolute form, resolving symlinks when the
// path already exists so containment checks compare real paths.
func resolveBase(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}
	return absPath, nil
}

// verifyPathContainment ensures filePath resolves inside basePath, following
// symlinks when the file exists.
func verifyPathContainment(basePath, filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A file that does not exist yet is checked on its cleaned path.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// Separator suffix rejects sibling prefixes (/base/path vs /base/pathevil).
	if !strings.HasPrefix(absFilePath, basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
