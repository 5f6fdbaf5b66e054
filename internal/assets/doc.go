// Package assets provides the report's presentation assets and the local
// directory its data files live in.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - stylesheet, page template, narrative (go:embed)
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── AssetResolver     - override first, embedded fallback
//
// Overrides mirror the embedded layout:
//
//	{basePath}/
//	├── styles/{name}.css
//	├── templates/{name}.html
//	└── content/{name}.md
//
// # Data Directory
//
// DataDir maps the catalogued relative paths of maps, images and
// spreadsheets onto the local assets directory, rejecting absolute paths
// and anything that resolves outside it.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// Symlinks are resolved before containment checks.
package assets
