package types

// Upstream defaults. Every value can be overridden from the CLI or a TOML
// config file.
const (
	DefaultOwner      = "electron"
	DefaultRepo       = "electron"
	DefaultAssetName  = "electron-api.json"
	DefaultWebsiteURL = "https://raw.githubusercontent.com/electron/electron.atom.io/gh-pages/_data/locale.yml"
	DefaultOutputDir  = "content/en"

	// ReservedDocSegment marks documentation subtrees that are published
	// through the API data stage instead of as plain markdown.
	ReservedDocSegment = "api"
)

// Paths relative to the output root.
const (
	DocsDir             = "docs"
	APIDataPath         = "api/electron-api.json"
	APIDescriptionsPath = "api/api-descriptions.yml"
	WebsiteContentPath  = "website/locale.yml"
)
