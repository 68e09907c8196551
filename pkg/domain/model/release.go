package model

// Release represents a published release of the upstream repository
type Release struct {
	TagName string  // Release tag name
	Name    string  // Release name
	Assets  []Asset // Assets attached to the release, in upstream order
}

// Asset represents a downloadable file attached to a release
type Asset struct {
	Name        string
	DownloadURL string
}

// FindAsset returns the asset whose name equals name exactly
func (r *Release) FindAsset(name string) (*Asset, bool) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], true
		}
	}
	return nil, false
}
