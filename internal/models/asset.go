package models

import "time"

// AssetRecord describes one screenshot stored under the assets directory
type AssetRecord struct {
	// Path is relative to the assets directory and uses forward slashes
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// URL returns the path the asset is served under
func (a AssetRecord) URL() string {
	return "/images/" + a.Path
}

// AssetIndex is the root structure of assets.json
type AssetIndex struct {
	Assets map[string]*AssetRecord `json:"assets"`
}
