package generator

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

const themeAssetDir = "static/theme"

// themeAssetArtifacts copies the selected theme's manifest assets into
// static/theme/. Nothing is copied when no theme is configured.
func (s *service) themeAssetArtifacts() ([]artifact, error) {
	if s.deps.ThemeAssets == nil || !s.deps.Theme.Enabled() {
		return nil, nil
	}
	var out []artifact
	for _, asset := range s.deps.Theme.Assets {
		data, err := fs.ReadFile(s.deps.ThemeAssets, asset)
		if err != nil {
			return out, fmt.Errorf("generator: theme asset %s: %w", asset, err)
		}
		out = append(out, artifact{
			Path:        path.Join(themeAssetDir, asset),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(asset),
			Data:        data,
		})
	}
	return out, nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "avif":
		return "image/avif"
	case "ico":
		return "image/x-icon"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
