package generator

import (
	"fmt"
	"html"
	"maps"
	"path"
	"slices"
	"strings"
)

// redirects returns one client-side redirect stub per configured legacy
// path, in lexical order of the source.
func (a siteArtifacts) redirects() []artifact {
	sources := slices.Sorted(maps.Keys(a.cfg.Redirects))
	out := make([]artifact, 0, len(sources))
	for _, source := range sources {
		target := strings.TrimSpace(a.cfg.Redirects[source])
		output := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(source)), "/")
		if output == "" || target == "" {
			continue
		}
		out = append(out, artifact{
			Path:        output,
			Category:    categoryRedirect,
			ContentType: "text/html; charset=utf-8",
			Data:        []byte(redirectPage(a.cfg.Domain, target)),
		})
	}
	return out
}

func redirectPage(domain, target string) string {
	canonical := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		canonical = domain + "/" + strings.TrimPrefix(target, "/")
	}
	attr := html.EscapeString(target)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Redirecting...</title>
    <link rel="canonical" href="%s">
    <meta http-equiv="refresh" content="0;url=%s">
    <script>window.location.href = %q;</script>
</head>
<body>
    <h1>Redirecting...</h1>
    <p>This page has moved. If you are not redirected automatically, <a href="%s">click here</a>.</p>
</body>
</html>
`, html.EscapeString(canonical), attr, target, attr)
}
