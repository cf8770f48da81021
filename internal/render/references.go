package render

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"layerpage/internal/fileutil"
)

var cssURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// CheckReferences parses the rendered page and returns the local image
// references that do not resolve to a file under outputDir.
func CheckReferences(pagePath, outputDir string) ([]string, error) {
	f, err := os.Open(pagePath)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	refs := make(map[string]struct{})
	collectReferences(doc, refs)

	var missing []string
	for ref := range refs {
		ok, err := fileutil.Exists(filepath.Join(outputDir, filepath.FromSlash(ref)))
		if err != nil {
			return nil, fmt.Errorf("stat reference %s: %w", ref, err)
		}
		if !ok {
			missing = append(missing, ref)
		}
	}
	sort.Strings(missing)
	return missing, nil
}

func collectReferences(n *html.Node, refs map[string]struct{}) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			switch {
			case attr.Key == "src" && n.Data == "img":
				addReference(refs, attr.Val)
			case attr.Key == "style":
				for _, m := range cssURLPattern.FindAllStringSubmatch(attr.Val, -1) {
					addReference(refs, m[1])
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectReferences(c, refs)
	}
}

func addReference(refs map[string]struct{}, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/") || u.Path == "" {
		return
	}
	refs[u.Path] = struct{}{}
}
