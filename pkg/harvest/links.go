package harvest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DiscoverLinks parses an HTML page and returns the absolute http(s) links
// it references, resolved against base. Fragments are stripped and each
// link is reported once, in document order.
func DiscoverLinks(page []byte, base string) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]string, 0)

	for node := range doc.Descendants() {
		if node.Type != html.ElementNode || node.Data != "a" {
			continue
		}
		for _, attr := range node.Attr {
			if attr.Key != "href" {
				continue
			}
			href := strings.TrimSpace(attr.Val)
			if href == "" {
				break
			}

			resolved, err := baseURL.Parse(href)
			if err != nil {
				break
			}
			if resolved.Scheme != "http" && resolved.Scheme != "https" {
				break
			}
			resolved.Fragment = ""

			link := resolved.String()
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
			break
		}
	}

	return links, nil
}

// FilterSameHost keeps only the links on the same host as base.
func FilterSameHost(links []string, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	kept := make([]string, 0, len(links))
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		if parsed.Host == baseURL.Host {
			kept = append(kept, link)
		}
	}

	return kept
}
