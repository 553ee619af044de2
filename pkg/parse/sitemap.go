package parse

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/Sriram-PR/bizdna/pkg/utils"
)

// --- XML Structs for Sitemap Parsing ---

// XMLURL represents a <url> element in a sitemap
type XMLURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// XMLURLSet represents a <urlset> element in a sitemap
type XMLURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []XMLURL `xml:"url"`
}

// XMLSitemap represents a <sitemap> element in a sitemap index file
type XMLSitemap struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// XMLSitemapIndex represents a <sitemapindex> element
type XMLSitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Sitemaps []XMLSitemap `xml:"sitemap"`
}

// ParseSitemap decodes either a <urlset> or a <sitemapindex> document.
// pages holds page locations, children holds nested sitemap locations.
func ParseSitemap(data []byte) (pages []string, children []string, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("%w: empty sitemap XML", utils.ErrParsing)
	}

	if bytes.Contains(trimmed, []byte("<sitemapindex")) {
		var index XMLSitemapIndex
		if err := xml.Unmarshal(trimmed, &index); err != nil {
			return nil, nil, fmt.Errorf("%w: sitemap index XML: %w", utils.ErrParsing, err)
		}
		for _, sm := range index.Sitemaps {
			if loc := strings.TrimSpace(sm.Loc); loc != "" {
				children = append(children, loc)
			}
		}
		return nil, children, nil
	}

	var set XMLURLSet
	if err := xml.Unmarshal(trimmed, &set); err != nil {
		return nil, nil, fmt.Errorf("%w: sitemap urlset XML: %w", utils.ErrParsing, err)
	}
	for _, u := range set.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			pages = append(pages, loc)
		}
	}
	return pages, nil, nil
}
