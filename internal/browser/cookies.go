package browser

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Cookie is one entry of a browser extension cookie export.
// Some careers portals only render listings for a consented or logged-in session.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// LoadCookies reads an export and keeps the cookies the listing site at
// siteURL would receive. Host-only entries (no domain) are bound to siteURL.
// An empty siteURL keeps everything that carries a domain.
func LoadCookies(path, siteURL string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	host := ""
	if siteURL != "" {
		u, err := url.Parse(siteURL)
		if err != nil {
			return nil, fmt.Errorf("parse site url: %w", err)
		}
		host = strings.ToLower(u.Hostname())
	}

	var pwCookies []playwright.OptionalCookie
	for _, c := range cookies {
		switch {
		case c.Domain == "" && host == "":
			continue
		case c.Domain == "":
			pwCookies = append(pwCookies, c.ToPlaywright(siteURL))
		case host == "" || c.MatchesHost(host):
			pwCookies = append(pwCookies, c.ToPlaywright(""))
		}
	}
	return pwCookies, nil
}

// MatchesHost applies browser domain matching: exact host or a parent domain.
func (c Cookie) MatchesHost(host string) bool {
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// ToPlaywright converts the entry. A non-empty siteURL replaces domain and
// path, which playwright requires for host-only cookies.
func (c Cookie) ToPlaywright(siteURL string) playwright.OptionalCookie {
	pwCookie := playwright.OptionalCookie{
		Name:  c.Name,
		Value: c.Value,
	}
	if siteURL != "" {
		pwCookie.URL = playwright.String(siteURL)
	} else {
		pwCookie.Domain = playwright.String(c.Domain)
		pwCookie.Path = playwright.String("/")
		if c.Path != "" {
			pwCookie.Path = playwright.String(c.Path)
		}
	}

	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}

	switch strings.ToLower(c.SameSite) {
	case "lax":
		pwCookie.SameSite = playwright.SameSiteAttributeLax
	case "strict":
		pwCookie.SameSite = playwright.SameSiteAttributeStrict
	case "none", "no_restriction":
		pwCookie.SameSite = playwright.SameSiteAttributeNone
	}

	return pwCookie
}
