// Package client talks to the App Store Connect API: financial reports,
// the app/in-app-purchase catalog, and a currency rate service.
package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintools/proceeds/pkg/models/domain"
	"github.com/fintools/proceeds/pkg/services/taxonomy"
)

const defaultBaseURL = "https://api.appstoreconnect.apple.com"

// ErrReportNotFound means the vendor has no report for the requested
// period yet. It is a domain condition, not a transport failure.
var ErrReportNotFound = errors.New("no report available for period")

type AppStoreClient struct {
	httpClient *http.Client
	tokens     TokenProvider
	vendor     string
	baseURL    string
}

// Option tweaks construction; used by tests to point at a stub server.
type Option func(*AppStoreClient)

func WithBaseURL(u string) Option {
	return func(c *AppStoreClient) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *AppStoreClient) { c.httpClient = h }
}

func NewAppStoreClient(tokens TokenProvider, vendor string, opts ...Option) *AppStoreClient {
	c := &AppStoreClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
		vendor:     vendor,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AppStoreClient) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	token, err := c.tokens.Token(time.Now())
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	return resp, nil
}

// FetchReport downloads the raw financial report for one fiscal period.
// The API serves the tab-separated body gzip-compressed; the returned
// string is the decompressed text. A 404 means the period has no report
// yet and surfaces as ErrReportNotFound.
func (c *AppStoreClient) FetchReport(ctx context.Context, periodID string) (string, error) {
	query := url.Values{}
	query.Set("filter[reportType]", "FINANCIAL")
	query.Set("filter[regionCode]", "ZZ")
	query.Set("filter[reportDate]", periodID)
	query.Set("filter[vendorNumber]", c.vendor)

	resp, err := c.get(ctx, "/v1/financeReports", query)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("period %s: %w", periodID, ErrReportNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("finance report request failed with status %d", resp.StatusCode)
	}

	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" || resp.Header.Get("Content-Type") == "application/a-gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("open gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read report body: %w", err)
	}
	return string(body), nil
}

// JSON:API shapes, reduced to the attributes the mapping needs.
type resourceItem struct {
	ID         string `json:"id"`
	Attributes struct {
		Name      string `json:"name"`
		SKU       string `json:"sku"`
		ProductID string `json:"productId"`
	} `json:"attributes"`
}

type resourcePage struct {
	Data  []resourceItem `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

func (c *AppStoreClient) getPage(ctx context.Context, path string, query url.Values) (*resourcePage, error) {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed with status %d", path, resp.StatusCode)
	}

	var page resourcePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &page, nil
}

// collect paginates a JSON:API collection, following links.next until
// exhausted.
func (c *AppStoreClient) collect(ctx context.Context, path string, query url.Values) (*resourcePage, error) {
	var all resourcePage

	page, err := c.getPage(ctx, path, query)
	for {
		if err != nil {
			return nil, err
		}
		all.Data = append(all.Data, page.Data...)

		if page.Links.Next == "" {
			return &all, nil
		}
		next, parseErr := url.Parse(page.Links.Next)
		if parseErr != nil {
			return nil, fmt.Errorf("bad next link: %w", parseErr)
		}
		page, err = c.getPage(ctx, next.Path, next.Query())
	}
}

// FetchMapping builds the product-to-parent-app mapping from the app
// catalog. Each app maps its own SKU and numeric id to itself; each of
// its in-app purchases and auto-renewable subscriptions maps that
// product id to the app with the add-on flag set. A failed per-app
// sub-fetch drops that app's purchases with a warning and the build
// continues.
func (c *AppStoreClient) FetchMapping(ctx context.Context) (taxonomy.Mapping, error) {
	logger := zerolog.Ctx(ctx)

	query := url.Values{}
	query.Set("limit", "200")
	apps, err := c.collect(ctx, "/v1/apps", query)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}

	mapping := make(taxonomy.Mapping)
	for _, app := range apps.Data {
		parent := domain.AppMapping{ParentID: app.ID, ParentTitle: app.Attributes.Name}
		mapping[app.ID] = parent
		if app.Attributes.SKU != "" {
			mapping[app.Attributes.SKU] = parent
		}

		addOn := domain.AppMapping{
			ParentID:    app.ID,
			ParentTitle: app.Attributes.Name,
			AddOn:       true,
		}

		iaps, err := c.collect(ctx, "/v1/apps/"+app.ID+"/inAppPurchasesV2", url.Values{"limit": []string{"200"}})
		if err != nil {
			logger.Warn().
				Err(err).
				Str("app", app.ID).
				Msg("skipping in-app purchases for app")
		} else {
			for _, iap := range iaps.Data {
				mapping[iap.ID] = addOn
				if iap.Attributes.ProductID != "" {
					mapping[iap.Attributes.ProductID] = addOn
				}
			}
		}

		subs, err := c.collectSubscriptions(ctx, app.ID)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("app", app.ID).
				Msg("skipping subscriptions for app")
			continue
		}
		for _, sub := range subs {
			mapping[sub.ID] = addOn
			if sub.Attributes.ProductID != "" {
				mapping[sub.Attributes.ProductID] = addOn
			}
		}
	}
	return mapping, nil
}

// collectSubscriptions walks an app's subscription groups and flattens
// the subscriptions they contain.
func (c *AppStoreClient) collectSubscriptions(ctx context.Context, appID string) ([]resourceItem, error) {
	groups, err := c.collect(ctx, "/v1/apps/"+appID+"/subscriptionGroups", url.Values{"limit": []string{"200"}})
	if err != nil {
		return nil, fmt.Errorf("list subscription groups: %w", err)
	}

	var subs []resourceItem
	for _, group := range groups.Data {
		page, err := c.collect(ctx, "/v1/subscriptionGroups/"+group.ID+"/subscriptions", url.Values{"limit": []string{"200"}})
		if err != nil {
			return nil, fmt.Errorf("list subscriptions for group %s: %w", group.ID, err)
		}
		subs = append(subs, page.Data...)
	}
	return subs, nil
}
