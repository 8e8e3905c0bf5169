// Package countries 从远程国家目录获取国家区号列表，失败时退回内置列表。
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"chatshell-go/internal/config"
	"chatshell-go/internal/model"
	"chatshell-go/pkg/log"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Fallback 是目录不可用时使用的内置列表。
var Fallback = []model.Country{
	{Name: "United States", Code: "US", DialCode: "+1", Flag: "🇺🇸"},
	{Name: "United Kingdom", Code: "GB", DialCode: "+44", Flag: "🇬🇧"},
	{Name: "India", Code: "IN", DialCode: "+91", Flag: "🇮🇳"},
	{Name: "Canada", Code: "CA", DialCode: "+1", Flag: "🇨🇦"},
	{Name: "Australia", Code: "AU", DialCode: "+61", Flag: "🇦🇺"},
}

// directoryEntry 对应 restcountries v3.1 的 name,idd,flag,cca2 字段。
type directoryEntry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	IDD struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flag string `json:"flag"`
	CCA2 string `json:"cca2"`
}

// Client 请求国家目录。
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient 创建国家目录客户端。
func NewClient(cfg config.CountriesConfig) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Fetch 返回按名称排序的国家列表。任何失败都会被记录并返回内置列表，
// 第二个返回值报告结果是否来自远程目录。
func (c *Client) Fetch(ctx context.Context) ([]model.Country, bool) {
	list, err := c.fetch(ctx)
	if err != nil {
		log.Warnw("Failed to fetch countries, using fallback list", "url", c.url, "error", err)
		return FallbackList(), false
	}
	return list, true
}

// FallbackList 返回内置列表的副本。
func FallbackList() []model.Country {
	return append([]model.Country(nil), Fallback...)
}

func (c *Client) fetch(ctx context.Context) ([]model.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create countries request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call countries api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("countries api returned non-200 status: %s", resp.Status)
	}

	var entries []directoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	list := make([]model.Country, 0, len(entries))
	for _, e := range entries {
		// 没有区号根或没有 suffixes 字段的条目丢弃，空的 suffixes 数组只使用根
		if e.IDD.Root == "" || e.IDD.Suffixes == nil {
			continue
		}
		dial := e.IDD.Root
		if len(e.IDD.Suffixes) > 0 {
			dial += e.IDD.Suffixes[0]
		}
		list = append(list, model.Country{
			Name:     e.Name.Common,
			Code:     e.CCA2,
			DialCode: dial,
			Flag:     e.Flag,
		})
	}
	if len(list) == 0 {
		return nil, errors.New("countries api returned no usable entries")
	}

	// 按英文排序规则比较，"Åland Islands" 排在 "Albania" 附近而不是 "Zimbabwe" 之后
	coll := collate.New(language.English)
	sort.SliceStable(list, func(i, j int) bool { return coll.CompareString(list[i].Name, list[j].Name) < 0 })
	return list, nil
}
