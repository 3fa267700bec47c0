// Package facebook talks to the Graph API for Lead Ads: fetching full lead
// details for the leadgen ids delivered by the webhook.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  http.DefaultClient,
	}
}

// LeadField mirrors the Graph API's field_data entries: the advertiser-defined
// question name plus the answers the prospect gave.
type LeadField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type LeadDetail struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	FieldData   []LeadField `json:"field_data"`
}

func (d *LeadDetail) Field(name string) string {
	for _, field := range d.FieldData {
		if field.Name == name && len(field.Values) > 0 {
			return field.Values[0]
		}
	}
	return ""
}

func (d *LeadDetail) FullName() string {
	if name := d.Field("full_name"); name != "" {
		return name
	}
	first := d.Field("first_name")
	last := d.Field("last_name")
	return strings.TrimSpace(first + " " + last)
}

func (d *LeadDetail) Email() string {
	return d.Field("email")
}

func (d *LeadDetail) Phone() string {
	return d.Field("phone_number")
}

func (c *Client) GetLeadDetail(ctx context.Context, leadgenID string) (*LeadDetail, error) {
	endpoint := fmt.Sprintf(
		"%s/%s?fields=id,created_time,field_data&access_token=%s",
		c.baseURL,
		url.PathEscape(leadgenID),
		url.QueryEscape(c.accessToken),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lead request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch lead %s: %w", leadgenID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("fetch lead %s: status %d: %s", leadgenID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var detail LeadDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decode lead %s: %w", leadgenID, err)
	}
	if detail.ID == "" {
		return nil, fmt.Errorf("lead %s: empty response", leadgenID)
	}

	return &detail, nil
}
