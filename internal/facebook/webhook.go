package facebook

// WebhookPayload is the POST body Facebook delivers for Lead Ads
// subscriptions: one entry per page, one change per new lead.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Time    int64           `json:"time"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	LeadgenID   string `json:"leadgen_id"`
	FormID      string `json:"form_id"`
	PageID      string `json:"page_id"`
	CreatedTime int64  `json:"created_time"`
}

// LeadgenIDs collects the lead ids out of a validated payload, skipping
// changes that are not leadgen events.
func (p *WebhookPayload) LeadgenIDs() []string {
	ids := make([]string, 0)
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "leadgen" || change.Value.LeadgenID == "" {
				continue
			}
			ids = append(ids, change.Value.LeadgenID)
		}
	}
	return ids
}
