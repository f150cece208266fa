package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/inbucket/mhclient/pkg/rest/model"
)

// FindOptions describes a MailHog search.  Zero Kind and Limit fields are replaced by defaults
// when the search runs.
type FindOptions struct {
	Kind  model.Kind
	Query string
	Limit int
	Start int
}

// Query returns FindOptions matching messages containing q, limited to the 10 oldest matches.
func Query(q string) FindOptions {
	return FindOptions{Kind: model.KindContaining, Query: q, Limit: 10}
}

// OTPQuery returns FindOptions matching messages sent to q.  MailHog cannot sort search
// results, so a batch of 20 is fetched and sorted by the client.
func OTPQuery(q string) FindOptions {
	return FindOptions{Kind: model.KindTo, Query: q, Limit: 20}
}

// withDefaults fills zero fields of o from base.
func (o FindOptions) withDefaults(base FindOptions) FindOptions {
	if o.Kind == "" {
		o.Kind = base.Kind
	}
	if o.Limit == 0 {
		o.Limit = base.Limit
	}
	return o
}

func (o FindOptions) values() url.Values {
	return url.Values{
		"kind":  {string(o.Kind)},
		"limit": {strconv.Itoa(o.Limit)},
		"query": {o.Query},
		"start": {strconv.Itoa(o.Start)},
	}
}

// FindEmails returns messages matching opts, in the order MailHog returned them.  An empty
// slice is returned when nothing matches.  Quoted-printable bodies are decoded.
func (c *Client) FindEmails(ctx context.Context, opts FindOptions) ([]*model.Message, error) {
	opts = opts.withDefaults(Query(""))
	c.logger.Debug().Str("kind", string(opts.Kind)).Str("query", opts.Query).
		Int("limit", opts.Limit).Int("start", opts.Start).Msg("Searching messages")

	result := &model.SearchResult{}
	if err := c.doJSON(ctx, "GET", "/v2/search", opts.values(), result); err != nil {
		return nil, err
	}
	items := result.Items
	if items == nil {
		items = []*model.Message{}
	}
	for _, m := range items {
		decodeBody(m)
	}
	return items, nil
}

// FindMostRecentEmail returns the most recent message matching opts, or nil if there are no
// matches.  Recency is judged by model.Message.SortTime, the first message returned by MailHog
// wins a tie.
func (c *Client) FindMostRecentEmail(ctx context.Context, opts FindOptions) (*model.Message, error) {
	items, err := c.FindEmails(ctx, opts)
	if err != nil {
		return nil, err
	}
	return model.MostRecent(items), nil
}

// InboxCount returns the number of messages containing query, or the total number of messages
// when query is empty.
func (c *Client) InboxCount(ctx context.Context, query string) (int, error) {
	uri := "/v2/messages"
	q := url.Values{"limit": {"0"}}
	if query != "" {
		uri = "/v2/search"
		q.Set("kind", string(model.KindContaining))
		q.Set("query", query)
	}

	result := &model.SearchResult{}
	if err := c.doJSON(ctx, "GET", uri, q, result); err != nil {
		return 0, err
	}
	return result.Total, nil
}
