package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/food-swipe/internal/domain"
)

// GET /start/{sid}
func (c *Client) BeginSession(ctx context.Context, token string) error {
	_, err := c.do(ctx, "begin_session", http.MethodGet, sessionPath("start", token), nil)
	return err
}

// GET /next/{sid}
//
// The backend answers with a single item, a list of items, an empty object,
// or 404 once it has nothing left. Items that fail validation are dropped;
// a batch with nothing valid in it is treated as exhaustion.
func (c *Client) FetchNextBatch(ctx context.Context, token string) (domain.Batch, error) {
	body, err := c.do(ctx, "fetch_next", http.MethodGet, sessionPath("next", token), nil)
	if IsStatusError(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := decodeItems(body)
	if err != nil {
		c.log.Warn().Err(err).Msg("[client] malformed batch treated as empty")
		return nil, nil
	}

	batch := make(domain.Batch, 0, len(items))
	for _, item := range items {
		if err := c.validate.Struct(item); err != nil {
			c.log.Warn().Err(err).Int64("item_id", item.ID).Msg("[client] dropping invalid item")
			continue
		}
		batch = append(batch, item)
	}
	return batch, nil
}

// POST /swipe/{sid}/{item_id}/{action}?item_type=
func (c *Client) RecordAction(ctx context.Context, token string, action domain.SwipeAction) error {
	path := fmt.Sprintf("%s/%s/%s",
		sessionPath("swipe", token), strconv.FormatInt(action.ItemID, 10), url.PathEscape(string(action.Kind)))
	query := url.Values{"item_type": {string(action.ItemKind)}}

	_, err := c.do(ctx, "record_action", http.MethodPost, path, query)
	return err
}

// POST /super/{sid}
func (c *Client) RecordSuperAndSummarize(ctx context.Context, token string) (*domain.Stats, error) {
	body, err := c.do(ctx, "summarize", http.MethodPost, sessionPath("super", token), nil)
	if IsStatusError(err, http.StatusNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("decode session stats: %w", err)
	}
	return &stats, nil
}

// POST /end_session/{sid}
func (c *Client) EndSession(ctx context.Context, token string) error {
	_, err := c.do(ctx, "end_session", http.MethodPost, sessionPath("end_session", token), nil)
	if IsStatusError(err, http.StatusNotFound) {
		return nil
	}
	return err
}

func decodeItems(body []byte) ([]domain.RecommendationItem, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	if body[0] == '[' {
		var items []domain.RecommendationItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode item list: %w", err)
		}
		return items, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	var item domain.RecommendationItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return []domain.RecommendationItem{item}, nil
}
