package api

import (
	"context"
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/models"
)

// ListModels retrieves the models available on the server, in server order
// with duplicates removed.
func (c *Client) ListModels(ctx context.Context) ([]models.Model, error) {
	start := time.Now()
	body, err := c.do(ctx, "list models", http.MethodGet, models.EndpointModels, nil, models.DefaultHeaders())
	if err != nil {
		c.log.Warn("list models failed", "err", err, "elapsed", time.Since(start).String())
		return nil, err
	}

	list, err := parseModels(body)
	if err != nil {
		c.log.Warn("list models parse failed", "err", err)
		return nil, err
	}

	c.log.Debug("list models", "count", len(list), "elapsed", time.Since(start).String())
	return list, nil
}

// parseModels extracts { models: [{ name }] } from body
func parseModels(body []byte) ([]models.Model, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	result := gjson.GetBytes(body, PathModels)
	if !result.IsArray() {
		return nil, apierrors.NewParseError("missing models array", PathModels)
	}

	var list []models.Model
	for i, item := range result.Array() {
		name := item.Get(PathModelName)
		if name.Type != gjson.String {
			return nil, apierrors.NewParseError("model entry has no name", fmt.Sprintf("%s.%d.%s", PathModels, i, PathModelName))
		}
		list = append(list, models.Model{Name: name.String()})
	}

	return models.UniqueModels(list), nil
}
