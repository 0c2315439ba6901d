// Package notion queries the upstream record store holding the durable copy
// of every survey response. It is the fallback behind the result cache and
// the source for cross-respondent averages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brandpulse/internal/cache"
	"brandpulse/internal/common/config"
	apperrors "brandpulse/internal/common/errors"
	"brandpulse/internal/common/httpclient"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"
	"brandpulse/internal/scores"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"

	// Database column holding the identifier results are filtered by.
	respondentIDProperty = "Respondent ID"
)

type Client struct {
	apiKey     string
	databaseID string
	baseURL    string
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(cfg config.NotionConfig, log logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		databaseID: FormatDatabaseID(cfg.DatabaseID),
		baseURL:    baseURL,
		httpClient: httpclient.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		logger:     log.WithFields(map[string]interface{}{"component": "notion"}),
	}
}

// FormatDatabaseID inserts dashes into a bare 32-character database id so
// both forms of the configured id work.
func FormatDatabaseID(id string) string {
	if strings.Contains(id, "-") || len(id) != 32 {
		return id
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s", id[0:8], id[8:12], id[12:16], id[16:20], id[20:])
}

// Record is one respondent's stored response.
type Record struct {
	SubmissionID string
	Nombre       string
	Fecha        string
	Scores       scores.ScoreVector
}

// Result converts the record to the cache result shape served by the API.
func (r *Record) Result() *cache.Result {
	return &cache.Result{
		SubmissionID: r.SubmissionID,
		Nombre:       r.Nombre,
		Scores:       r.Scores,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// --- wire types ---

type queryResponse struct {
	Results []page `json:"results"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

type property struct {
	Number   *float64 `json:"number"`
	RichText []struct {
		Text struct {
			Content string `json:"content"`
		} `json:"text"`
	} `json:"rich_text"`
	Date *struct {
		Start string `json:"start"`
	} `json:"date"`
}

func (p property) number() int {
	if p.Number == nil {
		return 0
	}
	return int(*p.Number + 0.5)
}

func (p property) text() string {
	if len(p.RichText) == 0 {
		return ""
	}
	return p.RichText[0].Text.Content
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryBySubmissionID fetches the stored response whose respondent id column
// equals id. Returns a RESULT_NOT_FOUND error when no record matches and
// UPSTREAM_UNAVAILABLE when the store itself fails.
func (c *Client) QueryBySubmissionID(ctx context.Context, id string) (*Record, error) {
	filter := map[string]interface{}{
		"filter": map[string]interface{}{
			"property": respondentIDProperty,
			"rich_text": map[string]interface{}{
				"equals": id,
			},
		},
	}

	resp, err := c.queryDatabase(ctx, "by_submission", filter)
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, apperrors.NewResultNotFoundError(id)
	}

	pg := resp.Results[0]
	record := &Record{
		SubmissionID: id,
		Nombre:       pg.Properties["Nombre"].text(),
		Scores: scores.ScoreVector{
			Calidad:        pg.Properties["Score Calidad"].number(),
			Relevancia:     pg.Properties["Score Relevancia"].number(),
			Identidad:      pg.Properties["Score Identidad"].number(),
			Consistencia:   pg.Properties["Score Consistencia"].number(),
			Adopcion:       pg.Properties["Score Adopción"].number(),
			Valores:        pg.Properties["Score Valores"].number(),
			Conveniencia:   pg.Properties["Score Conveniencia"].number(),
			EficienciaExp:  pg.Properties["Score Eficiencia Exp"].number(),
			Familiaridad:   pg.Properties["Score Familiaridad"].number(),
			Reconocimiento: pg.Properties["Score Reconocimiento"].number(),
		},
	}
	if d := pg.Properties["Fecha"].Date; d != nil {
		record.Fecha = d.Start
	}
	return record, nil
}

// FetchResult is QueryBySubmissionID in the shape the fallback resolver
// consumes.
func (c *Client) FetchResult(ctx context.Context, id string) (*cache.Result, error) {
	record, err := c.QueryBySubmissionID(ctx, id)
	if err != nil {
		return nil, err
	}
	return record.Result(), nil
}

// QueryAllScores fetches the score vectors of every stored response. The
// result set is small and low-frequency, so no pagination cursor is kept.
func (c *Client) QueryAllScores(ctx context.Context) ([]scores.ScoreVector, error) {
	resp, err := c.queryDatabase(ctx, "all_scores", map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	vectors := make([]scores.ScoreVector, 0, len(resp.Results))
	for _, pg := range resp.Results {
		vectors = append(vectors, scores.ScoreVector{
			Calidad:        pg.Properties[scores.PillarCalidad].number(),
			Relevancia:     pg.Properties[scores.PillarRelevancia].number(),
			Identidad:      pg.Properties[scores.PillarIdentidad].number(),
			Consistencia:   pg.Properties[scores.PillarConsistencia].number(),
			Adopcion:       pg.Properties[scores.PillarAdopcion].number(),
			Valores:        pg.Properties[scores.PillarValores].number(),
			Conveniencia:   pg.Properties[scores.PillarConveniencia].number(),
			EficienciaExp:  pg.Properties[scores.PillarEficienciaExp].number(),
			Familiaridad:   pg.Properties[scores.PillarFamiliaridad].number(),
			Reconocimiento: pg.Properties[scores.PillarReconocimiento].number(),
		})
	}
	return vectors, nil
}

func (c *Client) queryDatabase(ctx context.Context, queryName string, body interface{}) (*queryResponse, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamQueryDuration.WithLabelValues(queryName).Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(fmt.Errorf("marshal query: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(fmt.Errorf("execute query: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.Unmarshal(respBody, &errResp)
		// Log status and message only; the request carries credentials.
		c.logger.Error("record store query failed", map[string]interface{}{
			"query":   queryName,
			"status":  resp.StatusCode,
			"code":    errResp.Code,
			"message": errResp.Message,
		})
		return nil, apperrors.NewUpstreamUnavailableError(
			fmt.Errorf("record store returned status %d: %s", resp.StatusCode, errResp.Message))
	}

	var queryResp queryResponse
	if err := json.Unmarshal(respBody, &queryResp); err != nil {
		return nil, apperrors.NewUpstreamUnavailableError(fmt.Errorf("unmarshal response: %w", err))
	}
	return &queryResp, nil
}
