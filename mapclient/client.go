// Package mapclient talks to the path-planning backend: the four map mutation
// endpoints and the rendered viewer page the map state is re-derived from.
package mapclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mapedit/core"
	"mapedit/geometry"
	"mapedit/metrics"
	"mapedit/obstacles"
)

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// Options configures a Client. Zero values are usable.
type Options struct {
	HTTPClient *http.Client
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
}

// Client issues map edits for one map. Each operation is a single request/response round trip.
type Client struct {
	base    *url.URL
	mapID   string
	http    *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// StatusError is returned when the backend answers with a non-2xx status and no JSON result.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

type addPointRequest struct {
	X    float64        `json:"x"`
	Y    float64        `json:"y"`
	Type core.PointKind `json:"type"`
	Name string         `json:"name"`
}

type deletePointRequest struct {
	Name string `json:"name"`
}

type renamePointRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type addObstacleRequest struct {
	Points []geometry.DataPoint `json:"points"`
}

// New returns a client for mapID on the backend at baseURL.
func New(baseURL, mapID string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if strings.TrimSpace(mapID) == "" {
		return nil, errors.New("map id is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		base:    u,
		mapID:   mapID,
		http:    hc,
		log:     opts.Log.With().Str("map_id", mapID).Logger(),
		metrics: opts.Metrics,
	}, nil
}

// MapID returns the map this client edits.
func (c *Client) MapID() string {
	return c.mapID
}

// AddPoint places a named start or end point.
func (c *Client) AddPoint(ctx context.Context, p geometry.DataPoint, kind core.PointKind, name string) (core.Result, error) {
	return c.post(ctx, core.EditAddPoint.String(), addPointRequest{X: p.X, Y: p.Y, Type: kind, Name: name})
}

// DeletePoint removes a point by name.
func (c *Client) DeletePoint(ctx context.Context, name string) (core.Result, error) {
	return c.post(ctx, core.EditDeletePoint.String(), deletePointRequest{Name: name})
}

// RenamePoint renames a point.
func (c *Client) RenamePoint(ctx context.Context, oldName, newName string) (core.Result, error) {
	return c.post(ctx, core.EditRenamePoint.String(), renamePointRequest{OldName: oldName, NewName: newName})
}

// AddObstacle sends an obstacle outline in click order.
func (c *Client) AddObstacle(ctx context.Context, points []geometry.DataPoint) (core.Result, error) {
	if len(points) < obstacles.MinPoints {
		return core.Result{}, obstacles.ErrInsufficientPoints
	}
	return c.post(ctx, core.EditAddObstacle.String(), addObstacleRequest{Points: points})
}

// Apply sends e through the matching operation.
func (c *Client) Apply(ctx context.Context, e core.Edit) (core.Result, error) {
	switch e.Kind {
	case core.EditAddPoint:
		return c.AddPoint(ctx, e.Point, e.PointKind, e.Name)
	case core.EditDeletePoint:
		return c.DeletePoint(ctx, e.Name)
	case core.EditRenamePoint:
		return c.RenamePoint(ctx, e.OldName, e.NewName)
	case core.EditAddObstacle:
		return c.AddObstacle(ctx, e.Obstacle)
	default:
		return core.Result{}, fmt.Errorf("unsupported edit kind %d", e.Kind)
	}
}

func (c *Client) endpoint(op string) string {
	return c.base.JoinPath(op, url.PathEscape(c.mapID)).String()
}

func (c *Client) post(ctx context.Context, op string, body any) (core.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(op), bytes.NewReader(payload))
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveEditRequest(op, metrics.OutcomeError, time.Since(start))
		c.log.Error().Err(err).Str("op", op).Str("request_id", reqID).Msg("edit request failed")
		return core.Result{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	res, err := decodeResult(op, resp)
	elapsed := time.Since(start)

	ev := c.log.Info()
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		ev = c.log.Error().Err(err)
	case !res.Success:
		outcome = metrics.OutcomeRejected
		ev = c.log.Warn().Str("message", res.Message)
	}
	c.metrics.ObserveEditRequest(op, outcome, elapsed)
	ev.Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("edit request")

	return res, err
}

func decodeResult(op string, resp *http.Response) (core.Result, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return core.Result{}, fmt.Errorf("%s: read response: %w", op, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var res core.Result
	if err := json.Unmarshal(data, &res); err != nil {
		if !ok {
			return core.Result{}, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: snippet(data)}
		}
		return core.Result{}, fmt.Errorf("%s: decode response: %w", op, err)
	}

	// A JSON body on an error status is a rejection whatever it claims.
	if !ok {
		res.Success = false
		if res.Message == "" {
			res.Message = http.StatusText(resp.StatusCode)
		}
	}
	return res, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
