package mapclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"mapedit/core"
	"mapedit/geometry"
	"mapedit/metrics"
	"mapedit/obstacles"
)

// LoadState fetches the rendered viewer page and re-derives the map state from it.
// This is the editor's only way to learn what the backend holds.
func (c *Client) LoadState(ctx context.Context) (core.MapState, error) {
	endpoint := c.base.JoinPath("viewer", url.PathEscape(c.mapID)).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.MapState{}, fmt.Errorf("load map: build request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncReload(metrics.OutcomeError)
		return core.MapState{}, fmt.Errorf("load map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.IncReload(metrics.OutcomeError)
		return core.MapState{}, &StatusError{Op: "load map", StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	state, err := ParsePage(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.metrics.IncReload(metrics.OutcomeError)
		return core.MapState{}, fmt.Errorf("load map: %w", err)
	}
	state.MapID = c.mapID

	c.metrics.IncReload(metrics.OutcomeSuccess)
	c.log.Debug().
		Int("pois", len(state.POIs)).
		Int("obstacles", len(state.Obstacles)).
		Bool("has_start", state.HasStart()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("map state loaded")

	return state, nil
}

// ParsePage scans a rendered viewer page for its POI list.
//
// Every element with a data-poi-type attribute is a POI. Its name comes from
// data-poi-name, or the element text. data-x/data-y carry the position when
// the page provides it. data-x-range / data-y-range ("min,max") on any element
// advertise the chart axis ranges. data-obstacle ("x,y x,y ...") is a committed
// obstacle polyline.
func ParsePage(r io.Reader) (core.MapState, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return core.MapState{}, fmt.Errorf("parse page: %w", err)
	}

	var state core.MapState
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if poi, ok := poiFromNode(n); ok {
				state.POIs = append(state.POIs, poi)
			}
			if path, ok := obstacleFromNode(n); ok {
				state.Obstacles = append(state.Obstacles, path)
			}
			if state.XRange == nil {
				state.XRange = rangeAttr(n, "data-x-range")
			}
			if state.YRange == nil {
				state.YRange = rangeAttr(n, "data-y-range")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return state, nil
}

func poiFromNode(n *html.Node) (core.POI, bool) {
	raw, ok := attr(n, "data-poi-type")
	if !ok {
		return core.POI{}, false
	}
	kind, ok := core.ParsePointKind(raw)
	if !ok {
		return core.POI{}, false
	}

	name, ok := attr(n, "data-poi-name")
	if !ok {
		name = textContent(n)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return core.POI{}, false
	}

	poi := core.POI{Name: name, Kind: kind}
	xs, xok := attr(n, "data-x")
	ys, yok := attr(n, "data-y")
	if xok && yok {
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if errX == nil && errY == nil {
			poi.X, poi.Y, poi.HasPosition = x, y, true
		}
	}
	return poi, true
}

func obstacleFromNode(n *html.Node) ([]geometry.DataPoint, bool) {
	v, ok := attr(n, "data-obstacle")
	if !ok {
		return nil, false
	}
	path, err := geometry.ParsePath(v)
	if err != nil || len(path) < obstacles.MinPoints {
		return nil, false
	}
	return path, true
}

func rangeAttr(n *html.Node, key string) *geometry.Range {
	v, ok := attr(n, key)
	if !ok {
		return nil
	}
	r, err := geometry.ParseRange(v)
	if err != nil || !r.Valid() {
		return nil
	}
	return &r
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
