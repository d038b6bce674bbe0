package geometry

import (
	"testing"
)

func exampleGeometry() *ChartGeometry {
	return &ChartGeometry{
		BoundingBox: Rect{X: 0, Y: 0, Width: 500, Height: 300},
		Margins:     Margins{Left: 50, Right: 20, Top: 20, Bottom: 40},
		XRange:      Range{Min: 0, Max: 100},
		YRange:      Range{Min: 0, Max: 50},
	}
}

func TestMapClickToData_Example(t *testing.T) {
	got, ok := MapClickToData(PointerClick{ScreenX: 275, ScreenY: 170}, exampleGeometry())
	if !ok {
		t.Fatalf("Expected click to map")
	}

	wantX := 100 * 225.0 / 430.0
	if !AlmostEqual(got.X, wantX, 1e-9) {
		t.Errorf("Expected x=%.4f, got %.4f", wantX, got.X)
	}
	if !AlmostEqual(got.X, 52.3, 0.05) {
		t.Errorf("Expected x close to 52.3, got %.4f", got.X)
	}
	if !AlmostEqual(got.Y, 18.75, 1e-9) {
		t.Errorf("Expected y=18.75, got %.4f", got.Y)
	}
}

func TestMapClickToData_OffsetBoundingBox(t *testing.T) {
	g := exampleGeometry()
	g.BoundingBox.X = 100
	g.BoundingBox.Y = 40

	got, ok := MapClickToData(PointerClick{ScreenX: 375, ScreenY: 210}, g)
	if !ok {
		t.Fatalf("Expected click to map")
	}
	if !AlmostEqual(got.Y, 18.75, 1e-9) {
		t.Errorf("Expected y=18.75 after subtracting chart origin, got %.4f", got.Y)
	}
}

func TestMapClickToData_PlotCorners(t *testing.T) {
	g := exampleGeometry()
	plot := g.PlotArea()

	tests := []struct {
		name   string
		sx, sy float64
		wantX  float64
		wantY  float64
	}{
		{"top-left", plot.X, plot.Y, 0, 50},
		{"top-right", plot.X + plot.Width, plot.Y, 100, 50},
		{"bottom-left", plot.X, plot.Y + plot.Height, 0, 0},
		{"bottom-right", plot.X + plot.Width, plot.Y + plot.Height, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapClickToData(PointerClick{ScreenX: tt.sx, ScreenY: tt.sy}, g)
			if !ok {
				t.Fatalf("Expected click to map")
			}
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.wantX, tt.wantY, got.X, got.Y)
			}
		})
	}
}

func TestMapClickToData_NoGeometry(t *testing.T) {
	if _, ok := MapClickToData(PointerClick{ScreenX: 10, ScreenY: 10}, nil); ok {
		t.Errorf("Expected click without geometry to be ignored")
	}
}

func TestMapClickToData_DegeneratePlotArea(t *testing.T) {
	g := exampleGeometry()
	g.Margins.Left = 300
	g.Margins.Right = 200
	if _, ok := MapClickToData(PointerClick{ScreenX: 10, ScreenY: 10}, g); ok {
		t.Errorf("Expected zero-width plot area to be ignored")
	}
}

func TestProjection_MatchesMapper(t *testing.T) {
	g := exampleGeometry()
	p, err := NewProjection(*g)
	if err != nil {
		t.Fatalf("NewProjection: %v", err)
	}

	clicks := []PointerClick{
		{ScreenX: 275, ScreenY: 170},
		{ScreenX: 50, ScreenY: 20},
		{ScreenX: 480, ScreenY: 260},
		{ScreenX: 123.5, ScreenY: 77.25},
	}
	for _, c := range clicks {
		want, _ := MapClickToData(c, g)
		got := p.ToData(c)
		if !AlmostEqual(got.X, want.X, 1e-9) || !AlmostEqual(got.Y, want.Y, 1e-9) {
			t.Errorf("Click %+v: projection %v, mapper %v", c, got, want)
		}
	}
}

func TestProjection_RoundTrip(t *testing.T) {
	p, err := NewProjection(*exampleGeometry())
	if err != nil {
		t.Fatalf("NewProjection: %v", err)
	}

	for _, d := range []DataPoint{{0, 0}, {100, 50}, {52.3, 18.75}, {-10, 70}} {
		sx, sy := p.ToScreen(d)
		back := p.ToData(PointerClick{ScreenX: sx, ScreenY: sy})
		if !AlmostEqual(back.X, d.X, 1e-9) || !AlmostEqual(back.Y, d.Y, 1e-9) {
			t.Errorf("Round trip of %v gave %v", d, back)
		}
	}

	sx, sy := p.ToScreen(DataPoint{X: 0, Y: 50})
	if !AlmostEqual(sx, 50, 1e-9) || !AlmostEqual(sy, 20, 1e-9) {
		t.Errorf("Expected data top-left at screen (50,20), got (%v,%v)", sx, sy)
	}
}

func TestProjection_Degenerate(t *testing.T) {
	g := exampleGeometry()
	g.XRange = Range{Min: 5, Max: 5}
	if _, err := NewProjection(*g); err != ErrDegenerateGeometry {
		t.Errorf("Expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" -2.5, 10 ")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Min != -2.5 || r.Max != 10 {
		t.Errorf("Expected [-2.5, 10], got %+v", r)
	}

	for _, bad := range []string{"", "1", "a,b", "1,2,3"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestParsePath(t *testing.T) {
	path, err := ParsePath(" 10,10  20.5,-3\n7,8 ")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	want := []DataPoint{{X: 10, Y: 10}, {X: 20.5, Y: -3}, {X: 7, Y: 8}}
	if len(path) != len(want) {
		t.Fatalf("Expected %d points, got %d", len(want), len(path))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Point %d: expected %v, got %v", i, want[i], path[i])
		}
	}

	if path, err := ParsePath(""); err != nil || len(path) != 0 {
		t.Errorf("Expected empty path, got %v, %v", path, err)
	}
	if _, err := ParsePath("1,2 3"); err == nil {
		t.Errorf("Expected error for a point without y")
	}
}
