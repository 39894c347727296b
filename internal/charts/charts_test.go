package charts

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lox/weatherboard/internal/loader"
	"github.com/lox/weatherboard/internal/models"
	"github.com/lox/weatherboard/internal/season"
)

const sample = `date,temperature,precipitation,humidity,weather_type
2023-01-15,-3.2,0.0,45,Clear
2023-02-28,1.5,4.2,80,Snow
2023-03-01,8.0,1.0,70,Cloudy
2023-07-20,29.4,12.5,60,Rain
2023-10-05,15.2,0.0,55,Clear
2023-12-25,-1.0,3.0,85,Snow
`

func mustRead(t *testing.T, csv string) *loader.Dataset {
	t.Helper()
	ds, err := loader.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return ds
}

func decodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

// inked reports whether any pixel in r is noticeably darker than white.
func inked(img image.Image, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			if cr < 0xe000 || cg < 0xe000 || cb < 0xe000 {
				return true
			}
		}
	}
	return false
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestBins(t *testing.T) {
	bins := Bins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)
	if len(bins) != 10 {
		t.Fatalf("len = %d, want 10", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 11 {
		t.Errorf("total = %d, want 11", total)
	}
	// The maximum lands in the last bin, which is closed on the right.
	if bins[9].Count != 2 {
		t.Errorf("last bin count = %d, want 2", bins[9].Count)
	}
	if bins[0].Lo != 0 || bins[9].Hi != 10 {
		t.Errorf("range = [%v, %v], want [0, 10]", bins[0].Lo, bins[9].Hi)
	}
}

func TestBins_EdgesBelongToUpperBin(t *testing.T) {
	bins := Bins([]float64{4, 0, 2, 2, 1}, 4)
	want := []int{1, 1, 2, 1}
	for i, b := range bins {
		if b.Count != want[i] {
			t.Errorf("bin %d [%v, %v) count = %d, want %d", i, b.Lo, b.Hi, b.Count, want[i])
		}
	}
}

func TestBins_SkipsNonFinite(t *testing.T) {
	bins := Bins([]float64{1, math.NaN(), 2, math.Inf(1)}, DefaultBins)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestBins_Constant(t *testing.T) {
	bins := Bins([]float64{3, 3, 3}, 4)
	if bins[0].Lo != 2.5 || bins[3].Hi != 3.5 {
		t.Errorf("range = [%v, %v], want [2.5, 3.5]", bins[0].Lo, bins[3].Hi)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestBins_Empty(t *testing.T) {
	if bins := Bins(nil, DefaultBins); bins != nil {
		t.Errorf("Bins(nil) = %v, want nil", bins)
	}
	if bins := Bins([]float64{math.NaN()}, DefaultBins); bins != nil {
		t.Errorf("Bins(NaN) = %v, want nil", bins)
	}
}

func TestDashboard_RendersEveryChart(t *testing.T) {
	ds := mustRead(t, sample)
	table := season.Aggregate(ds.Observations)

	named := Dashboard(ds, table)
	if len(named) != 8 {
		t.Fatalf("len = %d, want 8", len(named))
	}
	for _, n := range named {
		t.Run(n.Name, func(t *testing.T) {
			data, err := n.Render()
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			w, h := decodeSize(t, data)
			if w == 0 || h == 0 {
				t.Errorf("empty image %dx%d", w, h)
			}
		})
	}
}

func TestSeasonPie_EmptySeasonIsPlaceholder(t *testing.T) {
	ds := mustRead(t, "date,temperature,precipitation,humidity,weather_type\n2023-07-01,20,0,50,Clear\n")
	table := season.Aggregate(ds.Observations)

	got, err := SeasonPie(models.Winter, table)
	if err != nil {
		t.Fatalf("SeasonPie: %v", err)
	}
	want, err := Placeholder(string(models.Winter), msgNoObservations)
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("empty season should render the placeholder")
	}

	summer, err := SeasonPie(models.Summer, table)
	if err != nil {
		t.Fatalf("SeasonPie(Summer): %v", err)
	}
	if w, h := decodeSize(t, summer); w != Height || h != Height {
		t.Errorf("pie size = %dx%d, want %dx%d", w, h, Height, Height)
	}
}

func TestEmptyDataset_RendersPlaceholders(t *testing.T) {
	ds := mustRead(t, "date,temperature,precipitation,humidity,weather_type\n")
	table := season.Aggregate(ds.Observations)

	for _, n := range Dashboard(ds, table) {
		data, err := n.Render()
		if err != nil {
			t.Errorf("%s: %v", n.Name, err)
			continue
		}
		if w, h := decodeSize(t, data); w != Width || h != Height {
			t.Errorf("%s: size = %dx%d, want placeholder %dx%d", n.Name, w, h, Width, Height)
		}
	}
}

func TestLine_SingleDateIsPlaceholder(t *testing.T) {
	d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := Line("t", "y", []time.Time{d, d}, []float64{1, 2})
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	want, _ := Placeholder("t", msgTooFewPoints)
	if !bytes.Equal(got, want) {
		t.Error("single date should render the placeholder")
	}
}

func TestLine_FlatSeries(t *testing.T) {
	dates := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	data, err := Line("flat", "y", dates, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	decodeSize(t, data)
}

func TestPicker(t *testing.T) {
	ds := mustRead(t, sample)

	for _, m := range models.Metrics {
		for _, k := range models.ChartKinds {
			if _, err := Picker(ds, m, k); err != nil {
				t.Errorf("Picker(%s, %s): %v", m, k, err)
			}
		}
	}

	if _, err := Picker(ds, "pressure", models.ChartLine); err == nil {
		t.Error("expected error for unknown metric")
	}
	if _, err := Picker(ds, models.MetricHumidity, "area"); err == nil {
		t.Error("expected error for unknown chart kind")
	}
}

func TestScatterPlot_ConstantColour(t *testing.T) {
	data, err := ScatterPlot("s", "rain", []float64{1, 2, 3}, []float64{10, 20, 30}, []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("ScatterPlot: %v", err)
	}
	if w, h := decodeSize(t, data); w != Width || h != Height {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestScatterPlot_ColourBar(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{10, 20, 30, 40}
	bar := image.Rect(Width-colourBarWidth+40, Height/2-20, Width-colourBarWidth+54, Height/2+20)

	data, err := ScatterPlot("s", "Precipitation (mm)", x, y, []float64{0, 1, 5, 12.5})
	if err != nil {
		t.Fatalf("ScatterPlot: %v", err)
	}
	if !inked(decodeImage(t, data), bar) {
		t.Error("colour bar not drawn")
	}

	nan := math.NaN()
	data, err = ScatterPlot("s", "Precipitation (mm)", x, y, []float64{nan, nan, nan, nan})
	if err != nil {
		t.Fatalf("ScatterPlot: %v", err)
	}
	if inked(decodeImage(t, data), bar) {
		t.Error("colour bar drawn without any colour values")
	}
}

func TestHistogram_AxisCaption(t *testing.T) {
	values := []float64{0, 1, 1, 2, 3, 5, 8}
	strip := image.Rect(Width/2-60, Height-24, Width/2+60, Height-4)

	data, err := Histogram("h", "Precipitation (mm)", values, DefaultBins)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if !inked(decodeImage(t, data), strip) {
		t.Error("x axis caption not drawn")
	}

	data, err = Histogram("h", "", values, DefaultBins)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if inked(decodeImage(t, data), strip) {
		t.Error("caption strip not blank without a label")
	}
}

func TestPreview(t *testing.T) {
	data, err := Preview(PreviewData{
		Observations:    6,
		First:           time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		Last:            time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
		MeanTemperature: 8.3,
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if w, h := decodeSize(t, data); w != PreviewWidth || h != PreviewHeight {
		t.Errorf("size = %dx%d, want %dx%d", w, h, PreviewWidth, PreviewHeight)
	}

	if _, err := Preview(PreviewData{MeanTemperature: math.NaN()}); err != nil {
		t.Errorf("Preview(empty): %v", err)
	}
}

func TestCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	key := Key("temperature", 0xabc)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(key, []byte("png"))
	if data, ok := c.Get(key); !ok || string(data) != "png" {
		t.Fatalf("Get = %q, %v", data, ok)
	}

	if _, ok := c.Get(Key("temperature", 0xdef)); ok {
		t.Error("different fingerprint should miss")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Error("expected expired entry to miss")
	}

	c.Set(Key("scatter", 1), []byte("x"))
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after expired entries are dropped", c.Len())
	}
}

func TestCache_Disabled(t *testing.T) {
	c := NewCache(0)
	c.Set("k", []byte("v"))
	if _, ok := c.Get("k"); ok {
		t.Error("zero TTL should not cache")
	}
}
