// detection-report summarises a persisted detection list and renders an
// HTML report: streak statistics plus a scatter of detections across
// the frame sequence.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/skywatch-data/debris.report/internal/detect"
	"github.com/skywatch-data/debris.report/internal/session"
)

var (
	inFile    = flag.String("detections", "detections.json", "Detection list to report on")
	dbFile    = flag.String("db", "", "Read detections from this sqlite store instead of a JSON file")
	sessionID = flag.String("session", "", "Session id to load when reading from sqlite")
	outFile   = flag.String("out", "report.html", "Output path for the HTML report")
)

func main() {
	flag.Parse()

	records, err := loadRecords()
	if err != nil {
		log.Fatalf("failed to load detections: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("no detections to report on")
	}

	summary := summarise(records)
	log.Printf("%d detections across frames %d..%d", len(records), summary.firstFrame, summary.lastFrame)
	log.Printf("length px: mean=%.2f stddev=%.2f median=%.2f", summary.lengthMean, summary.lengthStd, summary.lengthMedian)
	log.Printf("eccentricity: mean=%.4f min=%.4f", summary.eccMean, summary.eccMin)

	if err := renderReport(records, summary, *outFile); err != nil {
		log.Fatalf("failed to render report: %v", err)
	}
	log.Printf("wrote %s", *outFile)
}

func loadRecords() ([]detect.Record, error) {
	if *dbFile == "" {
		return session.ReadDetections(*inFile)
	}
	if *sessionID == "" {
		return nil, fmt.Errorf("-session is required with -db")
	}
	store, err := session.OpenStore(*dbFile)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Detections(*sessionID)
}

type reportSummary struct {
	firstFrame, lastFrame int
	lengthMean, lengthStd float64
	lengthMedian          float64
	eccMean, eccMin       float64
	meanStepPx            float64
	framesWithDetections  int
}

func summarise(records []detect.Record) reportSummary {
	lengths := make([]float64, 0, len(records))
	eccs := make([]float64, 0, len(records))
	frames := map[int]bool{}

	s := reportSummary{firstFrame: records[0].FrameIndex, lastFrame: records[0].FrameIndex, eccMin: 1}
	for _, r := range records {
		lengths = append(lengths, r.LengthPx)
		eccs = append(eccs, r.Eccentricity)
		frames[r.FrameIndex] = true
		if r.FrameIndex < s.firstFrame {
			s.firstFrame = r.FrameIndex
		}
		if r.FrameIndex > s.lastFrame {
			s.lastFrame = r.FrameIndex
		}
		if r.Eccentricity < s.eccMin {
			s.eccMin = r.Eccentricity
		}
	}

	s.lengthMean, s.lengthStd = stat.MeanStdDev(lengths, nil)
	sort.Float64s(lengths)
	s.lengthMedian = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	s.eccMean = stat.Mean(eccs, nil)
	s.framesWithDetections = len(frames)

	// mean apparent motion between consecutive detections, a rough
	// angular-rate proxy when one object dominates the sequence
	var steps []float64
	for i := 1; i < len(records); i++ {
		if records[i].FrameIndex == records[i-1].FrameIndex+1 {
			steps = append(steps, records[i].CentroidX-records[i-1].CentroidX)
		}
	}
	if len(steps) > 0 {
		s.meanStepPx = stat.Mean(steps, nil)
	}
	return s
}

func renderReport(records []detect.Record, s reportSummary, path string) error {
	pts := make([]opts.ScatterData, 0, len(records))
	for _, r := range records {
		pts = append(pts, opts.ScatterData{Value: []interface{}{r.FrameIndex, r.CentroidX, r.LengthPx}})
	}

	maxLen := 1.0
	for _, r := range records {
		if r.LengthPx > maxLen {
			maxLen = r.LengthPx
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Debris Detections", Theme: "dark", Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Debris Detections",
			Subtitle: fmt.Sprintf("detections=%d frames=%d..%d mean step=%.2fpx", len(records), s.firstFrame, s.lastFrame, s.meanStepPx),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "centroid x (px)", NameLocation: "middle", NameGap: 40}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxLen),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("detections", pts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Streak Statistics"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis([]string{"length mean", "length median", "length stddev", "ecc mean (x100)"}).
		AddSeries("summary", []opts.BarData{
			{Value: s.lengthMean},
			{Value: s.lengthMedian},
			{Value: s.lengthStd},
			{Value: s.eccMean * 100},
		},
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(scatter, bar)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return page.Render(out)
}
