package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang-backtest/internal/model"
	"golang-backtest/pkg/logger"

	"github.com/parquet-go/parquet-go"
)

// BarRepository membaca dan menulis data OHLCV dari file lokal.
type BarRepository interface {
	LoadBars(ctx context.Context, path string) ([]model.Bar, error)
	SaveBarsParquet(ctx context.Context, path string, bars []model.Bar) error
}

type barRepository struct {
	log *logger.Logger
}

func NewBarRepository(log *logger.Logger) BarRepository {
	return &barRepository{log: log}
}

// BarRecord is the on-disk parquet schema for bars.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

var csvColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}

// LoadBars reads .csv or .parquet files and returns the bars sorted by timestamp.
func (r *barRepository) LoadBars(ctx context.Context, path string) ([]model.Bar, error) {
	var (
		bars []model.Bar
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		bars, err = r.loadCSV(ctx, path)
	case ".parquet":
		bars, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("%w: unsupported bar file extension %q", model.ErrData, ext)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	r.log.DebugContext(ctx, "Bars loaded", logger.StringField("path", path), logger.IntField("bars", len(bars)))
	return bars, nil
}

func (r *barRepository) loadCSV(ctx context.Context, path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrData, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %w", model.ErrData, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var bars []model.Bar
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", model.ErrData, line, err)
		}
		bar, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", model.ErrData, line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: csv header is missing column %q", model.ErrData, col)
		}
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (model.Bar, error) {
	var bar model.Bar
	ts, err := parseTimestamp(record[index["timestamp"]])
	if err != nil {
		return bar, err
	}
	bar.Timestamp = ts

	fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
	for i, col := range csvColumns[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[index[col]]), 64)
		if err != nil {
			return bar, fmt.Errorf("invalid %s: %w", col, err)
		}
		*fields[i] = v
	}
	return bar, nil
}

// parseTimestamp accepts RFC3339, a plain date or unix seconds/milliseconds.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

func loadParquet(path string) ([]model.Bar, error) {
	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("%w: read parquet %s: %w", model.ErrData, path, err)
	}
	bars := make([]model.Bar, len(records))
	for i, rec := range records {
		bars[i] = model.Bar{
			Timestamp: time.UnixMilli(rec.Timestamp).UTC(),
			Open:      rec.Open,
			High:      rec.High,
			Low:       rec.Low,
			Close:     rec.Close,
			Volume:    rec.Volume,
		}
	}
	return bars, nil
}

func (r *barRepository) SaveBarsParquet(ctx context.Context, path string, bars []model.Bar) error {
	records := make([]BarRecord, len(bars))
	for i, b := range bars {
		records[i] = BarRecord{
			Timestamp: b.Timestamp.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	r.log.DebugContext(ctx, "Bars saved", logger.StringField("path", path), logger.IntField("bars", len(bars)))
	return nil
}
