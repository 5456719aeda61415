package nftapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	datesKey    = "block_dates"
	trendSuffix = "_trend"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// decodeSeries zips "block_dates" with every "<name>_trend" array of a trend item.
// Null samples are dropped; series are returned sorted by name.
func decodeSeries(item map[string]json.RawMessage) ([]Series, error) {
	rawDates, ok := item[datesKey]
	if !ok {
		return nil, nil
	}
	var dateStrs []string
	if err := json.Unmarshal(rawDates, &dateStrs); err != nil {
		return nil, fmt.Errorf("%s: %w", datesKey, err)
	}
	dates := make([]time.Time, len(dateStrs))
	for i, s := range dateStrs {
		t, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		dates[i] = t
	}

	names := make([]string, 0, len(item))
	for k := range item {
		if strings.HasSuffix(k, trendSuffix) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	out := make([]Series, 0, len(names))
	for _, key := range names {
		var samples []*float64
		if err := json.Unmarshal(item[key], &samples); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		s := Series{Name: strings.TrimSuffix(key, trendSuffix)}
		for i, v := range samples {
			if i >= len(dates) {
				break
			}
			if v == nil {
				continue
			}
			s.Points = append(s.Points, Point{Time: dates[i], Value: *v})
		}
		if len(s.Points) > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}
