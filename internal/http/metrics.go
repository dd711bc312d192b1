package http

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

var (
	appStartedAtUnix = time.Now().Unix()
	inFlightRequests int64
	metricsMu        sync.Mutex
	httpSeries       = map[httpMetricKey]*httpMetricSeries{}
	dbQuerySeries    = map[dbMetricKey]*dbMetricSeries{}
	chartSeries      = map[chartMetricKey]uint64{}
)

func metricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		metricsMu.Lock()
		httpKeys := make([]httpMetricKey, 0, len(httpSeries))
		for k := range httpSeries {
			httpKeys = append(httpKeys, k)
		}
		sort.Slice(httpKeys, func(i, j int) bool {
			if httpKeys[i].Method != httpKeys[j].Method {
				return httpKeys[i].Method < httpKeys[j].Method
			}
			if httpKeys[i].Path != httpKeys[j].Path {
				return httpKeys[i].Path < httpKeys[j].Path
			}
			return httpKeys[i].Status < httpKeys[j].Status
		})
		httpSnapshot := make([]httpMetricSeries, len(httpKeys))
		for i, k := range httpKeys {
			httpSnapshot[i] = *httpSeries[k]
		}

		dbKeys := make([]dbMetricKey, 0, len(dbQuerySeries))
		for k := range dbQuerySeries {
			dbKeys = append(dbKeys, k)
		}
		sort.Slice(dbKeys, func(i, j int) bool {
			if dbKeys[i].Connector != dbKeys[j].Connector {
				return dbKeys[i].Connector < dbKeys[j].Connector
			}
			return dbKeys[i].Operation < dbKeys[j].Operation
		})
		dbSnapshot := make([]dbMetricSeries, len(dbKeys))
		for i, k := range dbKeys {
			dbSnapshot[i] = *dbQuerySeries[k]
		}

		chartKeys := make([]chartMetricKey, 0, len(chartSeries))
		for k := range chartSeries {
			chartKeys = append(chartKeys, k)
		}
		sort.Slice(chartKeys, func(i, j int) bool {
			if chartKeys[i].Slot != chartKeys[j].Slot {
				return chartKeys[i].Slot < chartKeys[j].Slot
			}
			return chartKeys[i].Outcome < chartKeys[j].Outcome
		})
		chartSnapshot := make([]uint64, len(chartKeys))
		for i, k := range chartKeys {
			chartSnapshot[i] = chartSeries[k]
		}
		metricsMu.Unlock()

		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_http_requests_total Total HTTP requests handled by this app.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_http_requests_total counter")
		for i, k := range httpKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_http_requests_total{method=%q,path=%q,status=%q} %d\n",
				escapeLabel(k.Method), escapeLabel(k.Path), escapeLabel(k.Status), httpSnapshot[i].Count)
		}
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_http_request_duration_seconds_sum Total duration in seconds for observed requests.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_http_request_duration_seconds_sum counter")
		for i, k := range httpKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_http_request_duration_seconds_sum{method=%q,path=%q,status=%q} %.9f\n",
				escapeLabel(k.Method), escapeLabel(k.Path), escapeLabel(k.Status), httpSnapshot[i].DurationSecondsSum)
		}
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_http_in_flight_requests In-flight HTTP requests currently served by this app.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_http_in_flight_requests gauge")
		_, _ = fmt.Fprintf(w, "inventory_dashboard_http_in_flight_requests %d\n", atomic.LoadInt64(&inFlightRequests))

		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_db_query_duration_seconds_sum Database query duration sum in seconds by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_db_query_duration_seconds_sum counter")
		for i, k := range dbKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_db_query_duration_seconds_sum{connector=%q,operation=%q} %.9f\n",
				escapeLabel(k.Connector), escapeLabel(k.Operation), dbSnapshot[i].DurationSecondsSum)
		}
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_db_query_duration_seconds_count Database query observation count by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_db_query_duration_seconds_count counter")
		for i, k := range dbKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_db_query_duration_seconds_count{connector=%q,operation=%q} %d\n",
				escapeLabel(k.Connector), escapeLabel(k.Operation), dbSnapshot[i].Count)
		}
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_db_query_errors_total Database query errors by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_db_query_errors_total counter")
		for i, k := range dbKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_db_query_errors_total{connector=%q,operation=%q} %d\n",
				escapeLabel(k.Connector), escapeLabel(k.Operation), dbSnapshot[i].Errors)
		}

		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_charts_total Chart slots processed by outcome (built or skipped).")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_charts_total counter")
		for i, k := range chartKeys {
			_, _ = fmt.Fprintf(w, "inventory_dashboard_charts_total{slot=%q,outcome=%q} %d\n",
				escapeLabel(k.Slot), escapeLabel(k.Outcome), chartSnapshot[i])
		}

		uptime := time.Now().Unix() - appStartedAtUnix
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_uptime_seconds Process uptime in seconds.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_uptime_seconds gauge")
		_, _ = fmt.Fprintf(w, "inventory_dashboard_uptime_seconds %d\n", uptime)

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_runtime_goroutines Number of goroutines.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_runtime_goroutines gauge")
		_, _ = fmt.Fprintf(w, "inventory_dashboard_runtime_goroutines %d\n", runtime.NumGoroutine())
		_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_runtime_memory_alloc_bytes Heap allocation bytes.")
		_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_runtime_memory_alloc_bytes gauge")
		_, _ = fmt.Fprintf(w, "inventory_dashboard_runtime_memory_alloc_bytes %d\n", ms.Alloc)

		if cpuSec, ok := processCPUSeconds(); ok {
			_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_runtime_cpu_seconds_total Total CPU time consumed by this process in seconds.")
			_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_runtime_cpu_seconds_total counter")
			_, _ = fmt.Fprintf(w, "inventory_dashboard_runtime_cpu_seconds_total %.6f\n", cpuSec)
		}
		if io := processIOStats(); io != nil {
			_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_runtime_io_read_bytes_total Bytes read by this process from storage.")
			_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_runtime_io_read_bytes_total counter")
			_, _ = fmt.Fprintf(w, "inventory_dashboard_runtime_io_read_bytes_total %d\n", io.ReadBytes)
			_, _ = fmt.Fprintln(w, "# HELP inventory_dashboard_runtime_io_write_bytes_total Bytes written by this process to storage.")
			_, _ = fmt.Fprintln(w, "# TYPE inventory_dashboard_runtime_io_write_bytes_total counter")
			_, _ = fmt.Fprintf(w, "inventory_dashboard_runtime_io_write_bytes_total %d\n", io.WriteBytes)
		}
	})
}

func appMetricsSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type endpointRow struct {
			Method string  `json:"method"`
			Path   string  `json:"path"`
			Status string  `json:"status"`
			Count  uint64  `json:"count"`
			AvgMS  float64 `json:"avg_ms"`
		}
		type dbRow struct {
			Connector string  `json:"connector"`
			Operation string  `json:"operation"`
			Count     uint64  `json:"count"`
			Errors    uint64  `json:"errors"`
			AvgMS     float64 `json:"avg_ms"`
		}

		metricsMu.Lock()
		httpRows := make([]endpointRow, 0, len(httpSeries))
		for k, s := range httpSeries {
			httpRows = append(httpRows, endpointRow{
				Method: k.Method,
				Path:   k.Path,
				Status: k.Status,
				Count:  s.Count,
				AvgMS:  avgMS(s.DurationSecondsSum, s.Count),
			})
		}
		dbRows := make([]dbRow, 0, len(dbQuerySeries))
		totalDBErrors := uint64(0)
		for k, s := range dbQuerySeries {
			dbRows = append(dbRows, dbRow{
				Connector: k.Connector,
				Operation: k.Operation,
				Count:     s.Count,
				Errors:    s.Errors,
				AvgMS:     avgMS(s.DurationSecondsSum, s.Count),
			})
			totalDBErrors += s.Errors
		}
		charts := map[string]uint64{}
		for k, n := range chartSeries {
			charts[k.Outcome] += n
		}
		metricsMu.Unlock()

		sort.Slice(httpRows, func(i, j int) bool { return httpRows[i].AvgMS > httpRows[j].AvgMS })
		sort.Slice(dbRows, func(i, j int) bool { return dbRows[i].AvgMS > dbRows[j].AvgMS })
		if len(httpRows) > 5 {
			httpRows = httpRows[:5]
		}
		if len(dbRows) > 5 {
			dbRows = dbRows[:5]
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"meta": map[string]any{
				"generated_at": time.Now().UTC(),
			},
			"data": map[string]any{
				"top_http_slowest_avg_ms": httpRows,
				"top_db_slowest_avg_ms":   dbRows,
				"charts":                  charts,
				"errors": map[string]any{
					"db_query_total": totalDBErrors,
				},
			},
		})
	}
}

func avgMS(sumSeconds float64, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return (sumSeconds / float64(count)) * 1000.0
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		atomic.AddInt64(&inFlightRequests, 1)
		defer atomic.AddInt64(&inFlightRequests, -1)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		recordHTTPMetric(r.Method, normalizeMetricPath(r.URL.Path), rec.status, time.Since(start).Seconds())
	})
}

func normalizeMetricPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/vendors/"):
		return "/vendors/{id}"
	case strings.HasPrefix(path, "/suppliers/"):
		return "/suppliers/{id}"
	case strings.HasPrefix(path, "/api/v1/charts/"):
		return "/api/v1/charts/{layout}"
	default:
		return path
	}
}

type httpMetricKey struct {
	Method string
	Path   string
	Status string
}

type httpMetricSeries struct {
	Count              uint64
	DurationSecondsSum float64
}

type dbMetricKey struct {
	Connector string
	Operation string
}

type dbMetricSeries struct {
	Count              uint64
	Errors             uint64
	DurationSecondsSum float64
}

type chartMetricKey struct {
	Slot    string
	Outcome string
}

func recordHTTPMetric(method, path string, status int, durationSeconds float64) {
	key := httpMetricKey{
		Method: method,
		Path:   path,
		Status: strconv.Itoa(status),
	}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := httpSeries[key]
	if !ok {
		row = &httpMetricSeries{}
		httpSeries[key] = row
	}
	row.Count++
	row.DurationSecondsSum += durationSeconds
}

func recordDBQuery(connector, operation string, durationSeconds float64, err error) {
	if connector == "" || operation == "" {
		return
	}
	key := dbMetricKey{Connector: connector, Operation: operation}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := dbQuerySeries[key]
	if !ok {
		row = &dbMetricSeries{}
		dbQuerySeries[key] = row
	}
	row.Count++
	row.DurationSecondsSum += durationSeconds
	if err != nil {
		row.Errors++
	}
}

func recordChartOutcomes(built, skipped []string) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	for _, slot := range built {
		chartSeries[chartMetricKey{Slot: slot, Outcome: "built"}]++
	}
	for _, slot := range skipped {
		chartSeries[chartMetricKey{Slot: slot, Outcome: "skipped"}]++
	}
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}

func processCPUSeconds() (float64, bool) {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	user := float64(ru.Utime.Sec) + (float64(ru.Utime.Usec) / 1_000_000.0)
	sys := float64(ru.Stime.Sec) + (float64(ru.Stime.Usec) / 1_000_000.0)
	return user + sys, true
}

type ioStats struct {
	ReadBytes  uint64
	WriteBytes uint64
}

func processIOStats() *ioStats {
	b, err := os.ReadFile("/proc/self/io")
	if err != nil {
		return nil
	}
	out := &ioStats{}
	for _, line := range strings.Split(string(b), "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(parts[0]) {
		case "read_bytes":
			out.ReadBytes = v
		case "write_bytes":
			out.WriteBytes = v
		}
	}
	return out
}
