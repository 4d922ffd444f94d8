package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
)

type SimConfig struct {
	APIBaseURL   string
	APIKey       string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	MessageRatio float64
}

// BookingPool tracks booking IDs created during the run so later operations
// can reschedule or cancel them.
type BookingPool struct {
	mu  sync.Mutex
	ids []string
}

func (p *BookingPool) Add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

// Random returns a random booking ID without removing it.
func (p *BookingPool) Random() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	return p.ids[rand.Intn(len(p.ids))], true
}

// Take removes and returns a random booking ID, for cancels.
func (p *BookingPool) Take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return "", false
	}
	idx := rand.Intn(len(p.ids))
	id := p.ids[idx]
	p.ids = append(p.ids[:idx], p.ids[idx+1:]...)
	return id, true
}

type OperationMetrics struct {
	mu        sync.Mutex
	Total     int64
	Success   int64
	Rejected  int64 // 4xx: slot taken, booking gone
	Error     int64
	Latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, status int) {
	om.mu.Lock()
	defer om.mu.Unlock()

	om.Total++
	switch {
	case status >= 200 && status < 300:
		om.Success++
	case status >= 400 && status < 500:
		om.Rejected++
	default:
		om.Error++
	}
	om.Latencies = append(om.Latencies, latency)
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[len(latencies)*50/100]
	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]
	return avg, min, max, p50, p95
}

type Metrics struct {
	List       OperationMetrics
	Book       OperationMetrics
	Reschedule OperationMetrics
	Cancel     OperationMetrics
	Message    OperationMetrics
	Insurance  OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *BookingPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if cfg.APIKey == "" {
		log.Println("warning: API_KEY is not set, every call will be 401")
	}

	log.Printf("config: base_url=%s duration=%s workers=%d book=%.2f cancel=%.2f message=%.2f",
		cfg.APIBaseURL, cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.CancelRatio, cfg.MessageRatio)

	sim := &Simulator{
		config: cfg,
		pool:   &BookingPool{},
		client: &http.Client{Timeout: 5 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim.run(ctx)
		}()
	}
	wg.Wait()

	sim.report()
}

func (s *Simulator) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		roll := rand.Float64()
		switch {
		case roll < s.config.BookingRatio:
			s.doBook(ctx)
		case roll < s.config.BookingRatio+s.config.CancelRatio:
			if rand.Intn(2) == 0 {
				s.doCancel(ctx)
			} else {
				s.doReschedule(ctx)
			}
		case roll < s.config.BookingRatio+s.config.CancelRatio+s.config.MessageRatio:
			s.doMessage(ctx)
		default:
			s.doInsurance(ctx)
		}
	}
}

// fetchSlots lists the current pool, recording the call against the List
// metrics, and returns whatever came back.
func (s *Simulator) fetchSlots(ctx context.Context) []map[string]string {
	var resp struct {
		Slots []map[string]string `json:"slots"`
	}
	status, err := s.call(ctx, http.MethodGet, "/slots", nil, &resp, &s.metrics.List)
	if err != nil || status != http.StatusOK {
		return nil
	}
	return resp.Slots
}

func (s *Simulator) doBook(ctx context.Context) {
	slots := s.fetchSlots(ctx)
	if len(slots) == 0 {
		return
	}
	slot := slots[rand.Intn(len(slots))]

	req := map[string]any{
		"patient_ref": gofakeit.Name(),
		"start":       slot["start"],
		"end":         slot["end"],
		"provider":    slot["provider"],
		"visit_type":  randomVisitType(),
	}
	var resp struct {
		BookingID string `json:"booking_id"`
	}
	status, err := s.call(ctx, http.MethodPost, "/book", req, &resp, &s.metrics.Book)
	if err == nil && status == http.StatusCreated && resp.BookingID != "" {
		s.pool.Add(resp.BookingID)
	}
}

func (s *Simulator) doReschedule(ctx context.Context) {
	id, ok := s.pool.Random()
	if !ok {
		return
	}
	slots := s.fetchSlots(ctx)
	if len(slots) == 0 {
		return
	}
	slot := slots[rand.Intn(len(slots))]

	req := map[string]any{
		"booking_id": id,
		"new_start":  slot["start"],
		"new_end":    slot["end"],
	}
	_, _ = s.call(ctx, http.MethodPost, "/reschedule", req, nil, &s.metrics.Reschedule)
}

func (s *Simulator) doCancel(ctx context.Context) {
	id, ok := s.pool.Take()
	if !ok {
		return
	}
	req := map[string]any{
		"booking_id": id,
		"reason":     gofakeit.Sentence(),
	}
	_, _ = s.call(ctx, http.MethodPost, "/cancel", req, nil, &s.metrics.Cancel)
}

func (s *Simulator) doMessage(ctx context.Context) {
	channel := "sms"
	to := gofakeit.Phone()
	if rand.Intn(2) == 0 {
		channel = "email"
		to = gofakeit.Email()
	}
	req := map[string]any{
		"channel":       channel,
		"to":            to,
		"subject":       "Appointment reminder",
		"template_name": "reminder_v1",
		"variables": map[string]string{
			"patient": gofakeit.FirstName(),
			"clinic":  gofakeit.Company(),
		},
	}
	_, _ = s.call(ctx, http.MethodPost, "/message/send", req, nil, &s.metrics.Message)
}

func (s *Simulator) doInsurance(ctx context.Context) {
	req := map[string]any{
		"payer":      gofakeit.Company(),
		"cpt_code":   strconv.Itoa(gofakeit.Number(90000, 99999)),
		"visit_type": randomVisitType(),
	}
	_, _ = s.call(ctx, http.MethodPost, "/insurance/verify", req, nil, &s.metrics.Insurance)
}

func randomVisitType() string {
	types := []string{"screening", "consult", "follow-up", "procedure"}
	return types[rand.Intn(len(types))]
}

// call performs one API request and records its latency and outcome.
func (s *Simulator) call(ctx context.Context, method, path string, body any, out any, om *OperationMetrics) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		om.Record(latency, 0)
		return 0, err
	}
	defer resp.Body.Close()

	om.Record(latency, resp.StatusCode)

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func (s *Simulator) report() {
	fmt.Println("\n=== simulation results ===")
	printOp("list", &s.metrics.List)
	printOp("book", &s.metrics.Book)
	printOp("reschedule", &s.metrics.Reschedule)
	printOp("cancel", &s.metrics.Cancel)
	printOp("message", &s.metrics.Message)
	printOp("insurance", &s.metrics.Insurance)
}

func printOp(name string, om *OperationMetrics) {
	avg, min, max, p50, p95 := om.Stats()
	fmt.Printf("%-12s total=%-6d success=%-6d rejected=%-6d error=%-6d avg=%s min=%s max=%s p50=%s p95=%s\n",
		name, om.Total, om.Success, om.Rejected, om.Error, avg, min, max, p50, p95)
}

func loadConfig() SimConfig {
	_ = godotenv.Load()

	return SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		APIKey:       os.Getenv("API_KEY"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 4),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.35),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.25),
		MessageRatio: getFloat("SIM_MESSAGE_RATIO", 0.20),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
