package models

import "fmt"

// LatencySample is one observed request latency. ID breaks ties between
// samples taken in the same millisecond.
type LatencySample struct {
	ID          string  `json:"id"`
	TimestampMs int64   `json:"timestampMs"`
	ValueMs     float64 `json:"valueMs"`
}

// Key is the sample's logical store key. The timestamp is zero-padded so
// lexical order matches time order.
func (s LatencySample) Key() string {
	return fmt.Sprintf("latency/%013d/%s", s.TimestampMs, s.ID)
}

type LatencySummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

type MemoryStats struct {
	RSS       uint64 `json:"rss"`
	HeapAlloc uint64 `json:"heapAlloc"`
	HeapSys   uint64 `json:"heapSys"`
	HostTotal uint64 `json:"hostTotal"`
	HostUsed  uint64 `json:"hostUsed"`
}

type HostStats struct {
	Memory   MemoryStats
	CPUCount int
}

type MetricsSnapshot struct {
	UptimeSeconds float64        `json:"uptimeSeconds"`
	WindowSeconds float64        `json:"windowSeconds"`
	Memory        MemoryStats    `json:"memory"`
	CPUCount      int            `json:"cpuCount"`
	Latency       LatencySummary `json:"latency"`
}
