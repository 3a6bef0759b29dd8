package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MetricChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Number of chat requests, by outcome",
		},
		[]string{"outcome"},
	)

	MetricWorkflowNodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workflow_node_duration_seconds",
			Help:    "Duration of each workflow node execution",
			Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"node"},
	)

	MetricLlmRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Number of LLM completion calls, by prompt and status",
		},
		[]string{"module", "key", "status"},
	)

	MetricSessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Number of chat sessions created",
		},
	)
)
