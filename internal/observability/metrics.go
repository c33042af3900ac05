package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	submissionsTotal     *prometheus.CounterVec
	submissionScores     prometheus.Histogram
	gradedAnswersTotal   *prometheus.CounterVec
	examCacheLookupTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessment_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_submissions_total",
			Help: "Submission attempts partitioned by outcome.",
		}, []string{"outcome"})

		submissionScores = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "assessment_submission_score_percent",
			Help:    "Distribution of graded submission scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		})

		gradedAnswersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_graded_answers_total",
			Help: "Graded answers partitioned by question type and correctness.",
		}, []string{"question_type", "correct"})

		examCacheLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_exam_cache_lookups_total",
			Help: "Exam cache lookups partitioned by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			submissionsTotal,
			submissionScores,
			gradedAnswersTotal,
			examCacheLookupTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Submissions exposes the submission outcome counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// SubmissionScores exposes the final score histogram.
func SubmissionScores() prometheus.Histogram {
	RegisterMetrics()
	return submissionScores
}

// GradedAnswers exposes the per-answer grading counter.
func GradedAnswers() *prometheus.CounterVec {
	RegisterMetrics()
	return gradedAnswersTotal
}

// ExamCacheLookups exposes the exam cache hit/miss counter.
func ExamCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return examCacheLookupTotal
}
