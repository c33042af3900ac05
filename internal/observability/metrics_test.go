package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	Submissions().WithLabelValues("graded").Inc()
	GradedAnswers().WithLabelValues("MCQ", "true").Inc()
	require.GreaterOrEqual(t, testutil.ToFloat64(Submissions().WithLabelValues("graded")), 1.0)

	app := fiber.New()
	app.Get("/metrics", MetricsHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "assessment_submissions_total"))
	require.True(t, strings.Contains(string(body), "assessment_graded_answers_total"))
}
