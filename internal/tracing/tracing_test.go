package tracing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	assert.True(t, strings.HasPrefix(id, "req_"))

	other := GenerateRequestID()
	assert.NotEqual(t, id, other)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req_abc")
	ctx = WithTraceID(ctx, "trace_def")
	ctx = WithSpanID(ctx, "span_ghi")

	assert.Equal(t, "req_abc", GetRequestID(ctx))
	assert.Equal(t, "trace_def", GetTraceID(ctx))
	assert.Equal(t, "span_ghi", GetSpanID(ctx))
}

func TestGetRequestInfo_EmptyContext(t *testing.T) {
	info := GetRequestInfo(context.Background())
	assert.Empty(t, info.RequestID)
	assert.Empty(t, info.TraceID)
	assert.True(t, info.StartTime.IsZero())
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), Duration(context.Background()))

	ctx := WithStartTime(context.Background(), time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, Duration(ctx), time.Second)
}
