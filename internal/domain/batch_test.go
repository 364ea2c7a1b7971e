package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchSummary_Record(t *testing.T) {
	summary := NewBatchSummary("batch-1")

	summary.Record(Succeeded("a", "/out/a.mp4"))
	summary.Record(Failed("b", FailureFetch, errors.New("boom")))
	summary.Record(Succeeded("c", "/out/c.mp4"))
	summary.Record(Failed("d", FailureInvalid, ErrInvalidItem))

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, []WorkItem{"b", "d"}, summary.FailedItems)
	assert.Equal(t, summary.Total, summary.Succeeded+summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Len(t, summary.FailedResults(), 2)
	assert.Equal(t, "boom", summary.FailedResults()[0].ErrorDetail)
}

func TestBatchSummary_Empty(t *testing.T) {
	summary := NewBatchSummary("batch-2")

	assert.Equal(t, 0, summary.Total)
	assert.NotNil(t, summary.FailedItems)
	assert.Empty(t, summary.FailedItems)
	assert.False(t, summary.HasFailures())
}

func TestFailed_NilError(t *testing.T) {
	result := Failed("x", FailureFetch, nil)

	assert.False(t, result.Succeeded)
	assert.Empty(t, result.ErrorDetail)
}
