package requestid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ctx, id := New(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, From(ctx))
}

func TestFrom_Missing(t *testing.T) {
	id := From(context.Background())
	assert.NotEmpty(t, id) // generates new UUID
}

func TestWith(t *testing.T) {
	ctx := With(context.Background(), "test-123")
	assert.Equal(t, "test-123", From(ctx))
}
