package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTransactionContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetTransaction(ctx)
	assert.False(t, ok)

	tx := &gorm.DB{}
	inner := WithTransaction(ctx, tx)

	got, ok := GetTransaction(inner)
	assert.True(t, ok)
	assert.Same(t, tx, got)
	assert.Same(t, tx, DB(inner, &gorm.DB{}))

	_, ok = GetTransaction(WithTransaction(ctx, nil))
	assert.False(t, ok)
}
