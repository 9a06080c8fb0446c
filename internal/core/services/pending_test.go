package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGo_ResolvesWithValue(t *testing.T) {
	release := make(chan struct{})
	p := Go(context.Background(), func(context.Context) int {
		<-release
		return 42
	})

	_, ok := p.Value()
	assert.False(t, ok)

	close(release)
	<-p.Done()

	v, ok := p.Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestPending_AwaitContextDone(t *testing.T) {
	p := Go(context.Background(), func(ctx context.Context) string {
		time.Sleep(time.Second)
		return "late"
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	v, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, v)
}
