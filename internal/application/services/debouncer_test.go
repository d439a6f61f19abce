package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avatarctic/clinic-console/internal/application/services"
)

func TestDebouncer_SingleCallerProceeds(t *testing.T) {
	d := services.NewDebouncer(10 * time.Millisecond)
	start := time.Now()
	assert.NoError(t, d.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDebouncer_ContextCancelled(t *testing.T) {
	d := services.NewDebouncer(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	assert.NoError(t, services.NewDebouncer(5*time.Millisecond).Wait(context.Background()))
}

func TestDebouncer_DefaultDelay(t *testing.T) {
	d := services.NewDebouncer(0)
	ctx, cancel := context.WithTimeout(context.Background(), services.DefaultDebounceDelay/2)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}
