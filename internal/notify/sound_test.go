// SPDX-License-Identifier: AGPL-3.0-only
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryInOrder_FirstSuccessWins(t *testing.T) {
	var ran []string
	attempts := []attempt{
		{name: "first", run: func(context.Context) error {
			ran = append(ran, "first")
			return errors.New("nope")
		}},
		{name: "second", run: func(context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
		{name: "third", run: func(context.Context) error {
			ran = append(ran, "third")
			return nil
		}},
	}

	name, err := tryInOrder(context.Background(), attempts)
	assert.NoError(t, err)
	assert.Equal(t, "second", name)
	assert.Equal(t, []string{"first", "second"}, ran, "later attempts must not run after a success")
}

func TestTryInOrder_AllFail(t *testing.T) {
	attempts := []attempt{
		{name: "a", run: func(context.Context) error { return errors.New("a failed") }},
		{name: "b", run: func(context.Context) error { return errors.New("b failed") }},
	}

	_, err := tryInOrder(context.Background(), attempts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "b failed")
}

func TestTryInOrder_TimeoutFallsThrough(t *testing.T) {
	attempts := []attempt{
		{
			name:    "slow",
			timeout: 20 * time.Millisecond,
			run: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
		{name: "fast", run: func(context.Context) error { return nil }},
	}

	name, err := tryInOrder(context.Background(), attempts)
	assert.NoError(t, err)
	assert.Equal(t, "fast", name)
}

func TestTryInOrder_ParentCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var secondRan bool
	attempts := []attempt{
		{name: "first", run: func(ctx context.Context) error { return ctx.Err() }},
		{name: "second", run: func(context.Context) error {
			secondRan = true
			return nil
		}},
	}

	_, err := tryInOrder(ctx, attempts)
	assert.Error(t, err)
	assert.False(t, secondRan, "cancelled parent context must stop the chain")
}
