// go-rig
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rig.
//
// go-rig is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rig is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rig; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	rig "github.com/ZaparooProject/go-rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr      error
		name         string
		succeedAt    int
		failAt       int
		maxRetries   int
		wantAttempts int
		wantResult   int
	}{
		{
			name:         "succeeds first time",
			maxRetries:   3,
			succeedAt:    0,
			failAt:       -1,
			wantAttempts: 1,
			wantResult:   42,
		},
		{
			name:         "succeeds after retries",
			maxRetries:   3,
			succeedAt:    2,
			failAt:       -1,
			wantAttempts: 3,
			wantResult:   42,
		},
		{
			name:         "exhausts retries",
			maxRetries:   2,
			succeedAt:    -1,
			failAt:       -1,
			wantAttempts: 3,
			wantErr:      rig.ErrTimeout,
		},
		{
			name:         "zero retries means one attempt",
			maxRetries:   0,
			succeedAt:    -1,
			failAt:       -1,
			wantAttempts: 1,
			wantErr:      rig.ErrTimeout,
		},
		{
			name:         "permanent error stops immediately",
			maxRetries:   5,
			succeedAt:    -1,
			failAt:       1,
			wantAttempts: 2,
			wantErr:      rig.ErrIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			attempts := 0
			result, err := WithRetry(context.Background(), RetryConfig{
				Description: "test",
				MaxRetries:  tt.maxRetries,
			}, func(attempt int) (int, bool, error) {
				assert.Equal(t, attempts, attempt)
				attempts++
				if attempt == tt.failAt {
					return 0, false, rig.ErrIO
				}
				if attempt == tt.succeedAt {
					return 42, false, nil
				}
				return 0, true, nil
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, result)
		})
	}
}

func TestWithRetry_Callbacks(t *testing.T) {
	t.Parallel()

	var retried []int
	failErr := errors.New("gave up")
	_, err := WithRetry(context.Background(), RetryConfig{
		MaxRetries: 2,
		OnRetry: func(_ context.Context, attempt int) error {
			retried = append(retried, attempt)
			return nil
		},
		OnRetryFailed: func() error { return failErr },
	}, func(int) (struct{}, bool, error) {
		return struct{}{}, true, nil
	})

	require.ErrorIs(t, err, failErr)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	_, err := WithRetry(ctx, RetryConfig{
		MaxRetries: 10,
		RetryDelay: time.Millisecond,
	}, func(int) (int, bool, error) {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return 0, true, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestSleep(t *testing.T) {
	t.Parallel()

	require.NoError(t, Sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	require.ErrorIs(t, Sleep(ctx, time.Second), context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
