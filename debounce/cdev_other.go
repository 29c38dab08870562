// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package debounce

import (
	"context"
	"errors"
)

// WatchChip is only supported on linux.
func WatchChip(ctx context.Context, c *Controller, chip string, offsets ...int) error {
	return errors.New("debounce: GPIO character device is only supported on linux")
}
