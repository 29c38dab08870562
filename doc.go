// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frontpanel is a container for the front panel drivers: a 5x5
// WS2812 digit matrix, two debounced push-buttons mirrored on an RGB LED and
// an SSD1306 OLED, and the console loop tying them together.
//
// The binary lives in cmd/frontpanel.
package frontpanel
