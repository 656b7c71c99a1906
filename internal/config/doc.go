// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package config loads and validates Taste-Kid's runtime configuration.
// Layering is defaults (struct tags) then environment variables, via koanf;
// there is no config-file layer since every setting here is small enough to
// live in the environment.
package config
