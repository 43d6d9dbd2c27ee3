// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package localstate remembers the signed-in rater on the local machine.
// The identity is a small YAML file with the rater id and display name;
// both are required for it to count as present.
package localstate
