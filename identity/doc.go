// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity resolves human-entered names to stable rater records.

# Names

NormalizeName trims whitespace, applies Unicode NFC normalization and
enforces a 2-50 character length:

	name, err := identity.NormalizeName("  Budi ")  // "Budi"

Names are case-sensitive: "budi" and "Budi" are different raters.

# Get-or-create

	p := identity.NewProvider(db)
	rater, err := p.Resolve(ctx, "Budi")

Resolve inserts with ON CONFLICT (name) DO NOTHING and then selects by name,
so concurrent first-time resolutions of the same name never produce two rows.

# Rater IDs

Rater IDs are random UUIDs:

	id := identity.NewRaterID()
*/
package identity
