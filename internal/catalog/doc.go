// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package catalog stores podcasts and their episodes in Badger and
// serves them in stable insertion order. It implements
// recommend.CatalogProvider and backs browse, lookup, and search.
package catalog
