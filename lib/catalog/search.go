// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Match is one search hit.
type Match struct {
	Product string
	Score   int
}

// Slab sizes follow the fzf defaults.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// initMatcher builds fzf's character class and bonus tables, which
// FuzzyMatchV2 reads and which are empty until Init runs.
var initMatcher = sync.OnceFunc(func() {
	algo.Init("default")
})

// Search ranks catalog products, plus any extra names (typically
// ledger entries for products sold outside the menus), against query
// and returns at most limit matches, best first. Ties are broken by
// name. Matching is case-insensitive.
func (c *Catalog) Search(query string, extra []string, limit int) []Match {
	pattern := []rune(strings.ToLower(query))
	if len(pattern) == 0 || limit <= 0 {
		return nil
	}

	candidates := c.AllProducts()
	seen := make(map[string]struct{}, len(candidates)+len(extra))
	for _, product := range candidates {
		seen[product] = struct{}{}
	}
	for _, product := range extra {
		if _, exists := seen[product]; exists {
			continue
		}
		seen[product] = struct{}{}
		candidates = append(candidates, product)
	}

	initMatcher()
	slab := util.MakeSlab(slab16Size, slab32Size)
	var matches []Match
	for _, product := range candidates {
		chars := util.ToChars([]byte(product))
		result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
		if result.Start < 0 {
			continue
		}
		matches = append(matches, Match{Product: product, Score: result.Score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Product < matches[j].Product
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
