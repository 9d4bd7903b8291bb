package seedtool

import (
	"context"
	"fmt"
	"log"
)

// verifyResults checks the engine's observable invariants through the API:
// dense ranks after compaction, duplicate rejection, strictly increasing
// version numbers, statistics consistency, and trending order.
func verifyResults(ctx context.Context, config *Config, lists []*seededList, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	client := newHTTPClient(config.Timeout)

	for _, list := range lists {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := verifyListDensity(client, config.BaseURL, list); err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  Density check failed for list %s: %v", list.ID, err)
			continue
		}
		stats.ListsVerified++
	}

	if len(lists) > 0 {
		if err := verifyDuplicateRejection(client, config.BaseURL, lists[0]); err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  Duplicate rejection check failed: %v", err)
		} else {
			log.Println("✅ Duplicate membership rejected as expected")
		}

		if err := verifyVersionMonotonicity(client, config.BaseURL, lists[0]); err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  Version monotonicity check failed: %v", err)
		} else {
			log.Println("✅ Version numbers strictly increasing")
		}

		if err := verifyStatistics(client, config.BaseURL, lists, config.Verbose); err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  Statistics check failed: %v", err)
		} else {
			log.Println("✅ Statistics row consistent with memberships")
		}
	}

	if err := verifyTrendingOrder(client, config.BaseURL, config.Verbose); err != nil {
		stats.VerificationErrors++
		log.Printf("⚠️  Trending order check failed: %v", err)
	} else {
		log.Println("✅ Trending feed ordered by votes then appearances")
	}

	log.Printf("✅ Result verification completed (%d lists verified, %d errors)",
		stats.ListsVerified, stats.VerificationErrors)
	return nil
}

// verifyListDensity asserts the list's ranks form exactly {1..n} and match
// the membership count the tool tracked.
func verifyListDensity(client *HTTPClient, baseURL string, list *seededList) error {
	members, err := getMembers(client, baseURL, list.ID)
	if err != nil {
		return err
	}

	seen := make(map[int]bool, len(members))
	for _, m := range members {
		if m.Rank < 1 || m.Rank > len(members) {
			return fmt.Errorf("rank %d outside [1, %d]", m.Rank, len(members))
		}
		if seen[m.Rank] {
			return fmt.Errorf("duplicate rank %d", m.Rank)
		}
		seen[m.Rank] = true
	}
	if len(seen) != len(members) {
		return fmt.Errorf("ranks cover %d of %d positions", len(seen), len(members))
	}
	return nil
}

// verifyDuplicateRejection re-adds an existing member and expects a 409.
func verifyDuplicateRejection(client *HTTPClient, baseURL string, list *seededList) error {
	members, err := getMembers(client, baseURL, list.ID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("list %s has no members to re-add", list.ID)
	}

	resp, err := client.Post(fmt.Sprintf("%s/lists/%s/members", baseURL, list.ID),
		AddMemberRequest{ItemID: members[0].Item.ID, Rank: 1})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != StatusConflict {
		return fmt.Errorf("expected HTTP %d for duplicate add, got %d", StatusConflict, resp.StatusCode)
	}
	return nil
}

// verifyVersionMonotonicity snapshots the list twice and checks the version
// numbers increase by exactly one.
func verifyVersionMonotonicity(client *HTTPClient, baseURL string, list *seededList) error {
	first, err := createSnapshot(client, baseURL, list.ID, "monotonicity probe 1")
	if err != nil {
		return err
	}
	second, err := createSnapshot(client, baseURL, list.ID, "monotonicity probe 2")
	if err != nil {
		return err
	}
	if second != first+1 {
		return fmt.Errorf("versions not consecutive: %d then %d", first, second)
	}
	return nil
}

// verifyStatistics recomputes statistics for one member item and compares
// the row against the memberships visible through the API.
func verifyStatistics(client *HTTPClient, baseURL string, lists []*seededList, verbose bool) error {
	// Pick the first item of the first non-empty list.
	var itemID string
	for _, list := range lists {
		members, err := getMembers(client, baseURL, list.ID)
		if err != nil {
			return err
		}
		if len(members) > 0 {
			itemID = members[0].Item.ID
			break
		}
	}
	if itemID == "" {
		return fmt.Errorf("no member found to verify statistics for")
	}

	// Count the item's appearances and best rank across every seeded list.
	appearances := 0
	best := 0
	for _, list := range lists {
		members, err := getMembers(client, baseURL, list.ID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.Item.ID == itemID {
				appearances++
				if best == 0 || m.Rank < best {
					best = m.Rank
				}
			}
		}
	}

	// Force a synchronous recompute so the row reflects the final state.
	resp, err := client.Post(fmt.Sprintf("%s/items/%s/statistics/recompute", baseURL, itemID), nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var row Statistics
	if err := unmarshalJSON(body, &row); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if row.TotalAppearances != appearances {
		return fmt.Errorf("total_appearances %d does not match %d observed memberships",
			row.TotalAppearances, appearances)
	}
	if appearances > 0 && (row.BestRank == nil || *row.BestRank != best) {
		return fmt.Errorf("best_rank does not match observed best rank %d", best)
	}

	if verbose {
		log.Printf("📊 Item %s: appearances=%d top10=%d top3=%d first=%d",
			itemID, row.TotalAppearances, row.Top10Count, row.Top3Count, row.FirstPlaceCount)
	}
	return nil
}

// verifyTrendingOrder refreshes the feed and checks the published ordering:
// recent votes descending, ties broken by list appearances descending.
func verifyTrendingOrder(client *HTTPClient, baseURL string, verbose bool) error {
	resp, err := client.Post(baseURL+"/trending/refresh", nil)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var feed TrendingFeed
	if err := unmarshalJSON(body, &feed); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	for i := 1; i < len(feed.Items); i++ {
		prev, cur := feed.Items[i-1], feed.Items[i]
		if cur.RecentVotes > prev.RecentVotes {
			return fmt.Errorf("entry %d has more recent votes than entry %d", i, i-1)
		}
		if cur.RecentVotes == prev.RecentVotes && cur.ListAppearances > prev.ListAppearances {
			return fmt.Errorf("entry %d breaks the appearance tie against entry %d", i, i-1)
		}
	}

	if verbose && len(feed.Items) > 0 {
		topN := 10
		if len(feed.Items) < topN {
			topN = len(feed.Items)
		}
		log.Printf("🔥 Top %d trending items:", topN)
		for i := 0; i < topN; i++ {
			entry := feed.Items[i]
			log.Printf("   %d. %s - votes: %d, appearances: %d",
				i+1, entry.Name, entry.RecentVotes, entry.ListAppearances)
		}
	}
	return nil
}
