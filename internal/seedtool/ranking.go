package seedtool

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// Mutation mix weights out of 100: move is the hot path, removal and
// re-insertion keep list sizes churning, votes feed trending.
const (
	moveWeight   = 45
	removeWeight = 15
	addWeight    = 15
)

// populateLists fills every list with items of its category. Each add goes
// to rank 1 (push-to-front), so insertion order reverses into rank order
// and every shift path gets exercised.
func populateLists(ctx context.Context, config *Config, lists []*seededList, itemsByCategory map[string][]string, stats *Stats) error {
	log.Printf("🧩 Populating %d lists with %d workers...", len(lists), config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		added    int64
		rejected int64
	)

	listChan := make(chan *seededList, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for list := range listChan {
				select {
				case <-ctx.Done():
					return
				default:
					pool := itemsByCategory[list.Category]
					if len(pool) == 0 {
						continue
					}

					// Fill to capacity when the pool allows; sampling
					// without replacement keeps memberships unique.
					want := list.MaxSize
					if want > len(pool) {
						want = len(pool)
					}
					for _, itemID := range sampleIDs(pool, want) {
						ok, err := addMember(client, config.BaseURL, list.ID, itemID, 1)
						if err != nil {
							atomic.AddInt64(&rejected, 1)
							if config.Verbose {
								log.Printf("⚠️  Add member failed: %v", err)
							}
							continue
						}
						if ok {
							list.ItemIDs = append(list.ItemIDs, itemID)
							atomic.AddInt64(&added, 1)
						} else {
							atomic.AddInt64(&rejected, 1)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(listChan)
		for _, list := range lists {
			select {
			case <-ctx.Done():
				return
			case listChan <- list:
			}
		}
	}()

	wg.Wait()

	stats.MembersAdded = int(atomic.LoadInt64(&added))
	stats.MembersRejected = int(atomic.LoadInt64(&rejected))
	log.Printf("✅ Added %d members (%d rejected)", stats.MembersAdded, stats.MembersRejected)

	if stats.MembersAdded == 0 {
		return fmt.Errorf("no members were added")
	}
	return nil
}

// mutateLists applies randomized rank mutations and votes across the lists.
// Each worker owns a disjoint slice of lists, so mutations on one list stay
// sequential while lists proceed in parallel, mirroring production traffic.
func mutateLists(ctx context.Context, config *Config, lists []*seededList, users []string, stats *Stats) error {
	log.Printf("🔀 Applying %d mutations with %d workers...", config.NumMutations, config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		moves   int64
		removes int64
		adds    int64
		votes   int64
		failed  int64
	)

	workerCount := config.Workers
	if workerCount > len(lists) {
		workerCount = len(lists)
	}
	perWorker := config.NumMutations / workerCount

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(workerID, budget int) {
			defer wg.Done()

			// The worker's share: every workerCount-th list starting at its
			// own offset, so no two workers ever touch the same list.
			own := make([]*seededList, 0, len(lists)/workerCount+1)
			for idx := workerID; idx < len(lists); idx += workerCount {
				own = append(own, lists[idx])
			}

			for i := 0; i < budget; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				list := own[i%len(own)]
				if len(list.ItemIDs) == 0 {
					continue
				}

				switch roll := randomIndex(100); {
				case roll < moveWeight:
					itemID := list.ItemIDs[randomIndex(len(list.ItemIDs))]
					newRank := 1 + randomIndex(len(list.ItemIDs))
					if err := updateRank(client, config.BaseURL, list.ID, itemID, newRank); err != nil {
						atomic.AddInt64(&failed, 1)
					} else {
						atomic.AddInt64(&moves, 1)
					}
				case roll < moveWeight+removeWeight:
					if len(list.ItemIDs) <= 1 {
						continue
					}
					idx := randomIndex(len(list.ItemIDs))
					itemID := list.ItemIDs[idx]
					if err := removeMember(client, config.BaseURL, list.ID, itemID); err != nil {
						atomic.AddInt64(&failed, 1)
					} else {
						list.ItemIDs = append(list.ItemIDs[:idx], list.ItemIDs[idx+1:]...)
						list.Removed = append(list.Removed, itemID)
						atomic.AddInt64(&removes, 1)
					}
				case roll < moveWeight+removeWeight+addWeight:
					if len(list.Removed) == 0 || len(list.ItemIDs) >= list.MaxSize {
						continue
					}
					// Re-insert a previously removed item at a random rank.
					itemID := list.Removed[len(list.Removed)-1]
					ok, err := addMember(client, config.BaseURL, list.ID, itemID, 1+randomIndex(len(list.ItemIDs)+1))
					if err != nil {
						atomic.AddInt64(&failed, 1)
					} else if ok {
						list.Removed = list.Removed[:len(list.Removed)-1]
						list.ItemIDs = append(list.ItemIDs, itemID)
						atomic.AddInt64(&adds, 1)
					}
				default:
					itemID := list.ItemIDs[randomIndex(len(list.ItemIDs))]
					vote := VoteRequest{
						UserID: users[randomIndex(len(users))],
						ListID: list.ID,
						ItemID: itemID,
						Value:  1,
					}
					if getRandomFloat() < 0.2 {
						vote.Value = -1
					}
					if err := castVote(client, config.BaseURL, vote); err != nil {
						atomic.AddInt64(&failed, 1)
					} else {
						atomic.AddInt64(&votes, 1)
					}
				}
			}
		}(w, perWorker)
	}

	wg.Wait()

	stats.RankMoves = int(atomic.LoadInt64(&moves))
	stats.MembersRemoved = int(atomic.LoadInt64(&removes))
	stats.MembersAdded += int(atomic.LoadInt64(&adds))
	stats.VotesCast = int(atomic.LoadInt64(&votes))
	stats.MutationsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Mutation pass completed:
   Moves: %d
   Removes: %d
   Re-adds: %d
   Votes: %d
   Failed: %d
`, stats.RankMoves, stats.MembersRemoved, int(atomic.LoadInt64(&adds)), stats.VotesCast, stats.MutationsFailed)

	return nil
}

// snapshotLists creates one version per list and compacts the ranks first
// so the stored snapshots are dense.
func snapshotLists(ctx context.Context, config *Config, lists []*seededList, stats *Stats) error {
	log.Printf("📸 Compacting and snapshotting %d lists...", len(lists))

	client := newHTTPClient(config.Timeout)

	var (
		compacted int64
		snapshots int64
	)

	listChan := make(chan *seededList, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	workerCount := config.Workers
	if workerCount > len(lists) {
		workerCount = len(lists)
	}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for list := range listChan {
				select {
				case <-ctx.Done():
					return
				default:
					if err := compactList(client, config.BaseURL, list.ID); err != nil {
						if config.Verbose {
							log.Printf("⚠️  Compact failed for %s: %v", list.ID, err)
						}
					} else {
						atomic.AddInt64(&compacted, 1)
					}

					if _, err := createSnapshot(client, config.BaseURL, list.ID, "seed run snapshot"); err != nil {
						if config.Verbose {
							log.Printf("⚠️  Snapshot failed for %s: %v", list.ID, err)
						}
					} else {
						atomic.AddInt64(&snapshots, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(listChan)
		for _, list := range lists {
			select {
			case <-ctx.Done():
				return
			case listChan <- list:
			}
		}
	}()

	wg.Wait()

	stats.ListsCompacted = int(atomic.LoadInt64(&compacted))
	stats.SnapshotsCreated = int(atomic.LoadInt64(&snapshots))
	log.Printf("✅ Compacted %d lists, created %d snapshots", stats.ListsCompacted, stats.SnapshotsCreated)

	return nil
}

// addMember posts one membership. It returns false without an error when
// the API rejected the add for a domain reason (duplicate, capacity, rank
// out of range) since those are expected outcomes during churn.
func addMember(client *HTTPClient, baseURL, listID, itemID string, rank int) (bool, error) {
	resp, err := client.Post(fmt.Sprintf("%s/lists/%s/members", baseURL, listID), AddMemberRequest{ItemID: itemID, Rank: rank})
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case StatusCreated:
		return true, nil
	case StatusConflict, 400:
		return false, nil
	default:
		return false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
}

// updateRank patches one member's rank.
func updateRank(client *HTTPClient, baseURL, listID, itemID string, rank int) error {
	resp, err := client.Patch(fmt.Sprintf("%s/lists/%s/members/%s", baseURL, listID, itemID), UpdateRankRequest{Rank: rank})
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
	return nil
}

// removeMember deletes one membership.
func removeMember(client *HTTPClient, baseURL, listID, itemID string) error {
	resp, err := client.Delete(fmt.Sprintf("%s/lists/%s/members/%s", baseURL, listID, itemID))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp)
	if resp.StatusCode != StatusNoContent {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// castVote posts one vote.
func castVote(client *HTTPClient, baseURL string, vote VoteRequest) error {
	resp, err := client.Post(baseURL+"/votes", vote)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp)
	if resp.StatusCode != StatusNoContent {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// compactList renumbers one list to dense ranks.
func compactList(client *HTTPClient, baseURL, listID string) error {
	resp, err := client.Post(fmt.Sprintf("%s/lists/%s/compact", baseURL, listID), nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// createSnapshot creates one list version and returns its number.
func createSnapshot(client *HTTPClient, baseURL, listID, description string) (int, error) {
	resp, err := client.Post(fmt.Sprintf("%s/lists/%s/versions", baseURL, listID), map[string]string{"description": description})
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusCreated {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var version Version
	if err := unmarshalJSON(body, &version); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return version.Version, nil
}

// getMembers fetches one list's members in rank order.
func getMembers(client *HTTPClient, baseURL, listID string) ([]Member, error) {
	resp, err := client.Get(fmt.Sprintf("%s/lists/%s/members", baseURL, listID))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var members []Member
	if err := unmarshalJSON(body, &members); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return members, nil
}

// sampleIDs returns up to n distinct ids drawn from pool.
func sampleIDs(pool []string, n int) []string {
	picked := make([]string, len(pool))
	copy(picked, pool)
	// Partial Fisher-Yates: only the first n positions matter.
	for i := 0; i < n && i < len(picked); i++ {
		j := i + randomIndex(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	if n > len(picked) {
		n = len(picked)
	}
	return picked[:n]
}
