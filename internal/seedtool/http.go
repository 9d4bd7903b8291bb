package seedtool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Post performs a POST request with an optional JSON body
func (c *HTTPClient) Post(url string, body interface{}) (*http.Response, error) {
	return c.doJSON(http.MethodPost, url, body)
}

// Patch performs a PATCH request with a JSON body
func (c *HTTPClient) Patch(url string, body interface{}) (*http.Response, error) {
	return c.doJSON(http.MethodPatch, url, body)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// doJSON builds and sends a request with a JSON body. A nil body sends an
// empty request.
func (c *HTTPClient) doJSON(method, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := marshalJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// closeBody closes a response body, logging on failure.
func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Printf("failed to close response body: %v", err)
	}
}

// submitItems creates the generated items through the API concurrently and
// returns the created items grouped by category.
func submitItems(ctx context.Context, config *Config, items []Item, stats *Stats) (map[string][]string, error) {
	log.Printf("📦 Creating %d items with %d workers...", len(items), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/items"

	created := make([]Item, len(items))
	var (
		successful int64
		failed     int64
	)

	itemChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range itemChan {
				select {
				case <-ctx.Done():
					return
				default:
					resp, err := client.Post(url, items[index])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						continue
					}

					body, err := readResponseBody(resp)
					if err != nil || resp.StatusCode != StatusCreated {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Item create failed (HTTP %d): %s", resp.StatusCode, string(body))
						}
						continue
					}

					var out Item
					if err := unmarshalJSON(body, &out); err != nil {
						atomic.AddInt64(&failed, 1)
						continue
					}
					created[index] = out
					atomic.AddInt64(&successful, 1)
				}
			}
		}()
	}

	go func() {
		defer close(itemChan)
		for i := range items {
			select {
			case <-ctx.Done():
				return
			case itemChan <- i:
			}
		}
	}()

	wg.Wait()

	// Group the created IDs by category so lists can be filled with
	// matching items.
	byCategory := make(map[string][]string, len(categories))
	for _, item := range created {
		if item.ID != "" {
			byCategory[item.Category] = append(byCategory[item.Category], item.ID)
		}
	}

	stats.ItemsCreated = int(atomic.LoadInt64(&successful))
	if atomic.LoadInt64(&failed) > 0 {
		log.Printf("⚠️  %d item creations failed", atomic.LoadInt64(&failed))
	}
	log.Printf("✅ Created %d items", stats.ItemsCreated)

	if stats.ItemsCreated == 0 {
		return nil, fmt.Errorf("no items were created")
	}
	return byCategory, nil
}

// submitLists creates the generated lists through the API concurrently.
func submitLists(ctx context.Context, config *Config, lists []List, stats *Stats) ([]*seededList, error) {
	log.Printf("📋 Creating %d lists with %d workers...", len(lists), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/lists"

	created := make([]*seededList, len(lists))
	var (
		successful int64
		failed     int64
	)

	listChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range listChan {
				select {
				case <-ctx.Done():
					return
				default:
					resp, err := client.Post(url, lists[index])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						continue
					}

					body, err := readResponseBody(resp)
					if err != nil || resp.StatusCode != StatusCreated {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  List create failed (HTTP %d): %s", resp.StatusCode, string(body))
						}
						continue
					}

					var out List
					if err := unmarshalJSON(body, &out); err != nil {
						atomic.AddInt64(&failed, 1)
						continue
					}
					created[index] = &seededList{
						ID:       out.ID,
						Category: out.Category,
						MaxSize:  out.MaxSize,
					}
					atomic.AddInt64(&successful, 1)
				}
			}
		}()
	}

	go func() {
		defer close(listChan)
		for i := range lists {
			select {
			case <-ctx.Done():
				return
			case listChan <- i:
			}
		}
	}()

	wg.Wait()

	valid := make([]*seededList, 0, len(created))
	for _, l := range created {
		if l != nil {
			valid = append(valid, l)
		}
	}

	stats.ListsCreated = int(atomic.LoadInt64(&successful))
	if atomic.LoadInt64(&failed) > 0 {
		log.Printf("⚠️  %d list creations failed", atomic.LoadInt64(&failed))
	}
	log.Printf("✅ Created %d lists", stats.ListsCreated)

	if len(valid) == 0 {
		return nil, fmt.Errorf("no lists were created")
	}
	return valid, nil
}
