package seedtool

import (
	"time"

	"github.com/google/uuid"
)

// Config holds configuration for the seed run
type Config struct {
	BaseURL      string        // Base URL of the service
	NumItems     int           // Number of catalog items to create
	NumLists     int           // Number of ranked lists to create
	NumMutations int           // Number of randomized rank mutations to apply
	Workers      int           // Number concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for the run summary
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// Item mirrors the catalog item JSON exchanged with the API.
type Item struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Description  string `json:"description,omitempty"`
	ReferenceURL string `json:"reference_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	YearFrom     *int   `json:"year_from,omitempty"`
	YearTo       *int   `json:"year_to,omitempty"`
}

// List mirrors the ranked list JSON exchanged with the API.
type List struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	MaxSize     int    `json:"max_size"`
}

// Member mirrors one entry of GET /lists/{id}/members.
type Member struct {
	Rank int  `json:"rank"`
	Item Item `json:"item"`
}

// Membership mirrors the response of member mutations.
type Membership struct {
	ListID string `json:"list_id"`
	ItemID string `json:"item_id"`
	Rank   int    `json:"rank"`
}

// AddMemberRequest is the body of POST /lists/{id}/members.
type AddMemberRequest struct {
	ItemID string `json:"item_id"`
	Rank   int    `json:"rank"`
}

// UpdateRankRequest is the body of PATCH /lists/{id}/members/{itemID}.
type UpdateRankRequest struct {
	Rank int `json:"rank"`
}

// VoteRequest is the body of POST /votes.
type VoteRequest struct {
	UserID string `json:"user_id"`
	ListID string `json:"list_id"`
	ItemID string `json:"item_id"`
	Value  int    `json:"value"`
}

// Version mirrors the snapshot metadata returned by the versions endpoints.
type Version struct {
	ListID  string `json:"list_id"`
	Version int    `json:"version"`
}

// Statistics mirrors the item statistics row returned by the API.
type Statistics struct {
	ItemID           string   `json:"item_id"`
	TotalAppearances int      `json:"total_appearances"`
	AverageRank      *float64 `json:"average_rank"`
	BestRank         *int     `json:"best_rank"`
	WorstRank        *int     `json:"worst_rank"`
	Top10Count       int      `json:"top10_count"`
	Top3Count        int      `json:"top3_count"`
	FirstPlaceCount  int      `json:"first_place_count"`
}

// TrendingEntry mirrors one entry of the trending feed.
type TrendingEntry struct {
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	ListAppearances int    `json:"list_appearances"`
	RecentVotes     int    `json:"recent_votes"`
}

// TrendingFeed mirrors GET /trending.
type TrendingFeed struct {
	Items []TrendingEntry `json:"items"`
}

// ErrorResponse mirrors the API error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// seededList tracks one created list, its current members and the items
// evicted during churn (candidates for re-insertion).
type seededList struct {
	ID       string
	Category string
	MaxSize  int
	ItemIDs  []string
	Removed  []string
}

// Stats holds seed run statistics
type Stats struct {
	ItemsCreated       int
	ListsCreated       int
	MembersAdded       int
	MembersRejected    int
	RankMoves          int
	MembersRemoved     int
	VotesCast          int
	MutationsFailed    int
	SnapshotsCreated   int
	ListsCompacted     int
	ListsVerified      int
	VerificationErrors int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// userPool returns synthetic voter identities for the run.
func userPool(n int) []string {
	users := make([]string, n)
	for i := range users {
		users[i] = uuid.New().String()
	}
	return users
}
