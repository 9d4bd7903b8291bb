package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"
	model "github.com/xkazm04/nenet/internal/domain/model"
)

func TestItem(t *testing.T) {
	convey.Convey("Given an Item record", t, func() {
		convey.Convey("When creating a new item", func() {
			id := uuid.New()
			from, to := 1960, 1990
			now := time.Now().UTC()

			item := model.Item{
				ID:          id,
				Name:        "Abbey Road",
				Category:    model.CategoryMusic,
				Subcategory: "albums",
				YearFrom:    &from,
				YearTo:      &to,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(item.ID, convey.ShouldEqual, id)
				convey.So(item.Name, convey.ShouldEqual, "Abbey Road")
				convey.So(item.Category, convey.ShouldEqual, model.CategoryMusic)
				convey.So(*item.YearFrom, convey.ShouldEqual, 1960)
				convey.So(*item.YearTo, convey.ShouldEqual, 1990)
			})

			convey.Convey("And the year range should be valid", func() {
				convey.So(item.YearRangeValid(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the era bounds are inverted", func() {
			from, to := 2001, 1999
			item := model.Item{YearFrom: &from, YearTo: &to}

			convey.Convey("Then the year range should be invalid", func() {
				convey.So(item.YearRangeValid(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When only one era bound is set", func() {
			to := 1999
			item := model.Item{YearTo: &to}

			convey.Convey("Then the year range should be valid", func() {
				convey.So(item.YearRangeValid(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When creating an item with zero values", func() {
			item := model.Item{}

			convey.Convey("Then it should have default values", func() {
				convey.So(item.ID, convey.ShouldEqual, uuid.Nil)
				convey.So(item.Name, convey.ShouldEqual, "")
				convey.So(item.YearFrom, convey.ShouldBeNil)
				convey.So(item.YearTo, convey.ShouldBeNil)
				convey.So(item.ViewCount, convey.ShouldEqual, 0)
				convey.So(item.SelectionCount, convey.ShouldEqual, 0)
				convey.So(item.YearRangeValid(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMembership(t *testing.T) {
	convey.Convey("Given a Membership record", t, func() {
		convey.Convey("When placing an item at a rank", func() {
			listID := uuid.New()
			itemID := uuid.New()

			m := model.Membership{
				ListID: listID,
				ItemID: itemID,
				Rank:   1,
			}

			convey.Convey("Then it should carry the placement", func() {
				convey.So(m.ListID, convey.ShouldEqual, listID)
				convey.So(m.ItemID, convey.ShouldEqual, itemID)
				convey.So(m.Rank, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestVote(t *testing.T) {
	convey.Convey("Given a Vote record", t, func() {
		convey.Convey("When casting an upvote", func() {
			vote := model.Vote{
				UserID: uuid.New(),
				ListID: uuid.New(),
				ItemID: uuid.New(),
				Value:  1,
			}

			convey.Convey("Then the value should be +1", func() {
				convey.So(vote.Value, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When casting a downvote", func() {
			vote := model.Vote{Value: -1}

			convey.Convey("Then the value should be -1", func() {
				convey.So(vote.Value, convey.ShouldEqual, -1)
			})
		})
	})
}

func TestItemStatistics(t *testing.T) {
	convey.Convey("Given an ItemStatistics record", t, func() {
		convey.Convey("When the item has appearances", func() {
			avg := 5.33
			variance := 13.56
			best, worst := 1, 10

			stats := model.ItemStatistics{
				ItemID:           uuid.New(),
				TotalAppearances: 3,
				AverageRank:      &avg,
				BestRank:         &best,
				WorstRank:        &worst,
				RankVariance:     &variance,
				Top10Count:       3,
				Top3Count:        1,
				FirstPlaceCount:  1,
			}

			convey.Convey("Then the aggregates should be present", func() {
				convey.So(stats.TotalAppearances, convey.ShouldEqual, 3)
				convey.So(*stats.AverageRank, convey.ShouldEqual, 5.33)
				convey.So(*stats.BestRank, convey.ShouldEqual, 1)
				convey.So(*stats.WorstRank, convey.ShouldEqual, 10)
				convey.So(*stats.RankVariance, convey.ShouldEqual, 13.56)
			})
		})

		convey.Convey("When the item has no appearances", func() {
			stats := model.ItemStatistics{ItemID: uuid.New()}

			convey.Convey("Then rank-derived aggregates should be absent", func() {
				convey.So(stats.TotalAppearances, convey.ShouldEqual, 0)
				convey.So(stats.AverageRank, convey.ShouldBeNil)
				convey.So(stats.BestRank, convey.ShouldBeNil)
				convey.So(stats.WorstRank, convey.ShouldBeNil)
				convey.So(stats.RankVariance, convey.ShouldBeNil)
			})
		})
	})
}

func TestSnapshotDocument(t *testing.T) {
	convey.Convey("Given a snapshot document", t, func() {
		convey.Convey("When assembling a snapshot of a two-member list", func() {
			listID := uuid.New()
			doc := model.SnapshotDocument{
				ListMetadata: model.SnapshotListMetadata{
					ID:          listID,
					Title:       "Top Strikers",
					Category:    model.CategorySports,
					Subcategory: "football",
					MaxSize:     50,
					MemberCount: 2,
					TakenAt:     time.Now().UTC(),
				},
				Members: []model.SnapshotMember{
					{Rank: 1, Item: model.Item{Name: "Ronaldo"}},
					{Rank: 2, Item: model.Item{Name: "Henry"}, Accolades: []model.Accolade{
						{Type: model.AccoladeAward, Name: "Golden Boot"},
					}},
				},
			}

			convey.Convey("Then members should be kept in rank order with accolades", func() {
				convey.So(doc.ListMetadata.MemberCount, convey.ShouldEqual, 2)
				convey.So(len(doc.Members), convey.ShouldEqual, 2)
				convey.So(doc.Members[0].Rank, convey.ShouldEqual, 1)
				convey.So(doc.Members[1].Accolades[0].Name, convey.ShouldEqual, "Golden Boot")
			})
		})

		convey.Convey("When assembling a snapshot of an empty list", func() {
			doc := model.SnapshotDocument{
				ListMetadata: model.SnapshotListMetadata{ID: uuid.New(), MemberCount: 0},
				Members:      []model.SnapshotMember{},
			}

			convey.Convey("Then it should be valid with zero members", func() {
				convey.So(doc.Members, convey.ShouldBeEmpty)
			})
		})
	})
}
