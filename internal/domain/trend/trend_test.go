package trend_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xkazm04/nenet/internal/domain/model"
	"github.com/xkazm04/nenet/internal/domain/trend"
)

func TestOrder(t *testing.T) {
	convey.Convey("Given trending entries with distinct vote counts", t, func() {
		items := []model.TrendingItem{
			{ItemID: uuid.New(), Name: "cold", RecentVotes: 1, ListAppearances: 9},
			{ItemID: uuid.New(), Name: "hot", RecentVotes: 8, ListAppearances: 1},
			{ItemID: uuid.New(), Name: "warm", RecentVotes: 4, ListAppearances: 5},
		}

		convey.Convey("When ordering", func() {
			trend.Order(items)

			convey.Convey("Then recent votes dominate appearances", func() {
				convey.So(items[0].Name, convey.ShouldEqual, "hot")
				convey.So(items[1].Name, convey.ShouldEqual, "warm")
				convey.So(items[2].Name, convey.ShouldEqual, "cold")
			})
		})
	})

	convey.Convey("Given two entries tied on votes", t, func() {
		x := model.TrendingItem{ItemID: uuid.New(), Name: "X", RecentVotes: 5, ListAppearances: 2}
		y := model.TrendingItem{ItemID: uuid.New(), Name: "Y", RecentVotes: 5, ListAppearances: 4}
		items := []model.TrendingItem{x, y}

		convey.Convey("When ordering", func() {
			trend.Order(items)

			convey.Convey("Then the entry on more lists ranks first", func() {
				convey.So(items[0].Name, convey.ShouldEqual, "Y")
				convey.So(items[1].Name, convey.ShouldEqual, "X")
			})
		})
	})

	convey.Convey("Given entries tied on votes and appearances", t, func() {
		a := model.TrendingItem{ItemID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), RecentVotes: 5, ListAppearances: 3}
		b := model.TrendingItem{ItemID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), RecentVotes: 5, ListAppearances: 3}

		convey.Convey("When ordering both permutations", func() {
			first := []model.TrendingItem{b, a}
			second := []model.TrendingItem{a, b}
			trend.Order(first)
			trend.Order(second)

			convey.Convey("Then the outcome is identical regardless of input order", func() {
				convey.So(first[0].ItemID, convey.ShouldEqual, a.ItemID)
				convey.So(second[0].ItemID, convey.ShouldEqual, a.ItemID)
			})
		})
	})

	convey.Convey("Given an empty feed", t, func() {
		convey.Convey("When ordering", func() {
			items := []model.TrendingItem{}
			trend.Order(items)

			convey.Convey("Then nothing happens", func() {
				convey.So(items, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestTruncate(t *testing.T) {
	convey.Convey("Given a feed of five entries", t, func() {
		items := make([]model.TrendingItem, 5)
		for i := range items {
			items[i].ItemID = uuid.New()
		}

		convey.Convey("When truncating to three", func() {
			out := trend.Truncate(items, 3)

			convey.Convey("Then only the head remains", func() {
				convey.So(len(out), convey.ShouldEqual, 3)
				convey.So(out[0].ItemID, convey.ShouldEqual, items[0].ItemID)
			})
		})

		convey.Convey("When truncating with a larger limit", func() {
			out := trend.Truncate(items, 50)

			convey.Convey("Then the feed is unchanged", func() {
				convey.So(len(out), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When truncating with a non-positive limit", func() {
			out := trend.Truncate(items, 0)

			convey.Convey("Then the feed is unchanged", func() {
				convey.So(len(out), convey.ShouldEqual, 5)
			})
		})
	})
}
