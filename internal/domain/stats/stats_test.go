package stats_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/xkazm04/nenet/internal/domain/stats"
)

func TestSummarize(t *testing.T) {
	convey.Convey("Given an item ranked 1, 5, and 10 across three lists", t, func() {
		summary := stats.Summarize([]int{1, 5, 10})

		convey.Convey("Then the aggregates match the worked example", func() {
			convey.So(summary.TotalAppearances, convey.ShouldEqual, 3)
			convey.So(*summary.AverageRank, convey.ShouldEqual, 5.33)
			convey.So(*summary.BestRank, convey.ShouldEqual, 1)
			convey.So(*summary.WorstRank, convey.ShouldEqual, 10)
			convey.So(*summary.RankVariance, convey.ShouldEqual, 13.56)
			convey.So(summary.Top10Count, convey.ShouldEqual, 3)
			convey.So(summary.Top3Count, convey.ShouldEqual, 1)
			convey.So(summary.FirstPlaceCount, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given an item with no appearances", t, func() {
		summary := stats.Summarize(nil)

		convey.Convey("Then counts are zero and aggregates are nil", func() {
			convey.So(summary.TotalAppearances, convey.ShouldEqual, 0)
			convey.So(summary.AverageRank, convey.ShouldBeNil)
			convey.So(summary.BestRank, convey.ShouldBeNil)
			convey.So(summary.WorstRank, convey.ShouldBeNil)
			convey.So(summary.RankVariance, convey.ShouldBeNil)
			convey.So(summary.Top10Count, convey.ShouldEqual, 0)
			convey.So(summary.Top3Count, convey.ShouldEqual, 0)
			convey.So(summary.FirstPlaceCount, convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a single appearance at rank 1", t, func() {
		summary := stats.Summarize([]int{1})

		convey.Convey("Then every aggregate collapses to that rank", func() {
			convey.So(summary.TotalAppearances, convey.ShouldEqual, 1)
			convey.So(*summary.AverageRank, convey.ShouldEqual, 1.0)
			convey.So(*summary.BestRank, convey.ShouldEqual, 1)
			convey.So(*summary.WorstRank, convey.ShouldEqual, 1)
			convey.So(*summary.RankVariance, convey.ShouldEqual, 0.0)
			convey.So(summary.Top10Count, convey.ShouldEqual, 1)
			convey.So(summary.Top3Count, convey.ShouldEqual, 1)
			convey.So(summary.FirstPlaceCount, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given identical ranks across lists", t, func() {
		summary := stats.Summarize([]int{7, 7, 7, 7})

		convey.Convey("Then the variance is zero", func() {
			convey.So(*summary.AverageRank, convey.ShouldEqual, 7.0)
			convey.So(*summary.RankVariance, convey.ShouldEqual, 0.0)
			convey.So(summary.Top10Count, convey.ShouldEqual, 4)
			convey.So(summary.Top3Count, convey.ShouldEqual, 0)
			convey.So(summary.FirstPlaceCount, convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given ranks straddling the podium thresholds", t, func() {
		summary := stats.Summarize([]int{1, 3, 4, 10, 11, 50})

		convey.Convey("Then the threshold counters are inclusive", func() {
			convey.So(summary.TotalAppearances, convey.ShouldEqual, 6)
			convey.So(summary.Top10Count, convey.ShouldEqual, 4)      // 1, 3, 4, 10
			convey.So(summary.Top3Count, convey.ShouldEqual, 2)       // 1, 3
			convey.So(summary.FirstPlaceCount, convey.ShouldEqual, 1) // 1
			convey.So(*summary.BestRank, convey.ShouldEqual, 1)
			convey.So(*summary.WorstRank, convey.ShouldEqual, 50)
		})
	})

	convey.Convey("Given ranks whose mean needs rounding", t, func() {
		summary := stats.Summarize([]int{1, 2})

		convey.Convey("Then the average is rounded to two decimals", func() {
			convey.So(*summary.AverageRank, convey.ShouldEqual, 1.5)
			convey.So(*summary.RankVariance, convey.ShouldEqual, 0.25)
		})
	})
}
