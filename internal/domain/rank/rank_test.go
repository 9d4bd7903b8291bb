package rank_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xkazm04/nenet/internal/domain/rank"
)

func TestAddInBounds(t *testing.T) {
	convey.Convey("Given insertion bounds for a list of 3 members", t, func() {
		size := 3

		convey.Convey("Then ranks 1 through size+1 are legal", func() {
			convey.So(rank.AddInBounds(1, size), convey.ShouldBeTrue)
			convey.So(rank.AddInBounds(2, size), convey.ShouldBeTrue)
			convey.So(rank.AddInBounds(3, size), convey.ShouldBeTrue)
			convey.So(rank.AddInBounds(4, size), convey.ShouldBeTrue)
		})

		convey.Convey("And ranks outside [1, size+1] are rejected", func() {
			convey.So(rank.AddInBounds(0, size), convey.ShouldBeFalse)
			convey.So(rank.AddInBounds(-1, size), convey.ShouldBeFalse)
			convey.So(rank.AddInBounds(5, size), convey.ShouldBeFalse)
		})

		convey.Convey("And an empty list accepts only rank 1", func() {
			convey.So(rank.AddInBounds(1, 0), convey.ShouldBeTrue)
			convey.So(rank.AddInBounds(2, 0), convey.ShouldBeFalse)
		})
	})
}

func TestMoveInBounds(t *testing.T) {
	convey.Convey("Given move bounds for a list of 3 members", t, func() {
		size := 3

		convey.Convey("Then ranks 1 through size are legal", func() {
			convey.So(rank.MoveInBounds(1, size), convey.ShouldBeTrue)
			convey.So(rank.MoveInBounds(3, size), convey.ShouldBeTrue)
		})

		convey.Convey("And size+1 is not a legal move target", func() {
			convey.So(rank.MoveInBounds(4, size), convey.ShouldBeFalse)
		})

		convey.Convey("And zero and negatives are rejected", func() {
			convey.So(rank.MoveInBounds(0, size), convey.ShouldBeFalse)
			convey.So(rank.MoveInBounds(-2, size), convey.ShouldBeFalse)
		})
	})
}

func TestIsDense(t *testing.T) {
	convey.Convey("Given rank sets", t, func() {
		convey.Convey("Then exact permutations of 1..n are dense", func() {
			convey.So(rank.IsDense([]int{1}), convey.ShouldBeTrue)
			convey.So(rank.IsDense([]int{2, 1, 3}), convey.ShouldBeTrue)
			convey.So(rank.IsDense([]int{}), convey.ShouldBeTrue)
		})

		convey.Convey("And gaps or duplicates are not dense", func() {
			convey.So(rank.IsDense([]int{1, 3}), convey.ShouldBeFalse)
			convey.So(rank.IsDense([]int{1, 1, 2}), convey.ShouldBeFalse)
			convey.So(rank.IsDense([]int{0, 1}), convey.ShouldBeFalse)
			convey.So(rank.IsDense([]int{2, 3, 4}), convey.ShouldBeFalse)
		})
	})
}

func TestCompact(t *testing.T) {
	convey.Convey("Given memberships with gapped ranks", t, func() {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		a := uuid.New()
		b := uuid.New()
		c := uuid.New()

		entries := []rank.Entry{
			{ItemID: a, Rank: 2, CreatedAt: base},
			{ItemID: b, Rank: 5, CreatedAt: base.Add(time.Minute)},
			{ItemID: c, Rank: 9, CreatedAt: base.Add(2 * time.Minute)},
		}

		convey.Convey("When compacting", func() {
			out := rank.Compact(entries)

			convey.Convey("Then order is preserved and ranks become 1..n", func() {
				convey.So(out[0].ItemID, convey.ShouldEqual, a)
				convey.So(out[0].Rank, convey.ShouldEqual, 1)
				convey.So(out[1].ItemID, convey.ShouldEqual, b)
				convey.So(out[1].Rank, convey.ShouldEqual, 2)
				convey.So(out[2].ItemID, convey.ShouldEqual, c)
				convey.So(out[2].Rank, convey.ShouldEqual, 3)
			})

			convey.Convey("And the input is not mutated", func() {
				convey.So(entries[0].Rank, convey.ShouldEqual, 2)
				convey.So(entries[2].Rank, convey.ShouldEqual, 9)
			})
		})
	})

	convey.Convey("Given memberships with an equal-rank collision", t, func() {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		older := uuid.New()
		newer := uuid.New()

		entries := []rank.Entry{
			{ItemID: newer, Rank: 3, CreatedAt: base.Add(time.Hour)},
			{ItemID: older, Rank: 3, CreatedAt: base},
		}

		convey.Convey("When compacting", func() {
			out := rank.Compact(entries)

			convey.Convey("Then the older membership wins the earlier rank", func() {
				convey.So(out[0].ItemID, convey.ShouldEqual, older)
				convey.So(out[0].Rank, convey.ShouldEqual, 1)
				convey.So(out[1].ItemID, convey.ShouldEqual, newer)
				convey.So(out[1].Rank, convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given an empty membership set", t, func() {
		convey.Convey("When compacting", func() {
			out := rank.Compact(nil)

			convey.Convey("Then the result is empty", func() {
				convey.So(out, convey.ShouldBeEmpty)
			})
		})
	})
}
