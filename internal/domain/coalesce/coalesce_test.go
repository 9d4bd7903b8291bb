package coalesce_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	coalesce "github.com/xkazm04/nenet/internal/domain/coalesce"
)

func TestInMemoryCoalescer(t *testing.T) {
	Convey("Given a new InMemoryCoalescer", t, func() {
		Convey("When creating a coalescer with default options", func() {
			c := coalesce.NewInMemoryCoalescer()

			Convey("Then it should have default configuration", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
			})
		})

		Convey("When marking items pending", func() {
			c := coalesce.NewInMemoryCoalescer()

			Convey("And the item is new", func() {
				id := uuid.New()
				already := c.MarkPending(context.Background(), id)

				Convey("Then it should return false and record the item", func() {
					So(already, ShouldBeFalse)
					So(c.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the item is already pending", func() {
				id := uuid.New()
				c.MarkPending(context.Background(), id)

				already := c.MarkPending(context.Background(), id)

				Convey("Then it should return true without growing", func() {
					So(already, ShouldBeTrue)
					So(c.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple distinct items are marked", func() {
				ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

				for _, id := range ids {
					already := c.MarkPending(context.Background(), id)
					So(already, ShouldBeFalse)
				}

				Convey("Then all items should be pending", func() {
					So(c.Size(), ShouldEqual, int64(len(ids)))

					for _, id := range ids {
						So(c.MarkPending(context.Background(), id), ShouldBeTrue)
					}
				})
			})
		})

		Convey("When releasing items", func() {
			c := coalesce.NewInMemoryCoalescer()

			Convey("And the item is pending", func() {
				id := uuid.New()
				c.MarkPending(context.Background(), id)
				So(c.Size(), ShouldEqual, 1)

				c.Release(context.Background(), id)

				Convey("Then it should be removed and schedulable again", func() {
					So(c.Size(), ShouldEqual, 0)
					So(c.MarkPending(context.Background(), id), ShouldBeFalse)
				})
			})

			Convey("And the item is not pending", func() {
				c.Release(context.Background(), uuid.New())

				Convey("Then it should not affect the size", func() {
					So(c.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the coalescer is bounded", func() {
			c := coalesce.NewInMemoryCoalescer(coalesce.WithMaxSize(3))

			Convey("And more items than the bound are marked", func() {
				first := uuid.New()
				c.MarkPending(context.Background(), first)
				c.MarkPending(context.Background(), uuid.New())
				c.MarkPending(context.Background(), uuid.New())
				c.MarkPending(context.Background(), uuid.New())

				Convey("Then the size stays at the bound", func() {
					So(c.Size(), ShouldEqual, 3)
				})

				Convey("And the oldest marker was evicted", func() {
					So(c.MarkPending(context.Background(), first), ShouldBeFalse)
				})
			})
		})

		Convey("When the coalescer is unbounded", func() {
			c := coalesce.NewInMemoryCoalescer(coalesce.WithMaxSize(0))

			Convey("And many items are marked", func() {
				for i := 0; i < 500; i++ {
					c.MarkPending(context.Background(), uuid.New())
				}

				Convey("Then nothing is evicted", func() {
					So(c.Size(), ShouldEqual, 500)
				})
			})
		})
	})
}

func TestCoalescerConcurrency(t *testing.T) {
	Convey("Given concurrent marks of the same item", t, func() {
		c := coalesce.NewInMemoryCoalescer()
		id := uuid.New()

		const goroutines = 32
		newlyMarked := make(chan bool, goroutines)
		var wg sync.WaitGroup

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !c.MarkPending(context.Background(), id) {
					newlyMarked <- true
				}
			}()
		}
		wg.Wait()
		close(newlyMarked)

		Convey("Then exactly one goroutine wins", func() {
			count := 0
			for range newlyMarked {
				count++
			}
			So(count, ShouldEqual, 1)
			So(c.Size(), ShouldEqual, 1)
		})
	})
}
