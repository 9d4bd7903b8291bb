package validation_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xkazm04/nenet/internal/validation"
)

type sampleRequest struct {
	Name     string `validate:"required,min=1,max=64"`
	Category string `validate:"required,oneof=music sports games"`
	MaxSize  int    `validate:"min=1,max=100"`
	URL      string `validate:"omitempty,url"`
	YearFrom int    `validate:"omitempty,min=1"`
	YearTo   int    `validate:"omitempty,gtefield=YearFrom"`
}

func TestStruct(t *testing.T) {
	Convey("Given the singleton validator", t, func() {
		So(validation.Get(), ShouldNotBeNil)

		Convey("When validating a well-formed struct", func() {
			req := sampleRequest{
				Name:     "Greatest Albums",
				Category: "music",
				MaxSize:  50,
				URL:      "https://example.com/albums",
				YearFrom: 1960,
				YearTo:   1990,
			}

			Convey("Then no error is returned", func() {
				So(validation.Struct(&req), ShouldBeNil)
			})
		})

		Convey("When a required field is missing", func() {
			req := sampleRequest{Category: "music", MaxSize: 10}
			err := validation.Struct(&req)

			Convey("Then the field error names the field", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "Name is required")
				So(len(err.Fields()), ShouldEqual, 1)
				So(err.Fields()[0].Field(), ShouldEqual, "Name")
				So(err.Fields()[0].Tag(), ShouldEqual, "required")
			})
		})

		Convey("When a closed-set field has an unknown value", func() {
			req := sampleRequest{Name: "x", Category: "movies", MaxSize: 10}
			err := validation.Struct(&req)

			Convey("Then the oneof failure lists the allowed values", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "must be one of: music sports games")
			})
		})

		Convey("When a numeric bound is violated", func() {
			req := sampleRequest{Name: "x", Category: "games", MaxSize: 500}
			err := validation.Struct(&req)

			Convey("Then the max failure carries the bound", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "MaxSize must be at most 100")
			})
		})

		Convey("When a cross-field bound is violated", func() {
			req := sampleRequest{
				Name: "x", Category: "games", MaxSize: 10,
				YearFrom: 2000, YearTo: 1990,
			}
			err := validation.Struct(&req)

			Convey("Then the field comparison is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "YearTo must be greater than or equal to YearFrom")
			})
		})

		Convey("When several fields fail at once", func() {
			req := sampleRequest{Category: "movies", MaxSize: 0}
			err := validation.Struct(&req)

			Convey("Then every failure is collected", func() {
				So(err, ShouldNotBeNil)
				So(len(err.Fields()), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})
	})
}
